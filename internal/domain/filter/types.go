// Package filter turns user-supplied report filters into parameterized
// SQL predicates.
package filter

// ComparisonType defines the supported comparisons.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"          // Equal
	StartsWith     ComparisonType = "starts_with" // Prefix match on the trimmed value (LIKE 'val%')
	GreaterOrEqual ComparisonType = "gte"         // Greater or equal
	Greater        ComparisonType = "gt"          // Greater
	Less           ComparisonType = "lt"          // Less
	InList         ComparisonType = "in"          // In list

	IsBlank    ComparisonType = "blank"     // NULL or only spaces
	IsNotBlank ComparisonType = "not_blank" // Has a non-space character
)

// Item is one filter condition.
type Item struct {
	Field    string         `json:"field"`    // Qualified column (e.g. "SB1.B1_FILIAL")
	Operator ComparisonType `json:"operator"` // Comparison
	Value    any            `json:"value"`    // Value (string, number, time, list)
}
