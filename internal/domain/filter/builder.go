package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// DeletedColumn is the soft-delete marker column present on every ERP table.
// A live row holds a single space; deleted rows hold '*'.
const DeletedColumn = "D_E_L_E_T_"

// DateLayout is how the ERP stores dates: CHAR(8) YYYYMMDD.
const DateLayout = "20060102"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// --- Constructors ---

// Text matches a fixed-width text column by prefix after trimming the input.
func Text(field, value string) Item {
	return Item{Field: field, Operator: StartsWith, Value: value}
}

// Eq matches a column exactly.
func Eq(field string, value any) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}

// Since matches rows dated on or after the day of t.
func Since(field string, t time.Time) Item {
	return Item{Field: field, Operator: GreaterOrEqual, Value: DateKey(t)}
}

// DateKey formats t the way date columns are stored. The zero time yields "".
func DateKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Positive matches rows with a value greater than zero.
func Positive(field string) Item {
	return Item{Field: field, Operator: Greater, Value: 0}
}

// OneOf matches any of the values.
func OneOf(field string, values ...string) Item {
	return Item{Field: field, Operator: InList, Value: values}
}

// Blank matches NULL or space-only columns.
func Blank(field string) Item {
	return Item{Field: field, Operator: IsBlank}
}

// NotBlank matches columns with content.
func NotBlank(field string) Item {
	return Item{Field: field, Operator: IsNotBlank}
}

// Live is the soft-delete predicate for a table alias.
func Live(alias string) squirrel.Sqlizer {
	return squirrel.Expr(qualify(alias, DeletedColumn) + " = ' '")
}

// LiveJoin returns the soft-delete condition for use inside a JOIN ... ON clause.
func LiveJoin(alias string) string {
	return qualify(alias, DeletedColumn) + " = ' '"
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

// --- Windows ---

// MonthsAgo returns now shifted back n calendar months.
func MonthsAgo(now time.Time, n int) time.Time {
	return now.AddDate(0, -n, 0)
}

// DaysAgo returns the start of the day n days before now.
// DaysAgo(now, 0) is today at midnight.
func DaysAgo(now time.Time, n int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-n, 0, 0, 0, 0, now.Location())
}

// --- Building ---

// Build converts items to predicates, skipping empty ones.
func Build(items ...Item) (squirrel.And, error) {
	preds := make(squirrel.And, 0, len(items))
	for _, item := range items {
		pred, ok, err := ToSqlizer(item)
		if err != nil {
			return nil, err
		}
		if ok {
			preds = append(preds, pred)
		}
	}
	return preds, nil
}

// Apply adds the non-empty items to the WHERE clause of q.
func Apply(q squirrel.SelectBuilder, items ...Item) (squirrel.SelectBuilder, error) {
	preds, err := Build(items...)
	if err != nil {
		return q, err
	}
	for _, p := range preds {
		q = q.Where(p)
	}
	return q, nil
}

// ToSqlizer converts a single item. ok is false when the item carries no
// value and must be omitted.
func ToSqlizer(item Item) (pred squirrel.Sqlizer, ok bool, err error) {
	if item.Field == "" {
		return nil, false, fmt.Errorf("filter: empty field")
	}

	switch item.Operator {
	case IsBlank:
		return squirrel.Expr(fmt.Sprintf("COALESCE(TRIM(%s), '') = ''", item.Field)), true, nil
	case IsNotBlank:
		return squirrel.Expr(fmt.Sprintf("COALESCE(TRIM(%s), '') <> ''", item.Field)), true, nil
	}

	value, present := normalize(item.Value)
	if !present {
		return nil, false, nil
	}

	switch item.Operator {
	case Equal:
		return squirrel.Eq{item.Field: value}, true, nil
	case StartsWith:
		s, isString := value.(string)
		if !isString {
			return nil, false, fmt.Errorf("filter: %s on %s needs a string, got %T", item.Operator, item.Field, value)
		}
		return squirrel.Like{item.Field: likeEscaper.Replace(s) + "%"}, true, nil
	case GreaterOrEqual:
		return squirrel.GtOrEq{item.Field: value}, true, nil
	case Greater:
		return squirrel.Gt{item.Field: value}, true, nil
	case Less:
		return squirrel.Lt{item.Field: value}, true, nil
	case InList:
		return squirrel.Eq{item.Field: value}, true, nil
	default:
		return nil, false, fmt.Errorf("filter: unsupported operator %q", item.Operator)
	}
}

// normalize trims text values and reports whether anything is left to match.
func normalize(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case *string:
		if x == nil {
			return nil, false
		}
		return normalize(*x)
	case []string:
		out := make([]string, 0, len(x))
		for _, s := range x {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil, false
		}
		return *x, true
	default:
		return v, true
	}
}
