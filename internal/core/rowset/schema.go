package rowset

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field maps a canonical report field to the column names that may carry it,
// in order of preference.
type Field struct {
	Name     string
	Keys     []string
	Required bool
}

// Schema is the field-resolution table of one report.
type Schema []Field

// Binding is a Schema resolved against the columns of one ResultSet.
type Binding struct {
	rs    *ResultSet
	index map[string]int
}

// MissingColumnError reports a required field none of whose keys is present.
type MissingColumnError struct {
	Field string
	Keys  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required field %q not found in result set (looked for %s)", e.Field, strings.Join(e.Keys, ", "))
}

// Bind resolves every field once. Optional fields without a matching column
// resolve to null for every row.
func (s Schema) Bind(rs *ResultSet) (*Binding, error) {
	if rs == nil {
		rs = Empty()
	}
	b := &Binding{rs: rs, index: make(map[string]int, len(s))}
	for _, f := range s {
		idx := -1
		for _, key := range f.Keys {
			if idx = rs.Index(key); idx >= 0 {
				break
			}
		}
		if idx < 0 && f.Required {
			return nil, &MissingColumnError{Field: f.Name, Keys: f.Keys}
		}
		b.index[f.Name] = idx
	}
	return b, nil
}

// Len returns number of rows.
func (b *Binding) Len() int {
	return b.rs.Len()
}

// Row returns an accessor for row i.
func (b *Binding) Row(i int) Row {
	return Row{b: b, i: i}
}

// Row reads canonical fields of one row.
type Row struct {
	b *Binding
	i int
}

// Value returns the raw value of a field, nil when unresolved.
// Asking for a field outside the schema is a programming error and panics.
func (r Row) Value(field string) any {
	idx, ok := r.b.index[field]
	if !ok {
		panic(fmt.Sprintf("rowset: field %q is not part of the schema", field))
	}
	row := r.b.rs.Rows[r.i]
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func (r Row) column(field string) string {
	if idx := r.b.index[field]; idx >= 0 {
		return r.b.rs.Columns[idx]
	}
	return ""
}

// String returns the field as trimmed text. Fixed-width columns come back
// space padded, so trimming is always applied.
func (r Row) String(field string) string {
	return toString(r.Value(field))
}

// Decimal returns the field as a decimal; null reads as zero.
func (r Row) Decimal(field string) (decimal.Decimal, error) {
	v := r.Value(field)
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, &CoercionError{Field: field, Column: r.column(field), Value: v, Err: err}
	}
	return d, nil
}

// Time returns the field as a time; null or blank reads as nil.
func (r Row) Time(field string) (*time.Time, error) {
	v := r.Value(field)
	t, err := toTime(v)
	if err != nil {
		return nil, &CoercionError{Field: field, Column: r.column(field), Value: v, Err: err}
	}
	return t, nil
}

// CoercionError reports a value that cannot be read as the requested type.
type CoercionError struct {
	Field  string
	Column string
	Value  any
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("field %q (column %q): cannot coerce %v: %v", e.Field, e.Column, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}
