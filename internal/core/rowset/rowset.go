// Package rowset holds query results as column-ordered rows and resolves
// report fields against them.
//
// A ResultSet is what the query executor returns: lower-cased column names in
// select order plus one value slice per row. Reports never read a ResultSet
// by raw column name; they declare a Schema (canonical field -> acceptable
// column names) and Bind it once per result set.
package rowset

import (
	"strings"
)

// ResultSet is a fully materialized query result.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// New creates a ResultSet, normalizing column names to lower case.
func New(columns []string, rows ...[]any) *ResultSet {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.ToLower(c)
	}
	return &ResultSet{Columns: cols, Rows: rows}
}

// Empty returns a ResultSet without rows.
func Empty(columns ...string) *ResultSet {
	return New(columns)
}

// Len returns number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Index returns the position of a column, or -1.
func (rs *ResultSet) Index(column string) int {
	column = strings.ToLower(column)
	for i, c := range rs.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Maps returns each row as a column -> value mapping.
func (rs *ResultSet) Maps() []map[string]any {
	out := make([]map[string]any, 0, rs.Len())
	for _, row := range rs.Rows {
		m := make(map[string]any, len(rs.Columns))
		for i, c := range rs.Columns {
			if i < len(row) {
				m[c] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}
