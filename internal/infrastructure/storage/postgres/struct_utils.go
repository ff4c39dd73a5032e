package postgres

import (
	"fmt"
	"reflect"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// It handles embedded structs recursively.
// This function is called once at initialization time, so reflection overhead is acceptable.
//
// Usage:
//
//	columns := ExtractDBColumns[reports.Location]()
//	// Returns: ["location", "movement_count"]
func ExtractDBColumns[T any]() []string {
	var zero T
	t := reflect.TypeOf(zero)
	return extractColumnsFromType(t)
}

// extractColumnsFromType recursively extracts column names from a type.
func extractColumnsFromType(t reflect.Type) []string {
	// Dereference pointer types
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		cols = append(cols, tag)
	}

	return cols
}

// SelectColumns renders "expression AS column" for every db-tagged field of
// T, in field order. Every column needs an expression, so the query and the
// scan target cannot drift apart.
func SelectColumns[T any](exprs map[string]string) ([]string, error) {
	cols := ExtractDBColumns[T]()
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		expr, ok := exprs[c]
		if !ok {
			return nil, fmt.Errorf("no select expression for column %q", c)
		}
		out = append(out, fmt.Sprintf("%s AS %s", expr, c))
	}
	return out, nil
}
