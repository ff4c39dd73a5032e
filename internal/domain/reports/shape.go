package reports

import (
	"context"
	"errors"
	"fmt"

	"estoque/internal/core/apperror"
	"estoque/internal/core/rowset"
	"estoque/pkg/logger"
)

// ShapingError reports a row that could not be turned into a record.
// The row is skipped; the report continues.
type ShapingError struct {
	Report string
	Row    int
	Field  string
	Err    error
}

func (e *ShapingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: row %d: field %q: %v", e.Report, e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: row %d: %v", e.Report, e.Row, e.Err)
}

func (e *ShapingError) Unwrap() error {
	return e.Err
}

// shape parses every row of rs with parse. Rows that fail are logged and
// dropped. A result set lacking a required column fails the whole report.
func shape[T any](
	ctx context.Context,
	report string,
	schema rowset.Schema,
	rs *rowset.ResultSet,
	parse func(rowset.Row) (T, error),
) ([]T, error) {
	b, err := schema.Bind(rs)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("%s: %w", report, err))
	}

	out := make([]T, 0, b.Len())
	skipped := 0
	var raw []map[string]any
	for i := 0; i < b.Len(); i++ {
		rec, err := parse(b.Row(i))
		if err != nil {
			skipped++
			if raw == nil {
				raw = rs.Maps()
			}
			logger.Warn(ctx, "skipping malformed row",
				"error", newShapingError(report, i, err),
				"row", raw[i],
			)
			continue
		}
		out = append(out, rec)
	}
	if skipped > 0 {
		logger.Warn(ctx, "report rows skipped", "report", report, "skipped", skipped, "kept", len(out))
	}
	return out, nil
}

func newShapingError(report string, row int, err error) *ShapingError {
	se := &ShapingError{Report: report, Row: row, Err: err}
	var ce *rowset.CoercionError
	if errors.As(err, &ce) {
		se.Field = ce.Field
	}
	return se
}
