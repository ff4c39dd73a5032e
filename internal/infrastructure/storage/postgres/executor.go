package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"estoque/internal/core/apperror"
	appctx "estoque/internal/core/context"
	"estoque/internal/core/rowset"
	"estoque/pkg/logger"
)

var tracer = otel.Tracer("estoque/datasource")

// DefaultQueryTimeout bounds a single query when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// Executor runs parameterized queries against named data sources.
// Every failure is returned as a data source AppError; no partial result
// is ever returned.
type Executor struct {
	registry *Registry
	timeout  time.Duration
}

// NewExecutor creates an executor. A non-positive timeout uses DefaultQueryTimeout.
func NewExecutor(registry *Registry, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Executor{registry: registry, timeout: timeout}
}

// Query returns the rows of sql as a result set with lower-cased column names.
func (e *Executor) Query(ctx context.Context, source, sql string, args ...any) (*rowset.ResultSet, error) {
	var rs *rowset.ResultSet
	err := e.run(ctx, source, sql, args, func(ctx context.Context, q Querier) (int, error) {
		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		columns := make([]string, len(fields))
		for i, f := range fields {
			columns[i] = f.Name
		}

		result := rowset.New(columns)
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return 0, err
			}
			result.Rows = append(result.Rows, values)
		}
		if err := rows.Err(); err != nil {
			return 0, err
		}
		rs = result
		return result.Len(), nil
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Select scans the rows of sql into dst, a pointer to a slice of structs,
// matching columns to `db` tags.
func (e *Executor) Select(ctx context.Context, source string, dst any, sql string, args ...any) error {
	return e.run(ctx, source, sql, args, func(ctx context.Context, q Querier) (int, error) {
		if err := pgxscan.Select(ctx, q, dst, sql, args...); err != nil {
			return 0, err
		}
		return -1, nil
	})
}

// run wraps a query with the timeout, span, logs and error mapping.
func (e *Executor) run(
	ctx context.Context,
	source, sql string,
	args []any,
	fn func(ctx context.Context, q Querier) (int, error),
) error {
	ctx, span := tracer.Start(ctx, "datasource.query",
		trace.WithAttributes(
			attribute.String("datasource.name", source),
			attribute.Int("datasource.params", len(args)),
			attribute.String("report.name", appctx.GetReportName(ctx)),
		),
	)
	defer span.End()

	log := logger.FromContext(ctx).With("source", source)
	log.Debugw("executing query", "query", compact(sql), "params", len(args))

	q, err := e.registry.Querier(source)
	if err != nil {
		return e.fail(ctx, span, source, err)
	}

	qctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	n, err := fn(qctx, q)
	if err != nil {
		if errors.Is(qctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("query timed out after %s: %w", e.timeout, err)
		}
		return e.fail(ctx, span, source, err)
	}

	if n >= 0 {
		span.SetAttributes(attribute.Int("datasource.rows", n))
		log.Debugw("query completed", "rows", n, "duration_ms", time.Since(started).Milliseconds())
	} else {
		log.Debugw("query completed", "duration_ms", time.Since(started).Milliseconds())
	}
	return nil
}

func (e *Executor) fail(ctx context.Context, span trace.Span, source string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Error(ctx, "query failed", "source", source, "error", err)
	return apperror.NewDataSource(source, err)
}

// compact folds the whitespace of a multi-line query onto one line for logs.
func compact(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
