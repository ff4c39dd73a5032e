package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoque/internal/core/apperror"
)

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	columns []string
	data    [][]any
	pos     int
	iterErr error
	closed  bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.iterErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		target.Set(reflect.ValueOf(row[i]).Convert(target.Type()))
	}
	return nil
}

// fakeSource returns canned rows or an error and records the last call.
type fakeSource struct {
	rows    *fakeRows
	err     error
	block   bool
	pingErr error

	lastSQL  string
	lastArgs []any
}

func (s *fakeSource) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.lastSQL, s.lastArgs = sql, args
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func (s *fakeSource) Ping(context.Context) error { return s.pingErr }

func newTestExecutor(src *fakeSource, timeout time.Duration) *Executor {
	reg := NewRegistry()
	reg.Add("protheus", src)
	return NewExecutor(reg, timeout)
}

func TestExecutor_Query_LowercasesColumns(t *testing.T) {
	src := &fakeSource{rows: &fakeRows{
		columns: []string{"CODIGO", "Saldo"},
		data:    [][]any{{"P001", 10.0}, {"P002", nil}},
	}}
	e := newTestExecutor(src, time.Second)

	rs, err := e.Query(context.Background(), "protheus", "SELECT 1 WHERE x = $1", "01")
	require.NoError(t, err)

	assert.Equal(t, []string{"codigo", "saldo"}, rs.Columns)
	assert.Equal(t, 2, rs.Len())
	assert.Nil(t, rs.Maps()[1]["saldo"])
	assert.Equal(t, []any{"01"}, src.lastArgs)
	assert.True(t, src.rows.closed)
}

func TestExecutor_Query_UnknownSource(t *testing.T) {
	e := newTestExecutor(&fakeSource{}, time.Second)

	_, err := e.Query(context.Background(), "missing", "SELECT 1")
	require.Error(t, err)
	assert.True(t, apperror.IsDataSource(err))
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

func TestExecutor_Query_DriverError(t *testing.T) {
	cause := errors.New("connection refused")
	e := newTestExecutor(&fakeSource{err: cause}, time.Second)

	rs, err := e.Query(context.Background(), "protheus", "SELECT 1")
	assert.Nil(t, rs)
	assert.True(t, apperror.IsDataSource(err))
	assert.ErrorIs(t, err, cause)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HTTPStatus)
}

func TestExecutor_Query_IterationErrorDiscardsRows(t *testing.T) {
	src := &fakeSource{rows: &fakeRows{
		columns: []string{"code"},
		data:    [][]any{{"A"}, {"B"}},
		iterErr: errors.New("conn reset"),
	}}
	e := newTestExecutor(src, time.Second)

	rs, err := e.Query(context.Background(), "protheus", "SELECT code")
	assert.Nil(t, rs)
	assert.True(t, apperror.IsDataSource(err))
}

func TestExecutor_Query_Timeout(t *testing.T) {
	e := newTestExecutor(&fakeSource{block: true}, 10*time.Millisecond)

	_, err := e.Query(context.Background(), "protheus", "SELECT pg_sleep(10)")
	require.Error(t, err)
	assert.True(t, apperror.IsDataSource(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExecutor_Select(t *testing.T) {
	type location struct {
		Location      string `db:"location"`
		MovementCount int64  `db:"movement_count"`
	}
	src := &fakeSource{rows: &fakeRows{
		columns: []string{"location", "movement_count"},
		data:    [][]any{{"01", int64(12)}, {"02", int64(3)}},
	}}
	e := newTestExecutor(src, time.Second)

	var out []location
	err := e.Select(context.Background(), "protheus", &out, "SELECT ...")
	require.NoError(t, err)
	assert.Equal(t, []location{{"01", 12}, {"02", 3}}, out)
}

func TestRegistry_Ping(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a", &fakeSource{})
	reg.Add("b", &fakeSource{pingErr: errors.New("down")})

	assert.Equal(t, []string{"a", "b"}, reg.Names())
	assert.True(t, reg.Has("a"))
	checks := reg.Ping(context.Background())
	assert.Len(t, checks, 2)
	assert.NoError(t, checks["a"])
	assert.EqualError(t, checks["b"], "down")
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t WHERE x = $1", compact("SELECT a\n\tFROM t\n   WHERE x = $1"))
}
