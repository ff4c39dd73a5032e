package report_repo

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoque/internal/core/apperror"
	"estoque/internal/core/paging"
	"estoque/internal/core/rowset"
	"estoque/internal/domain/reports"
)

type call struct {
	source string
	sql    string
	args   []any
}

// fakeExecutor records every statement and answers Select calls from
// selectRows, matching struct fields by db tag.
type fakeExecutor struct {
	calls      []call
	result     *rowset.ResultSet
	selectRows []map[string]any
	err        error
}

func (f *fakeExecutor) Query(_ context.Context, source, sql string, args ...any) (*rowset.ResultSet, error) {
	f.calls = append(f.calls, call{source, sql, args})
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return rowset.Empty(), nil
	}
	return f.result, nil
}

func (f *fakeExecutor) Select(_ context.Context, source string, dst any, sql string, args ...any) error {
	f.calls = append(f.calls, call{source, sql, args})
	if f.err != nil {
		return f.err
	}
	slice := reflect.ValueOf(dst).Elem()
	elemType := slice.Type().Elem()
	for _, row := range f.selectRows {
		elem := reflect.New(elemType).Elem()
		for i := 0; i < elemType.NumField(); i++ {
			if v, ok := row[elemType.Field(i).Tag.Get("db")]; ok {
				elem.Field(i).Set(reflect.ValueOf(v))
			}
		}
		slice.Set(reflect.Append(slice, elem))
	}
	return nil
}

func (f *fakeExecutor) last() call {
	return f.calls[len(f.calls)-1]
}

func newTestRepo(exec *fakeExecutor) *ReportRepo {
	return NewReportRepo(exec, "protheus", TablesFor("010"))
}

var since = time.Date(2026, 1, 20, 14, 0, 0, 0, time.UTC)

// assertLive checks the soft-delete predicate of every alias.
func assertLive(t *testing.T, sql string, aliases ...string) {
	t.Helper()
	for _, a := range aliases {
		assert.Contains(t, sql, a+".D_E_L_E_T_ = ' '", "alias %s must exclude deleted rows", a)
	}
}

func TestStockSummary(t *testing.T) {
	exec := &fakeExecutor{}
	repo := newTestRepo(exec)

	_, err := repo.StockSummary(context.Background(), reports.StockFilter{Branch: " 01", Warehouse: "02"})
	require.NoError(t, err)

	c := exec.last()
	assert.Equal(t, "protheus", c.source)
	assert.Contains(t, c.sql, "FROM SB1010 SB1 LEFT JOIN SB2010 SB2 ON SB2.B2_FILIAL = SB1.B1_FILIAL AND SB2.B2_COD = SB1.B1_COD")
	assert.Contains(t, c.sql, "COALESCE(SB1.B1_MSBLQL, ' ') <> '1'")
	assert.Contains(t, c.sql, "SB1.B1_FILIAL LIKE $1")
	assert.Contains(t, c.sql, "AND SB2.B2_LOCAL LIKE $2")
	assert.NotContains(t, c.sql, "COALESCE(SB2.B2_LOCAL, '01') LIKE", "products without a balance row must not match a warehouse")
	assert.True(t, strings.HasSuffix(c.sql, "ORDER BY SB1.B1_FILIAL, SB1.B1_COD, location"))
	assert.Equal(t, []any{"01%", "02%"}, c.args)
	assertLive(t, c.sql, "SB1", "SB2")
}

func TestStockSummary_EmptyFilterEqualsOmitted(t *testing.T) {
	exec := &fakeExecutor{}
	repo := newTestRepo(exec)

	_, err := repo.StockSummary(context.Background(), reports.StockFilter{Branch: ""})
	require.NoError(t, err)
	_, err = repo.StockSummary(context.Background(), reports.StockFilter{})
	require.NoError(t, err)

	assert.Equal(t, exec.calls[0].sql, exec.calls[1].sql)
	assert.Empty(t, exec.calls[0].args)
}

func TestSalesLines(t *testing.T) {
	exec := &fakeExecutor{}
	repo := newTestRepo(exec)

	_, err := repo.SalesLines(context.Background(), reports.SalesQuery{Since: since, Branch: "01"})
	require.NoError(t, err)

	c := exec.last()
	assert.Contains(t, c.sql, "JOIN SC5010 SC5 ON SC5.C5_FILIAL = SC6.C6_FILIAL AND SC5.C5_NUM = SC6.C6_NUM")
	assert.Contains(t, c.sql, "SC6.C6_QTDVEN > $1")
	assert.Contains(t, c.sql, "SC5.C5_EMISSAO >= $2")
	assert.Contains(t, c.sql, "SC5.C5_TIPO = $3")
	assert.Contains(t, c.sql, "COALESCE(TRIM(SC5.C5_NOTA), '') <> ''")
	assert.Contains(t, c.sql, "GROUP BY SC6.C6_PRODUTO, SB1.B1_DESC, SC6.C6_FILIAL, SC6.C6_LOCAL")
	assert.Equal(t, []any{0, "20260120", "N", "01%"}, c.args)
	assertLive(t, c.sql, "SC6", "SC5", "SB1")
}

func TestOutboundMovements(t *testing.T) {
	exec := &fakeExecutor{}
	repo := newTestRepo(exec)

	_, err := repo.OutboundMovements(context.Background(), reports.SalesQuery{Since: since, Warehouse: "01"})
	require.NoError(t, err)

	c := exec.last()
	assert.Contains(t, c.sql, "SUM(SD3.D3_CUSTO1 * SD3.D3_QUANT) AS value")
	assert.Contains(t, c.sql, "SD3.D3_TM IN ($2,$3,$4,$5)")
	assert.Equal(t, []any{"20260120", "501", "502", "503", "999", 0, "01%"}, c.args)
	assertLive(t, c.sql, "SD3", "SB1")
}

func TestMovements_RowWindow(t *testing.T) {
	exec := &fakeExecutor{}
	repo := newTestRepo(exec)

	_, err := repo.Movements(context.Background(),
		reports.MovementQuery{Since: since, Code: "P01 "},
		paging.Request{Page: 3, Size: 50},
	)
	require.NoError(t, err)

	c := exec.last()
	assert.True(t, strings.HasPrefix(c.sql, "SELECT code, movement_type, movement_date, quantity, fiscal_code, document, location, filial FROM (SELECT "))
	assert.Contains(t, c.sql, "ROW_NUMBER() OVER (ORDER BY SD3.D3_EMISSAO DESC")
	assert.Contains(t, c.sql, ") AS numbered WHERE (rn > $3 AND rn <= $4) ORDER BY rn")
	assert.Equal(t, []any{"20260120", "P01%", 100, 150}, c.args)
	assertLive(t, c.sql, "SD3")
}

func TestDeliveries_PageAndCount(t *testing.T) {
	exec := &fakeExecutor{selectRows: []map[string]any{{"total": int64(51)}}}
	repo := newTestRepo(exec)
	q := reports.DeliveryQuery{Since: since, Branch: "01", Location: ""}

	n, err := repo.CountDeliveries(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 51, n)
	count := exec.last()

	_, err = repo.Deliveries(context.Background(), q, paging.Request{Page: 1, Size: 50})
	require.NoError(t, err)
	page := exec.last()

	assert.True(t, strings.HasPrefix(count.sql, "SELECT COUNT(*) AS total FROM SC9010 SC9 LEFT JOIN SB1010 SB1"))
	assert.Equal(t, []any{0, "20260120", "01%"}, count.args)
	assert.Equal(t, []any{0, "20260120", "01%", 0, 50}, page.args)
	assert.Contains(t, page.sql, "TRIM(SC9.C9_BLCRED) AS bloqueio_credito")
	assertLive(t, count.sql, "SC9", "SB1")
	assertLive(t, page.sql, "SC9", "SB1")
}

func TestOpenReleases(t *testing.T) {
	exec := &fakeExecutor{}
	repo := newTestRepo(exec)

	_, err := repo.OpenReleases(context.Background(), reports.DeliveryQuery{Location: "01"})
	require.NoError(t, err)

	c := exec.last()
	assert.NotContains(t, c.sql, "C9_DATALIB >=", "pending releases have no date window")
	assert.Contains(t, c.sql, "COALESCE(TRIM(SC9.C9_NFISCAL), '') = ''")
	assert.Contains(t, c.sql, "COALESCE(TRIM(SC9.C9_BLEST), '') = ''")
	assert.Contains(t, c.sql, "COALESCE(TRIM(SC9.C9_BLCRED), '') = ''")
	assert.Equal(t, []any{0, "01%"}, c.args)
	assertLive(t, c.sql, "SC9", "SB1")
}

func TestLocations(t *testing.T) {
	exec := &fakeExecutor{selectRows: []map[string]any{
		{"location": "01", "movement_count": int64(10)},
		{"location": "02", "movement_count": int64(1)},
	}}
	repo := newTestRepo(exec)

	got, err := repo.Locations(context.Background(), reports.LocationQuery{Since: since})
	require.NoError(t, err)
	assert.Equal(t, []reports.Location{{Location: "01", MovementCount: 10}, {Location: "02", MovementCount: 1}}, got)

	c := exec.last()
	assert.Contains(t, c.sql, "COALESCE(TRIM(SD3.D3_LOCAL), '') <> ''")
	assert.Contains(t, c.sql, "GROUP BY TRIM(SD3.D3_LOCAL)")
	assertLive(t, c.sql, "SD3")
}

func TestLocations_EmptyIsNotNil(t *testing.T) {
	repo := newTestRepo(&fakeExecutor{})
	got, err := repo.Locations(context.Background(), reports.LocationQuery{})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestBranches(t *testing.T) {
	exec := &fakeExecutor{selectRows: []map[string]any{{"filial": "01"}, {"filial": "02"}}}
	repo := newTestRepo(exec)

	got, err := repo.Branches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "02"}, got)
	assertLive(t, exec.last().sql, "SB1")
}

func TestProducts(t *testing.T) {
	exec := &fakeExecutor{selectRows: []map[string]any{{"code": "A", "filial": "01"}}}
	repo := newTestRepo(exec)
	has := true

	got, err := repo.Products(context.Background(),
		reports.ProductFilter{Type: "PA", HasMovement: &has},
		paging.Request{Page: 2, Size: 25},
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Code)

	c := exec.last()
	assert.True(t, strings.HasPrefix(c.sql, "SELECT TRIM(SB1.B1_FILIAL) AS filial, TRIM(SB1.B1_COD) AS code"))
	assert.Contains(t, c.sql, "AND EXISTS (SELECT 1 FROM SD3010 SD3")
	assert.True(t, strings.HasSuffix(c.sql, "LIMIT 25 OFFSET 25"))
	assert.Equal(t, []any{"PA%"}, c.args)
	assertLive(t, c.sql, "SB1", "SD3")

	has = false
	_, err = repo.CountProducts(context.Background(), reports.ProductFilter{HasMovement: &has})
	require.NoError(t, err)
	assert.Contains(t, exec.last().sql, "NOT EXISTS")
}

func TestExecutorErrorPropagates(t *testing.T) {
	cause := apperror.NewDataSource("protheus", errors.New("boom"))
	repo := newTestRepo(&fakeExecutor{err: cause})

	_, err := repo.StockSummary(context.Background(), reports.StockFilter{})
	assert.True(t, apperror.IsDataSource(err))

	_, err = repo.CountProducts(context.Background(), reports.ProductFilter{})
	assert.True(t, apperror.IsDataSource(err))
}
