// Package report_repo provides the SQL behind each dashboard report.
// All queries are read-only, parameterized, and exclude soft-deleted rows of
// every table they touch.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"estoque/internal/core/paging"
	"estoque/internal/core/rowset"
	"estoque/internal/domain/filter"
	"estoque/internal/domain/reports"
)

// Compile-time check that ReportRepo implements reports.Repository.
var _ reports.Repository = (*ReportRepo)(nil)

// Executor runs queries against a named data source.
type Executor interface {
	Query(ctx context.Context, source, sql string, args ...any) (*rowset.ResultSet, error)
	Select(ctx context.Context, source string, dst any, sql string, args ...any) error
}

// Tables holds the physical ERP table names. The company suffix ("010")
// is part of the name.
type Tables struct {
	Product     string
	Balance     string
	Movement    string
	OrderHeader string
	OrderLine   string
	Release     string
}

// TablesFor returns the table names for a company suffix.
func TablesFor(suffix string) Tables {
	return Tables{
		Product:     "SB1" + suffix,
		Balance:     "SB2" + suffix,
		Movement:    "SD3" + suffix,
		OrderHeader: "SC5" + suffix,
		OrderLine:   "SC6" + suffix,
		Release:     "SC9" + suffix,
	}
}

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	exec    Executor
	source  string
	tables  Tables
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository reading from source.
func NewReportRepo(exec Executor, source string, tables Tables) *ReportRepo {
	return &ReportRepo{
		exec:    exec,
		source:  source,
		tables:  tables,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) query(ctx context.Context, q squirrel.Sqlizer) (*rowset.ResultSet, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.exec.Query(ctx, r.source, sql, args...)
}

func (r *ReportRepo) selectInto(ctx context.Context, dst any, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.exec.Select(ctx, r.source, dst, sql, args...)
}

func (r *ReportRepo) count(ctx context.Context, q squirrel.SelectBuilder) (int, error) {
	var rows []struct {
		Total int64 `db:"total"`
	}
	if err := r.selectInto(ctx, &rows, q); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Total), nil
}

// --- Stock ---

// StockSummary lists every sellable product with its balance per location.
// Products without a balance row come back with zero and the default location,
// unless a warehouse is given: that filter needs a balance row.
func (r *ReportRepo) StockSummary(ctx context.Context, f reports.StockFilter) (*rowset.ResultSet, error) {
	t := r.tables
	q := r.builder.
		Select(
			"TRIM(SB1.B1_COD) AS code",
			"TRIM(SB1.B1_DESC) AS description",
			"COALESCE(SB2.B2_QATU, 0) AS balance",
			"COALESCE(SB2.B2_RESERVA, 0) AS reserved",
			"COALESCE(SB2.B2_QPEDVEN, 0) AS on_order",
			"TRIM(SB1.B1_FILIAL) AS filial",
			fmt.Sprintf("COALESCE(SB2.B2_LOCAL, '%s') AS location", reports.DefaultLocation),
		).
		From(t.Product + " SB1").
		LeftJoin(fmt.Sprintf(
			"%s SB2 ON SB2.B2_FILIAL = SB1.B1_FILIAL AND SB2.B2_COD = SB1.B1_COD AND %s",
			t.Balance, filter.LiveJoin("SB2"),
		)).
		Where(filter.Live("SB1")).
		Where("COALESCE(SB1.B1_MSBLQL, ' ') <> '1'")

	q, err := filter.Apply(q,
		filter.Text("SB1.B1_FILIAL", f.Branch),
		filter.Text("SB2.B2_LOCAL", f.Warehouse),
		filter.Text("SB1.B1_COD", f.Code),
	)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, q.OrderBy("SB1.B1_FILIAL", "SB1.B1_COD", "location"))
}

// --- Sales ---

// SalesLines sums confirmed, invoiced, normal order lines per product,
// branch and location.
func (r *ReportRepo) SalesLines(ctx context.Context, sq reports.SalesQuery) (*rowset.ResultSet, error) {
	t := r.tables
	q := r.builder.
		Select(
			"TRIM(SC6.C6_PRODUTO) AS code",
			"TRIM(SB1.B1_DESC) AS description",
			"SUM(SC6.C6_QTDVEN) AS quantity",
			"SUM(SC6.C6_VALOR) AS value",
			"TRIM(SC6.C6_FILIAL) AS filial",
			"TRIM(SC6.C6_LOCAL) AS location",
		).
		From(t.OrderLine + " SC6").
		Join(fmt.Sprintf(
			"%s SC5 ON SC5.C5_FILIAL = SC6.C6_FILIAL AND SC5.C5_NUM = SC6.C6_NUM AND %s",
			t.OrderHeader, filter.LiveJoin("SC5"),
		)).
		Join(fmt.Sprintf(
			"%s SB1 ON SB1.B1_FILIAL = SC6.C6_FILIAL AND SB1.B1_COD = SC6.C6_PRODUTO AND %s",
			t.Product, filter.LiveJoin("SB1"),
		)).
		Where(filter.Live("SC6"))

	q, err := filter.Apply(q,
		filter.Positive("SC6.C6_QTDVEN"),
		filter.Since("SC5.C5_EMISSAO", sq.Since),
		filter.Eq("SC5.C5_TIPO", "N"),
		filter.NotBlank("SC5.C5_NOTA"),
		filter.Text("SC6.C6_FILIAL", sq.Branch),
		filter.Text("SC6.C6_LOCAL", sq.Warehouse),
	)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, q.GroupBy("SC6.C6_PRODUTO", "SB1.B1_DESC", "SC6.C6_FILIAL", "SC6.C6_LOCAL"))
}

// OutboundMovements sums outbound movements per product, branch and
// location. Value is unit cost times quantity.
func (r *ReportRepo) OutboundMovements(ctx context.Context, sq reports.SalesQuery) (*rowset.ResultSet, error) {
	t := r.tables
	q := r.builder.
		Select(
			"TRIM(SD3.D3_COD) AS code",
			"TRIM(SB1.B1_DESC) AS description",
			"SUM(SD3.D3_QUANT) AS quantity",
			"SUM(SD3.D3_CUSTO1 * SD3.D3_QUANT) AS value",
			"TRIM(SD3.D3_FILIAL) AS filial",
			"TRIM(SD3.D3_LOCAL) AS location",
		).
		From(t.Movement + " SD3").
		Join(fmt.Sprintf(
			"%s SB1 ON SB1.B1_FILIAL = SD3.D3_FILIAL AND SB1.B1_COD = SD3.D3_COD AND %s",
			t.Product, filter.LiveJoin("SB1"),
		)).
		Where(filter.Live("SD3"))

	q, err := filter.Apply(q,
		filter.Since("SD3.D3_EMISSAO", sq.Since),
		filter.OneOf("SD3.D3_TM", reports.OutboundMovementTypes...),
		filter.Positive("SD3.D3_QUANT"),
		filter.Text("SD3.D3_FILIAL", sq.Branch),
		filter.Text("SD3.D3_LOCAL", sq.Warehouse),
	)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, q.GroupBy("SD3.D3_COD", "SB1.B1_DESC", "SD3.D3_FILIAL", "SD3.D3_LOCAL"))
}

// --- Movements ---

// Movements returns one page of movements, newest first, numbered in the
// store so only the page is transferred.
func (r *ReportRepo) Movements(ctx context.Context, mq reports.MovementQuery, page paging.Request) (*rowset.ResultSet, error) {
	inner := r.builder.
		Select(
			"TRIM(SD3.D3_COD) AS code",
			"TRIM(SD3.D3_TM) AS movement_type",
			"SD3.D3_EMISSAO AS movement_date",
			"SD3.D3_QUANT AS quantity",
			"TRIM(SD3.D3_CF) AS fiscal_code",
			"TRIM(SD3.D3_DOC) AS document",
			"TRIM(SD3.D3_LOCAL) AS location",
			"TRIM(SD3.D3_FILIAL) AS filial",
			"ROW_NUMBER() OVER (ORDER BY SD3.D3_EMISSAO DESC, SD3.D3_DOC, SD3.D3_COD, SD3.D3_LOCAL) AS rn",
		).
		From(r.tables.Movement + " SD3").
		Where(filter.Live("SD3"))

	inner, err := filter.Apply(inner,
		filter.Since("SD3.D3_EMISSAO", mq.Since),
		filter.Text("SD3.D3_FILIAL", mq.Branch),
		filter.Text("SD3.D3_LOCAL", mq.Warehouse),
		filter.Text("SD3.D3_COD", mq.Code),
		filter.Text("SD3.D3_DOC", mq.Document),
		filter.Text("SD3.D3_TM", mq.MovementType),
	)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, numbered(r.builder, inner,
		"code", "movement_type", "movement_date", "quantity", "fiscal_code", "document", "location", "filial",
	).Where(rowWindow(page)).OrderBy("rn"))
}

// numbered wraps a query selecting an rn column so the outer query can
// filter on it.
func numbered(b squirrel.StatementBuilderType, inner squirrel.SelectBuilder, columns ...string) squirrel.SelectBuilder {
	return b.Select(columns...).FromSelect(inner, "numbered")
}

func rowWindow(page paging.Request) squirrel.Sqlizer {
	from, to := page.RowRange()
	return squirrel.And{
		squirrel.Gt{"rn": from},
		squirrel.LtOrEq{"rn": to},
	}
}

// --- Releases ---

// releaseColumns selects every release field plus the product description.
var releaseColumns = []string{
	"TRIM(SC9.C9_FILIAL) AS filial",
	"TRIM(SC9.C9_PEDIDO) AS pedido",
	"TRIM(SC9.C9_ITEM) AS item",
	"TRIM(SC9.C9_SEQUEN) AS sequencia",
	"TRIM(SC9.C9_PRODUTO) AS produto",
	"TRIM(SB1.B1_DESC) AS descricao",
	"SC9.C9_QTDLIB AS quantidade_liberada",
	"SC9.C9_PRCVEN AS preco_venda",
	"SC9.C9_DATALIB AS data_liberacao",
	"TRIM(SC9.C9_LOCAL) AS location",
	"TRIM(SC9.C9_LOTECTL) AS lote",
	"SC9.C9_DTVALID AS data_validade",
	"TRIM(SC9.C9_ORDSEP) AS ordem_separacao",
	"TRIM(SC9.C9_NFISCAL) AS nota_fiscal",
	"TRIM(SC9.C9_SERIENF) AS serie_nf",
	"TRIM(SC9.C9_BLEST) AS bloqueio_estoque",
	"TRIM(SC9.C9_BLCRED) AS bloqueio_credito",
	"TRIM(SC9.C9_LIBOK) AS liberacao_ok",
}

var releaseOutputColumns = []string{
	"filial", "pedido", "item", "sequencia", "produto", "descricao",
	"quantidade_liberada", "preco_venda", "data_liberacao", "location",
	"lote", "data_validade", "ordem_separacao", "nota_fiscal", "serie_nf",
	"bloqueio_estoque", "bloqueio_credito", "liberacao_ok",
}

// releases builds the shared FROM/WHERE of every release query: live
// releases with a positive quantity, joined to the product for its
// description.
func (r *ReportRepo) releases(columns []string, dq reports.DeliveryQuery) (squirrel.SelectBuilder, error) {
	q := r.builder.
		Select(columns...).
		From(r.tables.Release + " SC9").
		LeftJoin(fmt.Sprintf(
			"%s SB1 ON SB1.B1_FILIAL = SC9.C9_FILIAL AND SB1.B1_COD = SC9.C9_PRODUTO AND %s",
			r.tables.Product, filter.LiveJoin("SB1"),
		)).
		Where(filter.Live("SC9"))

	return filter.Apply(q,
		filter.Positive("SC9.C9_QTDLIB"),
		filter.Since("SC9.C9_DATALIB", dq.Since),
		filter.Text("SC9.C9_FILIAL", dq.Branch),
		filter.Text("SC9.C9_LOCAL", dq.Location),
	)
}

// Deliveries returns one page of releases, newest first.
func (r *ReportRepo) Deliveries(ctx context.Context, dq reports.DeliveryQuery, page paging.Request) (*rowset.ResultSet, error) {
	columns := append(append([]string{}, releaseColumns...),
		"ROW_NUMBER() OVER (ORDER BY SC9.C9_DATALIB DESC, SC9.C9_PEDIDO, SC9.C9_ITEM, SC9.C9_SEQUEN) AS rn",
	)
	inner, err := r.releases(columns, dq)
	if err != nil {
		return nil, err
	}

	return r.query(ctx, numbered(r.builder, inner, releaseOutputColumns...).
		Where(rowWindow(page)).
		OrderBy("rn"))
}

// CountDeliveries counts the releases Deliveries pages over.
func (r *ReportRepo) CountDeliveries(ctx context.Context, dq reports.DeliveryQuery) (int, error) {
	q, err := r.releases([]string{"COUNT(*) AS total"}, dq)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, q)
}

// ReleaseFlags returns the releases of the window with the fields needed to
// classify and value them.
func (r *ReportRepo) ReleaseFlags(ctx context.Context, dq reports.DeliveryQuery) (*rowset.ResultSet, error) {
	q, err := r.releases(releaseColumns, dq)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, q)
}

// OpenReleases returns releases with no invoice and no stock or credit block.
func (r *ReportRepo) OpenReleases(ctx context.Context, dq reports.DeliveryQuery) (*rowset.ResultSet, error) {
	q, err := r.releases(releaseColumns, dq)
	if err != nil {
		return nil, err
	}
	q, err = filter.Apply(q,
		filter.Blank("SC9.C9_NFISCAL"),
		filter.Blank("SC9.C9_BLEST"),
		filter.Blank("SC9.C9_BLCRED"),
	)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, q.OrderBy("SC9.C9_DATALIB", "SC9.C9_PEDIDO", "SC9.C9_ITEM"))
}
