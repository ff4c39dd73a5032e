package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"estoque/internal/core/paging"
	"estoque/internal/domain/filter"
	"estoque/internal/domain/reports"
	"estoque/internal/infrastructure/storage/postgres"
)

// productExprs maps reports.Product columns to their SB1 expressions.
var productExprs = map[string]string{
	"filial":        "TRIM(SB1.B1_FILIAL)",
	"code":          "TRIM(SB1.B1_COD)",
	"description":   "TRIM(SB1.B1_DESC)",
	"type":          "TRIM(SB1.B1_TIPO)",
	"unit":          "TRIM(SB1.B1_UM)",
	"product_group": "TRIM(SB1.B1_GRUPO)",
}

// Locations lists non-blank movement locations with their movement count.
func (r *ReportRepo) Locations(ctx context.Context, lq reports.LocationQuery) ([]reports.Location, error) {
	q := r.builder.
		Select("TRIM(SD3.D3_LOCAL) AS location", "COUNT(*) AS movement_count").
		From(r.tables.Movement + " SD3").
		Where(filter.Live("SD3"))

	q, err := filter.Apply(q,
		filter.NotBlank("SD3.D3_LOCAL"),
		filter.Since("SD3.D3_EMISSAO", lq.Since),
		filter.Text("SD3.D3_FILIAL", lq.Branch),
	)
	if err != nil {
		return nil, err
	}

	var out []reports.Location
	if err := r.selectInto(ctx, &out, q.GroupBy("TRIM(SD3.D3_LOCAL)").OrderBy("location")); err != nil {
		return nil, err
	}
	if out == nil {
		out = []reports.Location{}
	}
	return out, nil
}

// Branches lists the distinct non-blank branches of live products.
func (r *ReportRepo) Branches(ctx context.Context) ([]string, error) {
	q := r.builder.
		Select("DISTINCT TRIM(SB1.B1_FILIAL) AS filial").
		From(r.tables.Product + " SB1").
		Where(filter.Live("SB1"))

	q, err := filter.Apply(q, filter.NotBlank("SB1.B1_FILIAL"))
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Branch string `db:"filial"`
	}
	if err := r.selectInto(ctx, &rows, q.OrderBy("filial")); err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Branch
	}
	return out, nil
}

// products builds the shared FROM/WHERE of the product listing.
func (r *ReportRepo) products(columns []string, f reports.ProductFilter) (squirrel.SelectBuilder, error) {
	q := r.builder.
		Select(columns...).
		From(r.tables.Product + " SB1").
		Where(filter.Live("SB1"))

	if f.HasMovement != nil {
		exists := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s SD3 WHERE SD3.D3_FILIAL = SB1.B1_FILIAL AND SD3.D3_COD = SB1.B1_COD AND %s)",
			r.tables.Movement, filter.LiveJoin("SD3"),
		)
		if !*f.HasMovement {
			exists = "NOT " + exists
		}
		q = q.Where(exists)
	}

	return filter.Apply(q,
		filter.Text("SB1.B1_COD", f.Code),
		filter.Text("SB1.B1_FILIAL", f.Branch),
		filter.Text("SB1.B1_TIPO", f.Type),
	)
}

// Products returns one page of products ordered by branch and code.
func (r *ReportRepo) Products(ctx context.Context, f reports.ProductFilter, page paging.Request) ([]reports.Product, error) {
	columns, err := postgres.SelectColumns[reports.Product](productExprs)
	if err != nil {
		return nil, err
	}
	q, err := r.products(columns, f)
	if err != nil {
		return nil, err
	}
	q = q.OrderBy("SB1.B1_FILIAL", "SB1.B1_COD").
		Limit(uint64(page.Limit())).
		Offset(uint64(page.Offset()))

	var out []reports.Product
	if err := r.selectInto(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// CountProducts counts the products Products pages over.
func (r *ReportRepo) CountProducts(ctx context.Context, f reports.ProductFilter) (int, error) {
	q, err := r.products([]string{"COUNT(*) AS total"}, f)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, q)
}
