package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"estoque/internal/core/types"
)

var (
	coverageCritical = decimal.NewFromInt(1)
	coverageLow      = decimal.NewFromInt(2)
	coverageExcess   = decimal.NewFromInt(3)
)

// BuildCoverage joins stock balances with the sales of the last months.
//
// For products with sales: monthly average = quantity / months, coverage =
// balance / monthly average (zero when the average is zero), ideal stock =
// ceil(average * ideal), replenishment = max(0, ideal - balance). Products
// with stock but no sales get SEM_VENDAS and a nil coverage when they still
// hold a balance. Sales without a stock row count as zero balance.
func BuildCoverage(stock []StockRecord, sales []SalesRecord, months int, ideal decimal.Decimal) []CoverageRecord {
	if months < 1 {
		months = DefaultSalesMonths
	}
	if !ideal.IsPositive() {
		ideal = decimal.NewFromInt(DefaultIdealCoverage)
	}
	period := decimal.NewFromInt(int64(months))

	aggregated := AggregateSales(sales)
	byKey := make(map[StockKey]SalesRecord, len(aggregated))
	total := decimal.Zero
	for _, s := range aggregated {
		byKey[s.Key()] = s
		total = total.Add(s.Value)
	}

	out := make([]CoverageRecord, 0, len(stock)+len(aggregated))
	seen := make(map[StockKey]bool, len(stock))

	for _, st := range stock {
		key := StockKey{Code: st.Code, Branch: st.Branch, Location: st.Location}
		if seen[key] {
			continue
		}
		seen[key] = true

		rec := CoverageRecord{
			Code:        st.Code,
			Description: st.Description,
			Branch:      st.Branch,
			Location:    st.Location,
			Balance:     st.Balance,
		}
		if s, ok := byKey[key]; ok {
			withSales(&rec, s, period, ideal, total)
		} else {
			withoutSales(&rec)
		}
		out = append(out, rec)
	}

	for _, s := range aggregated {
		if seen[s.Key()] {
			continue
		}
		rec := CoverageRecord{
			Code:        s.Code,
			Description: s.Description,
			Branch:      s.Branch,
			Location:    s.Location,
			Balance:     decimal.Zero,
		}
		withSales(&rec, s, period, ideal, total)
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return lessKey(
			StockKey{out[i].Code, out[i].Branch, out[i].Location},
			StockKey{out[j].Code, out[j].Branch, out[j].Location},
		)
	})
	return out
}

func withSales(rec *CoverageRecord, s SalesRecord, period, ideal, total decimal.Decimal) {
	if rec.Description == "" {
		rec.Description = s.Description
	}
	rec.SoldQuantity = s.Quantity
	rec.SoldValue = s.Value
	rec.MonthlyAvg = s.Quantity.Div(period)
	rec.Share = types.Share(s.Value, total)

	coverage := decimal.Zero
	if rec.MonthlyAvg.IsPositive() {
		coverage = rec.Balance.Div(rec.MonthlyAvg)
	}
	rec.Coverage = &coverage

	rec.IdealStock = rec.MonthlyAvg.Mul(ideal).Ceil()
	rec.Replenishment = decimal.Max(decimal.Zero, rec.IdealStock.Sub(rec.Balance))

	switch {
	case coverage.LessThan(coverageCritical):
		rec.Status = CoverageCritical
	case coverage.LessThan(coverageLow):
		rec.Status = CoverageLow
	case coverage.GreaterThan(coverageExcess):
		rec.Status = CoverageExcess
	default:
		rec.Status = CoverageAdequate
	}
	rec.Priority = priorityOf(rec.Status)
}

func withoutSales(rec *CoverageRecord) {
	rec.SoldQuantity = decimal.Zero
	rec.SoldValue = decimal.Zero
	rec.MonthlyAvg = decimal.Zero
	rec.Share = decimal.Zero
	rec.IdealStock = decimal.Zero
	rec.Replenishment = decimal.Zero
	if !rec.Balance.IsPositive() {
		zero := decimal.Zero
		rec.Coverage = &zero
	}
	rec.Status = CoverageNoSales
	rec.Priority = PriorityLow
}

func priorityOf(s CoverageStatus) Priority {
	switch s {
	case CoverageCritical:
		return PriorityHigh
	case CoverageLow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
