package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCoverage(t *testing.T) {
	stock := []StockRecord{
		{Code: "A", Description: "ALPHA", Branch: "01", Location: "01", Balance: dec("2")},
		{Code: "B", Description: "BRAVO", Branch: "01", Location: "01", Balance: dec("10")},
		{Code: "C", Description: "CHARLIE", Branch: "01", Location: "01", Balance: dec("5")},
		{Code: "D", Description: "DELTA", Branch: "01", Location: "01", Balance: dec("0")},
		{Code: "E", Description: "ECHO", Branch: "01", Location: "01", Balance: dec("30")},
	}
	sales := []SalesRecord{
		// 12 in 4 months -> 3/month
		{Code: "A", Branch: "01", Location: "01", Quantity: dec("8"), Value: dec("60")},
		{Code: "A", Branch: "01", Location: "01", Quantity: dec("4"), Value: dec("20")},
		// 20 in 4 months -> 5/month, coverage 2
		{Code: "B", Branch: "01", Location: "01", Quantity: dec("20"), Value: dec("100")},
		// 4 in 4 months -> 1/month, coverage 30
		{Code: "E", Branch: "01", Location: "01", Quantity: dec("4"), Value: dec("20")},
		// sold but no stock row
		{Code: "F", Description: "FOXTROT", Branch: "01", Location: "02", Quantity: dec("6"), Value: dec("0")},
	}

	got := BuildCoverage(stock, sales, 4, decimal.NewFromInt(2))
	require.Len(t, got, 6)

	byCode := make(map[string]CoverageRecord, len(got))
	for _, r := range got {
		byCode[r.Code] = r
	}

	a := byCode["A"]
	assert.True(t, a.MonthlyAvg.Equal(dec("3")))
	require.NotNil(t, a.Coverage)
	assert.Equal(t, "0.67", a.Coverage.Round(2).String())
	assert.Equal(t, CoverageCritical, a.Status)
	assert.Equal(t, PriorityHigh, a.Priority)
	assert.True(t, a.IdealStock.Equal(dec("6")))
	assert.True(t, a.Replenishment.Equal(dec("4")))
	assert.True(t, a.Share.Equal(dec("40")), "share %s", a.Share)

	b := byCode["B"]
	assert.Equal(t, CoverageAdequate, b.Status)
	assert.Equal(t, PriorityLow, b.Priority)
	assert.True(t, b.Replenishment.Equal(dec("0")))

	c := byCode["C"]
	assert.Equal(t, CoverageNoSales, c.Status)
	assert.Nil(t, c.Coverage, "stock without sales has unbounded coverage")

	d := byCode["D"]
	assert.Equal(t, CoverageNoSales, d.Status)
	require.NotNil(t, d.Coverage)
	assert.True(t, d.Coverage.IsZero())

	e := byCode["E"]
	assert.Equal(t, CoverageExcess, e.Status)

	f := byCode["F"]
	assert.Equal(t, "FOXTROT", f.Description)
	assert.True(t, f.Balance.IsZero())
	assert.Equal(t, CoverageCritical, f.Status)
	assert.True(t, f.Replenishment.Equal(dec("3")))

	// ordered by code
	assert.Equal(t, "A", got[0].Code)
	assert.Equal(t, "F", got[5].Code)
}

func TestBuildCoverage_LowBand(t *testing.T) {
	stock := []StockRecord{{Code: "A", Branch: "01", Location: "01", Balance: dec("3")}}
	sales := []SalesRecord{{Code: "A", Branch: "01", Location: "01", Quantity: dec("8"), Value: dec("1")}}

	got := BuildCoverage(stock, sales, 4, decimal.Zero)
	require.Len(t, got, 1)
	assert.Equal(t, CoverageLow, got[0].Status)
	assert.Equal(t, PriorityMedium, got[0].Priority)
	// default ideal coverage of 2 months
	assert.True(t, got[0].IdealStock.Equal(dec("4")))
}
