package reports

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AggregateSales groups sales and outbound movement rows by
// (code, branch, location), summing quantity and value. The result does not
// depend on input order; it is sorted by code, branch, location.
func AggregateSales(rows []SalesRecord) []SalesRecord {
	groups := make(map[StockKey]*SalesRecord, len(rows))
	for _, r := range rows {
		key := r.Key()
		g, ok := groups[key]
		if !ok {
			g = &SalesRecord{
				Code:     r.Code,
				Branch:   r.Branch,
				Location: r.Location,
				Quantity: decimal.Zero,
				Value:    decimal.Zero,
			}
			groups[key] = g
		}
		g.Quantity = g.Quantity.Add(r.Quantity)
		g.Value = g.Value.Add(r.Value)
		// smallest non-empty description, so ties resolve the same way every time
		if r.Description != "" && (g.Description == "" || r.Description < g.Description) {
			g.Description = r.Description
		}
	}

	out := make([]SalesRecord, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessKey(out[i].Key(), out[j].Key())
	})
	return out
}

func lessKey(a, b StockKey) bool {
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	if a.Branch != b.Branch {
		return a.Branch < b.Branch
	}
	return a.Location < b.Location
}

// SummarizeStatuses counts releases and sums their value per status,
// ordered by value descending, then status name.
func SummarizeStatuses(deliveries []Delivery) []StatusSummary {
	groups := make(map[DeliveryStatus]*StatusSummary)
	for _, d := range deliveries {
		g, ok := groups[d.Status]
		if !ok {
			g = &StatusSummary{Status: d.Status, Value: decimal.Zero}
			groups[d.Status] = g
		}
		g.Count++
		g.Value = g.Value.Add(d.TotalValue)
	}

	out := make([]StatusSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		return out[i].Status < out[j].Status
	})
	return out
}

type pendingKey struct {
	branch, order, product, location string
}

// GroupPending groups open releases (released or pending, never invoiced or
// blocked) by (branch, order, product, location). Groups are ordered by
// earliest release date, undated groups last.
func GroupPending(deliveries []Delivery) []PendingDelivery {
	groups := make(map[pendingKey]*PendingDelivery)
	for _, d := range deliveries {
		if !d.Status.Open() {
			continue
		}
		key := pendingKey{d.Branch, d.Order, d.Product, d.Location}
		g, ok := groups[key]
		if !ok {
			g = &PendingDelivery{
				Branch:   d.Branch,
				Order:    d.Order,
				Product:  d.Product,
				Location: d.Location,
				Quantity: decimal.Zero,
				Value:    decimal.Zero,
			}
			groups[key] = g
		}
		g.Items++
		g.Quantity = g.Quantity.Add(d.ReleasedQty)
		g.Value = g.Value.Add(d.TotalValue)
		if g.Description == "" {
			g.Description = d.Description
		}
		if d.ReleaseDate != nil {
			if g.FirstRelease == nil || d.ReleaseDate.Before(*g.FirstRelease) {
				t := *d.ReleaseDate
				g.FirstRelease = &t
			}
			if g.LastRelease == nil || d.ReleaseDate.After(*g.LastRelease) {
				t := *d.ReleaseDate
				g.LastRelease = &t
			}
		}
	}

	out := make([]PendingDelivery, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.FirstRelease == nil && b.FirstRelease != nil:
			return false
		case a.FirstRelease != nil && b.FirstRelease == nil:
			return true
		case a.FirstRelease != nil && !a.FirstRelease.Equal(*b.FirstRelease):
			return a.FirstRelease.Before(*b.FirstRelease)
		}
		if a.Branch != b.Branch {
			return a.Branch < b.Branch
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		return a.Location < b.Location
	})
	return out
}
