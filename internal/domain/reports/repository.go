package reports

import (
	"context"

	"estoque/internal/core/paging"
	"estoque/internal/core/rowset"
)

// Repository defines report data access interface.
// Row-level reports come back as result sets and are shaped by the service;
// simple listings are scanned straight into their records.
type Repository interface {
	// Stock
	StockSummary(ctx context.Context, filter StockFilter) (*rowset.ResultSet, error)

	// Sales: confirmed order lines and outbound movements, each grouped by
	// (code, description, branch, location)
	SalesLines(ctx context.Context, q SalesQuery) (*rowset.ResultSet, error)
	OutboundMovements(ctx context.Context, q SalesQuery) (*rowset.ResultSet, error)

	// Movements, paginated by the store
	Movements(ctx context.Context, q MovementQuery, page paging.Request) (*rowset.ResultSet, error)

	// Releases
	Deliveries(ctx context.Context, q DeliveryQuery, page paging.Request) (*rowset.ResultSet, error)
	CountDeliveries(ctx context.Context, q DeliveryQuery) (int, error)
	ReleaseFlags(ctx context.Context, q DeliveryQuery) (*rowset.ResultSet, error)
	OpenReleases(ctx context.Context, q DeliveryQuery) (*rowset.ResultSet, error)

	// Listings
	Locations(ctx context.Context, q LocationQuery) ([]Location, error)
	Branches(ctx context.Context) ([]string, error)
	Products(ctx context.Context, filter ProductFilter, page paging.Request) ([]Product, error)
	CountProducts(ctx context.Context, filter ProductFilter) (int, error)
}
