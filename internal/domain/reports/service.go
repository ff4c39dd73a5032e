package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"estoque/internal/core/apperror"
	appctx "estoque/internal/core/context"
	"estoque/internal/core/paging"
	"estoque/internal/domain/filter"
)

// Service provides report generation operations.
// Every call recomputes from the store; nothing is cached between requests.
type Service struct {
	repo        Repository
	now         func() time.Time
	salesMonths int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for window boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultSalesMonths sets the sales window used when a request omits it.
func WithDefaultSalesMonths(n int) Option {
	return func(s *Service) {
		if n >= 1 && n <= MaxSalesMonths {
			s.salesMonths = n
		}
	}
}

// NewService creates a new reports service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, salesMonths: DefaultSalesMonths}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func withReport(ctx context.Context, name string) context.Context {
	return appctx.WithReport(ctx, &appctx.ReportContext{Name: name})
}

// StockSummary returns product balances by branch and location.
func (s *Service) StockSummary(ctx context.Context, f StockFilter, page paging.Request) (paging.Page[StockRecord], error) {
	records, err := s.stockRecords(ctx, f)
	if err != nil {
		return paging.Page[StockRecord]{}, err
	}
	return paging.Slice(records, page), nil
}

func (s *Service) stockRecords(ctx context.Context, f StockFilter) ([]StockRecord, error) {
	ctx = withReport(ctx, ReportStock)

	rs, err := s.repo.StockSummary(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return shape(ctx, ReportStock, stockSchema, rs, parseStock)
}

// SalesSummary returns consumption per product, branch and location over the
// trailing months: confirmed sales plus outbound movements.
func (s *Service) SalesSummary(ctx context.Context, f SalesFilter, page paging.Request) (paging.Page[SalesRecord], error) {
	months, err := s.months(f.Months)
	if err != nil {
		return paging.Page[SalesRecord]{}, err
	}
	rows, err := s.salesRows(ctx, months, f.Branch, f.Warehouse)
	if err != nil {
		return paging.Page[SalesRecord]{}, err
	}
	return paging.Slice(AggregateSales(rows), page), nil
}

func (s *Service) months(n int) (int, error) {
	if n == 0 {
		return s.salesMonths, nil
	}
	if n < 1 || n > MaxSalesMonths {
		return 0, apperror.NewValidation(fmt.Sprintf("meses must be between 1 and %d", MaxSalesMonths)).
			WithDetail("meses", n)
	}
	return n, nil
}

// salesRows runs both sales sources and concatenates their rows.
func (s *Service) salesRows(ctx context.Context, months int, branch, warehouse string) ([]SalesRecord, error) {
	ctx = withReport(ctx, ReportSales)
	q := SalesQuery{
		Since:     filter.MonthsAgo(s.now(), months),
		Branch:    branch,
		Warehouse: warehouse,
	}

	lines, err := s.repo.SalesLines(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sales lines: %w", err)
	}
	outbound, err := s.repo.OutboundMovements(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("outbound movements: %w", err)
	}

	sales, err := shape(ctx, ReportSales, salesSchema, lines, parseSales)
	if err != nil {
		return nil, err
	}
	moves, err := shape(ctx, ReportSales, salesSchema, outbound, parseSales)
	if err != nil {
		return nil, err
	}
	return append(sales, moves...), nil
}

// StockMovements returns one page of recent movements, newest first.
// Pagination happens in the store; only the requested window is read.
func (s *Service) StockMovements(ctx context.Context, f MovementFilter, page paging.Request) ([]Movement, error) {
	ctx = withReport(ctx, ReportMovements)

	days, err := window(f.Days, DefaultMovementDays, "days")
	if err != nil {
		return nil, err
	}
	q := MovementQuery{
		Since:        filter.DaysAgo(s.now(), days-1),
		Branch:       f.Branch,
		Warehouse:    f.Warehouse,
		Code:         f.Code,
		Document:     f.Document,
		MovementType: f.MovementType,
	}

	rs, err := s.repo.Movements(ctx, q, page)
	if err != nil {
		return nil, fmt.Errorf("stock movements: %w", err)
	}
	return shape(ctx, ReportMovements, movementSchema, rs, parseMovement)
}

// window validates a day count, applying def when zero. A window of n days
// covers n calendar days ending today, so it starts at DaysAgo(now, n-1).
func window(days, def int, param string) (int, error) {
	if days == 0 {
		return def, nil
	}
	if days < 1 || days > MaxWindowDays {
		return 0, apperror.NewValidation(fmt.Sprintf("%s must be between 1 and %d", param, MaxWindowDays)).
			WithDetail(param, days)
	}
	return days, nil
}

// Deliveries returns one page of releases with their derived status.
func (s *Service) Deliveries(ctx context.Context, f DeliveryFilter, page paging.Request) (paging.Page[Delivery], error) {
	ctx = withReport(ctx, ReportDeliveries)

	days, err := window(f.Days, DefaultDeliveryDays, "days")
	if err != nil {
		return paging.Page[Delivery]{}, err
	}
	q := DeliveryQuery{
		Since:    filter.DaysAgo(s.now(), days-1),
		Branch:   f.Branch,
		Location: f.Location,
	}

	total, err := s.repo.CountDeliveries(ctx, q)
	if err != nil {
		return paging.Page[Delivery]{}, fmt.Errorf("count deliveries: %w", err)
	}
	rs, err := s.repo.Deliveries(ctx, q, page)
	if err != nil {
		return paging.Page[Delivery]{}, fmt.Errorf("deliveries: %w", err)
	}
	items, err := shape(ctx, ReportDeliveries, deliverySchema, rs, parseDelivery)
	if err != nil {
		return paging.Page[Delivery]{}, err
	}
	return paging.NewPage(items, total, page), nil
}

// DeliveryStatusSummary counts and values the releases of the last days by status.
func (s *Service) DeliveryStatusSummary(ctx context.Context, f DeliveryFilter) ([]StatusSummary, error) {
	ctx = withReport(ctx, ReportDeliveryStatus)

	days, err := window(f.Days, DefaultStatusDays, "days")
	if err != nil {
		return nil, err
	}
	q := DeliveryQuery{
		Since:  filter.DaysAgo(s.now(), days-1),
		Branch: f.Branch,
	}

	rs, err := s.repo.ReleaseFlags(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("release flags: %w", err)
	}
	deliveries, err := shape(ctx, ReportDeliveryStatus, deliverySchema, rs, parseDelivery)
	if err != nil {
		return nil, err
	}
	return SummarizeStatuses(deliveries), nil
}

// PendingDeliveries returns open releases grouped by order line, oldest first.
func (s *Service) PendingDeliveries(ctx context.Context, f DeliveryFilter, page paging.Request) (paging.Page[PendingDelivery], error) {
	ctx = withReport(ctx, ReportPending)

	rs, err := s.repo.OpenReleases(ctx, DeliveryQuery{Branch: f.Branch, Location: f.Location})
	if err != nil {
		return paging.Page[PendingDelivery]{}, fmt.Errorf("open releases: %w", err)
	}
	deliveries, err := shape(ctx, ReportPending, deliverySchema, rs, parseDelivery)
	if err != nil {
		return paging.Page[PendingDelivery]{}, err
	}
	return paging.Slice(GroupPending(deliveries), page), nil
}

// Locations lists warehouse codes that moved stock in the last year.
func (s *Service) Locations(ctx context.Context, f LocationFilter) ([]Location, error) {
	ctx = withReport(ctx, ReportLocations)

	locations, err := s.repo.Locations(ctx, LocationQuery{
		Since:  filter.MonthsAgo(s.now(), LocationWindowMonths),
		Branch: f.Branch,
	})
	if err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}
	return locations, nil
}

// Branches lists the branch codes that have products.
func (s *Service) Branches(ctx context.Context) ([]string, error) {
	ctx = withReport(ctx, ReportBranches)

	branches, err := s.repo.Branches(ctx)
	if err != nil {
		return nil, fmt.Errorf("branches: %w", err)
	}
	return branches, nil
}

// Products returns one page of the product master.
func (s *Service) Products(ctx context.Context, f ProductFilter, page paging.Request) (paging.Page[Product], error) {
	ctx = withReport(ctx, ReportProducts)

	total, err := s.repo.CountProducts(ctx, f)
	if err != nil {
		return paging.Page[Product]{}, fmt.Errorf("count products: %w", err)
	}
	items, err := s.repo.Products(ctx, f, page)
	if err != nil {
		return paging.Page[Product]{}, fmt.Errorf("products: %w", err)
	}
	return paging.NewPage(items, total, page), nil
}

// Coverage relates stock balances to consumption over the trailing months.
func (s *Service) Coverage(ctx context.Context, f CoverageFilter, page paging.Request) (paging.Page[CoverageRecord], error) {
	months, err := s.months(f.Months)
	if err != nil {
		return paging.Page[CoverageRecord]{}, err
	}
	ideal := f.IdealCoverage
	if ideal.IsZero() {
		ideal = decimal.NewFromInt(DefaultIdealCoverage)
	}
	if !ideal.IsPositive() || ideal.GreaterThan(decimal.NewFromInt(MaxIdealCoverage)) {
		return paging.Page[CoverageRecord]{}, apperror.NewValidation(
			fmt.Sprintf("cobertura_ideal must be greater than 0 and at most %d", MaxIdealCoverage),
		).WithDetail("cobertura_ideal", ideal.String())
	}

	stock, err := s.stockRecords(ctx, StockFilter{Branch: f.Branch, Warehouse: f.Warehouse})
	if err != nil {
		return paging.Page[CoverageRecord]{}, err
	}
	sales, err := s.salesRows(ctx, months, f.Branch, f.Warehouse)
	if err != nil {
		return paging.Page[CoverageRecord]{}, err
	}
	return paging.Slice(BuildCoverage(stock, sales, months, ideal), page), nil
}
