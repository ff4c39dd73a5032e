// Package reports builds the dashboard reports: stock, sales, movements,
// deliveries and coverage, consolidated from the ERP tables.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report names, used in logs, spans and shaping errors.
const (
	ReportStock          = "stock"
	ReportSales          = "sales"
	ReportMovements      = "movements"
	ReportDeliveries     = "deliveries"
	ReportDeliveryStatus = "delivery_status"
	ReportPending        = "pending_deliveries"
	ReportLocations      = "locations"
	ReportBranches       = "branches"
	ReportProducts       = "products"
	ReportCoverage       = "coverage"
)

// Defaults and bounds of the report windows.
const (
	DefaultSalesMonths   = 4
	MaxSalesMonths       = 60
	DefaultMovementDays  = 3
	DefaultDeliveryDays  = 30
	DefaultStatusDays    = 7
	MaxWindowDays        = 366
	LocationWindowMonths = 12
	DefaultLocation      = "01"
	DefaultIdealCoverage = 2
	MaxIdealCoverage     = 24
)

// OutboundMovementTypes are the movement codes counted as consumption:
// shipments, returns to supplier, internal requisitions and adjustments.
var OutboundMovementTypes = []string{"501", "502", "503", "999"}

// --- Filters ---

// StockFilter narrows the stock summary.
type StockFilter struct {
	Branch    string
	Warehouse string
	Code      string
}

// SalesFilter narrows the sales summary. Months is the trailing window;
// zero means the service default.
type SalesFilter struct {
	Months    int
	Branch    string
	Warehouse string
}

// MovementFilter narrows the movements listing. Days counts today.
type MovementFilter struct {
	Days         int
	Branch       string
	Warehouse    string
	Code         string
	Document     string
	MovementType string
}

// DeliveryFilter narrows the releases reports. Days is ignored by the
// pending report.
type DeliveryFilter struct {
	Days     int
	Branch   string
	Location string
}

// LocationFilter narrows the locations listing.
type LocationFilter struct {
	Branch string
}

// ProductFilter narrows the product listing. HasMovement nil means either.
type ProductFilter struct {
	Code        string
	Branch      string
	Type        string
	HasMovement *bool
}

// CoverageFilter narrows the coverage report.
type CoverageFilter struct {
	Months        int
	IdealCoverage decimal.Decimal
	Branch        string
	Warehouse     string
}

// --- Repository queries (windows already resolved) ---

// SalesQuery selects sales and outbound movements dated on or after Since.
type SalesQuery struct {
	Since     time.Time
	Branch    string
	Warehouse string
}

// MovementQuery selects movements dated on or after Since.
type MovementQuery struct {
	Since        time.Time
	Branch       string
	Warehouse    string
	Code         string
	Document     string
	MovementType string
}

// DeliveryQuery selects releases dated on or after Since; a zero Since
// selects every date.
type DeliveryQuery struct {
	Since    time.Time
	Branch   string
	Location string
}

// LocationQuery selects locations with movements on or after Since.
type LocationQuery struct {
	Since  time.Time
	Branch string
}

// --- Records ---

// StockRecord is one product balance in one location.
type StockRecord struct {
	Code        string
	Description string
	Balance     decimal.Decimal
	Reserved    decimal.Decimal
	OnOrder     decimal.Decimal
	Branch      string
	Location    string
}

// SalesRecord is the consumption of one product in one branch and location,
// summed over sales orders and outbound movements.
type SalesRecord struct {
	Code        string
	Description string
	Branch      string
	Location    string
	Quantity    decimal.Decimal
	Value       decimal.Decimal
}

// Key returns the aggregation key.
func (r SalesRecord) Key() StockKey {
	return StockKey{Code: r.Code, Branch: r.Branch, Location: r.Location}
}

// StockKey identifies a product in a branch and location.
type StockKey struct {
	Code     string
	Branch   string
	Location string
}

// Movement is one stock movement.
type Movement struct {
	Code         string
	MovementType string
	Date         *time.Time
	Quantity     decimal.Decimal
	FiscalCode   string
	Document     string
	Location     string
	Branch       string
}

// Delivery is one order release.
type Delivery struct {
	Branch          string
	Order           string
	Item            string
	Sequence        string
	Product         string
	Description     string
	ReleasedQty     decimal.Decimal
	UnitPrice       decimal.Decimal
	TotalValue      decimal.Decimal
	ReleaseDate     *time.Time
	Location        string
	Lot             string
	ExpiryDate      *time.Time
	SeparationOrder string
	Invoice         string
	InvoiceSeries   string
	StockBlock      string
	CreditBlock     string
	ReleaseOK       string
	Status          DeliveryStatus
}

// StatusSummary totals the releases of one status.
type StatusSummary struct {
	Status DeliveryStatus
	Count  int
	Value  decimal.Decimal
}

// PendingDelivery groups the open releases of one order line.
type PendingDelivery struct {
	Branch       string
	Order        string
	Product      string
	Description  string
	Location     string
	Quantity     decimal.Decimal
	Value        decimal.Decimal
	FirstRelease *time.Time
	LastRelease  *time.Time
	Items        int
}

// Location is a warehouse code with its recent movement count.
type Location struct {
	Location      string `db:"location"`
	MovementCount int64  `db:"movement_count"`
}

// Product is one live product master row.
type Product struct {
	Branch      string `db:"filial"`
	Code        string `db:"code"`
	Description string `db:"description"`
	Type        string `db:"type"`
	Unit        string `db:"unit"`
	Group       string `db:"product_group"`
}

// CoverageRecord relates a stock balance to its recent consumption.
type CoverageRecord struct {
	Code          string
	Description   string
	Branch        string
	Location      string
	Balance       decimal.Decimal
	SoldQuantity  decimal.Decimal
	SoldValue     decimal.Decimal
	MonthlyAvg    decimal.Decimal
	Share         decimal.Decimal
	Coverage      *decimal.Decimal
	IdealStock    decimal.Decimal
	Replenishment decimal.Decimal
	Status        CoverageStatus
	Priority      Priority
}
