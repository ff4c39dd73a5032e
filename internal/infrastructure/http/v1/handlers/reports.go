package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"estoque/internal/core/apperror"
	"estoque/internal/core/paging"
	"estoque/internal/core/types"
	"estoque/internal/domain/reports"
	"estoque/internal/infrastructure/http/v1/dto"
)

// ReportService is the report surface the handlers need.
type ReportService interface {
	StockSummary(ctx context.Context, f reports.StockFilter, page paging.Request) (paging.Page[reports.StockRecord], error)
	SalesSummary(ctx context.Context, f reports.SalesFilter, page paging.Request) (paging.Page[reports.SalesRecord], error)
	StockMovements(ctx context.Context, f reports.MovementFilter, page paging.Request) ([]reports.Movement, error)
	Deliveries(ctx context.Context, f reports.DeliveryFilter, page paging.Request) (paging.Page[reports.Delivery], error)
	DeliveryStatusSummary(ctx context.Context, f reports.DeliveryFilter) ([]reports.StatusSummary, error)
	PendingDeliveries(ctx context.Context, f reports.DeliveryFilter, page paging.Request) (paging.Page[reports.PendingDelivery], error)
	Locations(ctx context.Context, f reports.LocationFilter) ([]reports.Location, error)
	Branches(ctx context.Context) ([]string, error)
	Products(ctx context.Context, f reports.ProductFilter, page paging.Request) (paging.Page[reports.Product], error)
	Coverage(ctx context.Context, f reports.CoverageFilter, page paging.Request) (paging.Page[reports.CoverageRecord], error)
}

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// pageOrFail resolves the page request; on failure the error response is
// already registered.
func (h *ReportsHandler) pageOrFail(c *gin.Context, q dto.PageQuery) (paging.Request, bool) {
	page, err := h.PageRequest(q)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return page, false
	}
	return page, true
}

// GetStocks handles GET /stocks/
func (h *ReportsHandler) GetStocks(c *gin.Context) {
	var req dto.StockRequest
	if !h.BindQuery(c, &req, dto.EmptyEnvelope(1, h.paging.DefaultPageSize)) {
		return
	}
	page, ok := h.pageOrFail(c, req.PageQuery)
	if !ok {
		return
	}

	result, err := h.service.StockSummary(c.Request.Context(), reports.StockFilter{
		Branch:    req.Filial,
		Warehouse: req.Armazem,
		Code:      req.Code,
	}, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewEnvelope(result, h.SelfURL(c), dto.FromStockRecord))
}

// GetMovements handles GET /stocks_moviment/
func (h *ReportsHandler) GetMovements(c *gin.Context) {
	var req dto.MovementRequest
	if !h.BindQuery(c, &req, dto.EmptyMovementList(1, h.paging.DefaultPageSize)) {
		return
	}
	page, err := h.PageRequest(req.PageQuery)
	if err != nil {
		h.Fail(c, err, dto.EmptyMovementList(page.Page, page.Size))
		return
	}
	days, err := h.PositiveInt("days", req.Days)
	if err != nil {
		h.Fail(c, err, dto.EmptyMovementList(page.Page, page.Size))
		return
	}

	items, err := h.service.StockMovements(c.Request.Context(), reports.MovementFilter{
		Days:         days,
		Branch:       req.Filial,
		Warehouse:    req.Armazem,
		Code:         req.Code,
		Document:     req.Document,
		MovementType: req.MovementType,
	}, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyMovementList(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewMovementList(items, page.Page, page.Size))
}

// GetSales handles GET /sales/
func (h *ReportsHandler) GetSales(c *gin.Context) {
	var req dto.SalesRequest
	if !h.BindQuery(c, &req, dto.EmptyEnvelope(1, h.paging.DefaultPageSize)) {
		return
	}
	page, ok := h.pageOrFail(c, req.PageQuery)
	if !ok {
		return
	}
	months, err := h.PositiveInt("meses", req.Meses)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	result, err := h.service.SalesSummary(c.Request.Context(), reports.SalesFilter{
		Months:    months,
		Branch:    req.Filial,
		Warehouse: req.Armazem,
	}, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewEnvelope(result, h.SelfURL(c), dto.FromSalesRecord))
}

// GetLocations handles GET /locations/
func (h *ReportsHandler) GetLocations(c *gin.Context) {
	items, err := h.service.Locations(c.Request.Context(), reports.LocationFilter{
		Branch: c.Query("filial"),
	})
	if err != nil {
		h.Fail(c, err, dto.EmptyLocationList())
		return
	}

	h.OK(c, dto.NewLocationList(items))
}

// GetBranches handles GET /branches/
func (h *ReportsHandler) GetBranches(c *gin.Context) {
	items, err := h.service.Branches(c.Request.Context())
	if err != nil {
		h.Fail(c, err, dto.EmptyBranchList())
		return
	}

	h.OK(c, dto.NewBranchList(items))
}

// GetDeliveries handles GET /deliveries/
func (h *ReportsHandler) GetDeliveries(c *gin.Context) {
	var req dto.DeliveryRequest
	if !h.BindQuery(c, &req, dto.EmptyEnvelope(1, h.paging.DefaultPageSize)) {
		return
	}
	page, ok := h.pageOrFail(c, req.PageQuery)
	if !ok {
		return
	}
	days, err := h.PositiveInt("days", req.Days)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	result, err := h.service.Deliveries(c.Request.Context(), reports.DeliveryFilter{
		Days:     days,
		Branch:   req.Filial,
		Location: req.Local,
	}, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewEnvelope(result, h.SelfURL(c), dto.FromDelivery))
}

// GetDeliveryStatus handles GET /deliveries/status/
func (h *ReportsHandler) GetDeliveryStatus(c *gin.Context) {
	var req dto.DeliveryRequest
	if !h.BindQuery(c, &req, dto.EmptyStatusList()) {
		return
	}
	days, err := h.PositiveInt("days", req.Days)
	if err != nil {
		h.Fail(c, err, dto.EmptyStatusList())
		return
	}

	items, err := h.service.DeliveryStatusSummary(c.Request.Context(), reports.DeliveryFilter{
		Days:   days,
		Branch: req.Filial,
	})
	if err != nil {
		h.Fail(c, err, dto.EmptyStatusList())
		return
	}

	h.OK(c, dto.NewStatusList(items))
}

// GetPendingDeliveries handles GET /deliveries/pending/
func (h *ReportsHandler) GetPendingDeliveries(c *gin.Context) {
	var req dto.DeliveryRequest
	if !h.BindQuery(c, &req, dto.EmptyEnvelope(1, h.paging.DefaultPageSize)) {
		return
	}
	page, ok := h.pageOrFail(c, req.PageQuery)
	if !ok {
		return
	}

	result, err := h.service.PendingDeliveries(c.Request.Context(), reports.DeliveryFilter{
		Branch:   req.Filial,
		Location: req.Local,
	}, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewEnvelope(result, h.SelfURL(c), dto.FromPending))
}

// GetProducts handles GET /products/
func (h *ReportsHandler) GetProducts(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindQuery(c, &req, dto.EmptyEnvelope(1, h.paging.DefaultPageSize)) {
		return
	}
	page, ok := h.pageOrFail(c, req.PageQuery)
	if !ok {
		return
	}

	f := reports.ProductFilter{
		Code:   req.Code,
		Branch: req.Filial,
		Type:   req.Tipo,
	}
	// Anything other than true/false leaves the movement filter off.
	if v, err := strconv.ParseBool(strings.TrimSpace(req.HasMovement)); err == nil {
		f.HasMovement = &v
	}

	result, err := h.service.Products(c.Request.Context(), f, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewEnvelope(result, h.SelfURL(c), dto.FromProduct))
}

// GetCoverage handles GET /coverage/
func (h *ReportsHandler) GetCoverage(c *gin.Context) {
	var req dto.CoverageRequest
	if !h.BindQuery(c, &req, dto.EmptyEnvelope(1, h.paging.DefaultPageSize)) {
		return
	}
	page, ok := h.pageOrFail(c, req.PageQuery)
	if !ok {
		return
	}
	months, err := h.PositiveInt("meses", req.Meses)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}
	ideal := decimal.Zero
	if raw := strings.TrimSpace(req.CoberturaIdeal); raw != "" {
		ideal, err = types.ParseDecimal(raw)
		if err != nil || !ideal.IsPositive() {
			h.Fail(c, apperror.NewValidation("cobertura_ideal must be a positive number").
				WithDetail("cobertura_ideal", raw), dto.EmptyEnvelope(page.Page, page.Size))
			return
		}
	}

	result, err := h.service.Coverage(c.Request.Context(), reports.CoverageFilter{
		Months:        months,
		IdealCoverage: ideal,
		Branch:        req.Filial,
		Warehouse:     req.Armazem,
	}, page)
	if err != nil {
		h.Fail(c, err, dto.EmptyEnvelope(page.Page, page.Size))
		return
	}

	h.OK(c, dto.NewEnvelope(result, h.SelfURL(c), dto.FromCoverage))
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/stocks/", h.GetStocks)
	rg.GET("/stocks_moviment/", h.GetMovements)
	rg.GET("/sales/", h.GetSales)
	rg.GET("/locations/", h.GetLocations)
	rg.GET("/branches/", h.GetBranches)
	rg.GET("/deliveries/", h.GetDeliveries)
	rg.GET("/deliveries/status/", h.GetDeliveryStatus)
	rg.GET("/deliveries/pending/", h.GetPendingDeliveries)
	rg.GET("/products/", h.GetProducts)
	rg.GET("/coverage/", h.GetCoverage)
}
