package dto

import (
	"estoque/internal/core/types"
	"estoque/internal/domain/reports"
)

// --- Requests ---

// StockRequest binds GET /stocks/.
type StockRequest struct {
	PageQuery
	Filial  string `form:"filial"`
	Armazem string `form:"armazem"`
	Code    string `form:"code"`
}

// MovementRequest binds GET /stocks_moviment/.
type MovementRequest struct {
	PageQuery
	Filial       string `form:"filial"`
	Armazem      string `form:"armazem"`
	Code         string `form:"code"`
	Document     string `form:"document"`
	MovementType string `form:"movement_type"`
	Days         string `form:"days"`
}

// SalesRequest binds GET /sales/.
type SalesRequest struct {
	PageQuery
	Meses   string `form:"meses"`
	Filial  string `form:"filial"`
	Armazem string `form:"armazem"`
}

// DeliveryRequest binds the deliveries endpoints.
type DeliveryRequest struct {
	PageQuery
	Filial string `form:"filial"`
	Local  string `form:"local"`
	Days   string `form:"days"`
}

// ProductRequest binds GET /products/.
type ProductRequest struct {
	PageQuery
	Code        string `form:"code"`
	Filial      string `form:"filial"`
	Tipo        string `form:"tipo"`
	HasMovement string `form:"has_movement"`
}

// CoverageRequest binds GET /coverage/.
type CoverageRequest struct {
	PageQuery
	Meses          string `form:"meses"`
	CoberturaIdeal string `form:"cobertura_ideal"`
	Filial         string `form:"filial"`
	Armazem        string `form:"armazem"`
}

// --- Stock ---

// StockResponse is one stock summary row.
type StockResponse struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Balance     float64 `json:"balance"`
	Reserved    float64 `json:"reserved"`
	OnOrder     float64 `json:"on_order"`
	Filial      string  `json:"filial"`
	Local       string  `json:"local"`
}

func FromStockRecord(r reports.StockRecord) StockResponse {
	return StockResponse{
		Code:        r.Code,
		Description: r.Description,
		Balance:     types.QuantityFloat(r.Balance),
		Reserved:    types.QuantityFloat(r.Reserved),
		OnOrder:     types.QuantityFloat(r.OnOrder),
		Filial:      r.Branch,
		Local:       r.Location,
	}
}

// --- Sales ---

// SalesResponse is one aggregated sales row.
type SalesResponse struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Value       float64 `json:"value"`
	Filial      string  `json:"filial"`
	Local       string  `json:"local"`
}

func FromSalesRecord(r reports.SalesRecord) SalesResponse {
	return SalesResponse{
		Code:        r.Code,
		Description: r.Description,
		Quantity:    types.QuantityFloat(r.Quantity),
		Value:       types.MoneyFloat(r.Value),
		Filial:      r.Branch,
		Local:       r.Location,
	}
}

// --- Movements ---

// MovementListResponse is the body of GET /stocks_moviment/.
type MovementListResponse struct {
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Results  []MovementResponse `json:"results"`
}

// MovementResponse is one stock movement.
type MovementResponse struct {
	Code         string  `json:"code"`
	MovementType string  `json:"movement_type"`
	Date         *string `json:"date"`
	Quantity     float64 `json:"quantity"`
	FiscalCode   string  `json:"fiscal_code"`
	Document     string  `json:"document"`
	Location     string  `json:"location"`
	Filial       string  `json:"filial"`
}

// NewMovementList shapes one page of movements.
func NewMovementList(items []reports.Movement, page, size int) MovementListResponse {
	resp := MovementListResponse{
		Page:     page,
		PageSize: size,
		Results:  make([]MovementResponse, len(items)),
	}
	for i, m := range items {
		resp.Results[i] = MovementResponse{
			Code:         m.Code,
			MovementType: m.MovementType,
			Date:         FormatDate(m.Date),
			Quantity:     types.QuantityFloat(m.Quantity),
			FiscalCode:   m.FiscalCode,
			Document:     m.Document,
			Location:     m.Location,
			Filial:       m.Branch,
		}
	}
	return resp
}

// EmptyMovementList is the body of a failed movements request.
func EmptyMovementList(page, size int) map[string]any {
	return map[string]any{"page": page, "page_size": size, "results": []any{}}
}

// --- Locations & branches ---

// LocationResponse is one movement location.
type LocationResponse struct {
	Location      string `json:"location"`
	MovementCount int64  `json:"movement_count"`
}

// LocationListResponse is the body of GET /locations/.
type LocationListResponse struct {
	Success   bool               `json:"success"`
	Locations []LocationResponse `json:"locations"`
	Count     int                `json:"count"`
}

func NewLocationList(items []reports.Location) LocationListResponse {
	resp := LocationListResponse{
		Success:   true,
		Locations: make([]LocationResponse, len(items)),
		Count:     len(items),
	}
	for i, l := range items {
		resp.Locations[i] = LocationResponse{Location: l.Location, MovementCount: l.MovementCount}
	}
	return resp
}

// EmptyLocationList is the body of a failed locations request.
func EmptyLocationList() map[string]any {
	return map[string]any{"success": false, "locations": []any{}, "count": 0}
}

// BranchListResponse is the body of GET /branches/.
type BranchListResponse struct {
	Success  bool     `json:"success"`
	Branches []string `json:"branches"`
	Count    int      `json:"count"`
}

func NewBranchList(items []string) BranchListResponse {
	if items == nil {
		items = []string{}
	}
	return BranchListResponse{Success: true, Branches: items, Count: len(items)}
}

// EmptyBranchList is the body of a failed branches request.
func EmptyBranchList() map[string]any {
	return map[string]any{"success": false, "branches": []any{}, "count": 0}
}

// --- Deliveries ---

// DeliveryResponse is one order release.
type DeliveryResponse struct {
	Filial             string  `json:"filial"`
	Pedido             string  `json:"pedido"`
	Item               string  `json:"item"`
	Sequencia          string  `json:"sequencia"`
	Produto            string  `json:"produto"`
	Descricao          string  `json:"descricao"`
	QuantidadeLiberada float64 `json:"quantidade_liberada"`
	PrecoVenda         float64 `json:"preco_venda"`
	ValorTotal         float64 `json:"valor_total"`
	DataLiberacao      *string `json:"data_liberacao"`
	Local              string  `json:"local"`
	Lote               string  `json:"lote"`
	DataValidade       *string `json:"data_validade"`
	OrdemSeparacao     string  `json:"ordem_separacao"`
	NotaFiscal         string  `json:"nota_fiscal"`
	SerieNF            string  `json:"serie_nf"`
	StatusLiberacao    string  `json:"status_liberacao"`
	BloqueioEstoque    string  `json:"bloqueio_estoque"`
	BloqueioCredito    string  `json:"bloqueio_credito"`
}

func FromDelivery(d reports.Delivery) DeliveryResponse {
	return DeliveryResponse{
		Filial:             d.Branch,
		Pedido:             d.Order,
		Item:               d.Item,
		Sequencia:          d.Sequence,
		Produto:            d.Product,
		Descricao:          d.Description,
		QuantidadeLiberada: types.QuantityFloat(d.ReleasedQty),
		PrecoVenda:         types.MoneyFloat(d.UnitPrice),
		ValorTotal:         types.MoneyFloat(d.TotalValue),
		DataLiberacao:      FormatDate(d.ReleaseDate),
		Local:              d.Location,
		Lote:               d.Lot,
		DataValidade:       FormatDate(d.ExpiryDate),
		OrdemSeparacao:     d.SeparationOrder,
		NotaFiscal:         d.Invoice,
		SerieNF:            d.InvoiceSeries,
		StatusLiberacao:    string(d.Status),
		BloqueioEstoque:    d.StockBlock,
		BloqueioCredito:    d.CreditBlock,
	}
}

// StatusSummaryResponse totals the releases of one status.
type StatusSummaryResponse struct {
	Status     string  `json:"status"`
	Quantidade int     `json:"quantidade"`
	ValorTotal float64 `json:"valor_total"`
}

// StatusListResponse is the body of GET /deliveries/status/.
type StatusListResponse struct {
	Success bool                    `json:"success"`
	Count   int                     `json:"count"`
	Data    []StatusSummaryResponse `json:"data"`
}

func NewStatusList(items []reports.StatusSummary) StatusListResponse {
	resp := StatusListResponse{
		Success: true,
		Count:   len(items),
		Data:    make([]StatusSummaryResponse, len(items)),
	}
	for i, s := range items {
		resp.Data[i] = StatusSummaryResponse{
			Status:     string(s.Status),
			Quantidade: s.Count,
			ValorTotal: types.MoneyFloat(s.Value),
		}
	}
	return resp
}

// EmptyStatusList is the body of a failed status summary request.
func EmptyStatusList() map[string]any {
	return map[string]any{"success": false, "count": 0, "data": []any{}}
}

// PendingResponse is the open quantity of one order line.
type PendingResponse struct {
	Filial            string  `json:"filial"`
	Pedido            string  `json:"pedido"`
	Produto           string  `json:"produto"`
	Descricao         string  `json:"descricao"`
	Local             string  `json:"local"`
	Quantidade        float64 `json:"quantidade"`
	ValorTotal        float64 `json:"valor_total"`
	PrimeiraLiberacao *string `json:"primeira_liberacao"`
	UltimaLiberacao   *string `json:"ultima_liberacao"`
	Itens             int     `json:"itens"`
}

func FromPending(p reports.PendingDelivery) PendingResponse {
	return PendingResponse{
		Filial:            p.Branch,
		Pedido:            p.Order,
		Produto:           p.Product,
		Descricao:         p.Description,
		Local:             p.Location,
		Quantidade:        types.QuantityFloat(p.Quantity),
		ValorTotal:        types.MoneyFloat(p.Value),
		PrimeiraLiberacao: FormatDate(p.FirstRelease),
		UltimaLiberacao:   FormatDate(p.LastRelease),
		Itens:             p.Items,
	}
}

// --- Products ---

// ProductResponse is one product master row.
type ProductResponse struct {
	Filial      string `json:"filial"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Unit        string `json:"unit"`
	Group       string `json:"group"`
}

func FromProduct(p reports.Product) ProductResponse {
	return ProductResponse{
		Filial:      p.Branch,
		Code:        p.Code,
		Description: p.Description,
		Type:        p.Type,
		Unit:        p.Unit,
		Group:       p.Group,
	}
}

// --- Coverage ---

// CoverageResponse relates one stock balance to its consumption.
// Coverage is null for stock that has not sold in the window.
type CoverageResponse struct {
	Code           string   `json:"code"`
	Description    string   `json:"description"`
	Filial         string   `json:"filial"`
	Local          string   `json:"local"`
	Balance        float64  `json:"balance"`
	SoldQuantity   float64  `json:"sold_quantity"`
	SoldValue      float64  `json:"sold_value"`
	MonthlyAverage float64  `json:"monthly_average"`
	Share          float64  `json:"share"`
	Coverage       *float64 `json:"coverage"`
	IdealStock     float64  `json:"ideal_stock"`
	Replenishment  float64  `json:"replenishment"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
}

func FromCoverage(r reports.CoverageRecord) CoverageResponse {
	resp := CoverageResponse{
		Code:           r.Code,
		Description:    r.Description,
		Filial:         r.Branch,
		Local:          r.Location,
		Balance:        types.QuantityFloat(r.Balance),
		SoldQuantity:   types.QuantityFloat(r.SoldQuantity),
		SoldValue:      types.MoneyFloat(r.SoldValue),
		MonthlyAverage: types.QuantityFloat(r.MonthlyAvg),
		Share:          types.MoneyFloat(r.Share),
		IdealStock:     types.QuantityFloat(r.IdealStock),
		Replenishment:  types.QuantityFloat(r.Replenishment),
		Status:         string(r.Status),
		Priority:       string(r.Priority),
	}
	if r.Coverage != nil {
		c := r.Coverage.Round(2).InexactFloat64()
		resp.Coverage = &c
	}
	return resp
}
