package reports

import (
	"estoque/internal/core/rowset"
)

// Field-resolution tables. Each canonical field lists the column names that
// may carry it, preferred first: the alias the repository selects, then the
// Portuguese alias, then the raw ERP column.

var stockSchema = rowset.Schema{
	{Name: "code", Keys: []string{"code", "codigo", "b1_cod"}, Required: true},
	{Name: "description", Keys: []string{"description", "descricao", "b1_desc"}},
	{Name: "balance", Keys: []string{"balance", "saldo", "b2_qatu"}},
	{Name: "reserved", Keys: []string{"reserved", "reserva", "b2_reserva"}},
	{Name: "on_order", Keys: []string{"on_order", "qtd_pedido", "b2_qpedven"}},
	{Name: "branch", Keys: []string{"filial", "branch", "b1_filial"}},
	{Name: "location", Keys: []string{"location", "local", "b2_local"}},
}

var salesSchema = rowset.Schema{
	{Name: "code", Keys: []string{"code", "codigo", "c6_produto", "d3_cod"}, Required: true},
	{Name: "description", Keys: []string{"description", "descricao", "b1_desc"}},
	{Name: "quantity", Keys: []string{"quantity", "quantidade"}, Required: true},
	{Name: "value", Keys: []string{"value", "valor"}},
	{Name: "branch", Keys: []string{"filial", "branch"}},
	{Name: "location", Keys: []string{"location", "local"}},
}

var movementSchema = rowset.Schema{
	{Name: "code", Keys: []string{"code", "codigo", "d3_cod"}, Required: true},
	{Name: "movement_type", Keys: []string{"movement_type", "tipo_movimento", "d3_tm"}},
	{Name: "date", Keys: []string{"movement_date", "date", "data", "d3_emissao"}},
	{Name: "quantity", Keys: []string{"quantity", "quantidade", "d3_quant"}},
	{Name: "fiscal_code", Keys: []string{"fiscal_code", "d3_cf"}},
	{Name: "document", Keys: []string{"document", "documento", "d3_doc"}},
	{Name: "location", Keys: []string{"location", "local", "d3_local"}},
	{Name: "branch", Keys: []string{"filial", "branch", "d3_filial"}},
}

var deliverySchema = rowset.Schema{
	{Name: "branch", Keys: []string{"filial", "c9_filial"}},
	{Name: "order", Keys: []string{"pedido", "c9_pedido"}, Required: true},
	{Name: "item", Keys: []string{"item", "c9_item"}},
	{Name: "sequence", Keys: []string{"sequencia", "c9_sequen"}},
	{Name: "product", Keys: []string{"produto", "c9_produto"}, Required: true},
	{Name: "description", Keys: []string{"descricao", "b1_desc"}},
	{Name: "released_qty", Keys: []string{"quantidade_liberada", "c9_qtdlib"}},
	{Name: "unit_price", Keys: []string{"preco_venda", "c9_prcven"}},
	{Name: "release_date", Keys: []string{"data_liberacao", "c9_datalib"}},
	{Name: "location", Keys: []string{"location", "local", "c9_local"}},
	{Name: "lot", Keys: []string{"lote", "c9_lotectl"}},
	{Name: "expiry_date", Keys: []string{"data_validade", "c9_dtvalid"}},
	{Name: "separation_order", Keys: []string{"ordem_separacao", "c9_ordsep"}},
	{Name: "invoice", Keys: []string{"nota_fiscal", "c9_nfiscal"}},
	{Name: "invoice_series", Keys: []string{"serie_nf", "c9_serienf"}},
	{Name: "stock_block", Keys: []string{"bloqueio_estoque", "c9_blest"}},
	{Name: "credit_block", Keys: []string{"bloqueio_credito", "c9_blcred"}},
	{Name: "release_ok", Keys: []string{"liberacao_ok", "c9_libok"}},
}

func parseStock(r rowset.Row) (StockRecord, error) {
	rec := StockRecord{
		Code:        r.String("code"),
		Description: r.String("description"),
		Branch:      r.String("branch"),
		Location:    r.String("location"),
	}
	var err error
	if rec.Balance, err = r.Decimal("balance"); err != nil {
		return rec, err
	}
	if rec.Reserved, err = r.Decimal("reserved"); err != nil {
		return rec, err
	}
	if rec.OnOrder, err = r.Decimal("on_order"); err != nil {
		return rec, err
	}
	if rec.Location == "" {
		rec.Location = DefaultLocation
	}
	return rec, nil
}

func parseSales(r rowset.Row) (SalesRecord, error) {
	rec := SalesRecord{
		Code:        r.String("code"),
		Description: r.String("description"),
		Branch:      r.String("branch"),
		Location:    r.String("location"),
	}
	var err error
	if rec.Quantity, err = r.Decimal("quantity"); err != nil {
		return rec, err
	}
	if rec.Value, err = r.Decimal("value"); err != nil {
		return rec, err
	}
	return rec, nil
}

func parseMovement(r rowset.Row) (Movement, error) {
	m := Movement{
		Code:         r.String("code"),
		MovementType: r.String("movement_type"),
		FiscalCode:   r.String("fiscal_code"),
		Document:     r.String("document"),
		Location:     r.String("location"),
		Branch:       r.String("branch"),
	}
	var err error
	if m.Date, err = r.Time("date"); err != nil {
		return m, err
	}
	if m.Quantity, err = r.Decimal("quantity"); err != nil {
		return m, err
	}
	return m, nil
}

func parseDelivery(r rowset.Row) (Delivery, error) {
	d := Delivery{
		Branch:          r.String("branch"),
		Order:           r.String("order"),
		Item:            r.String("item"),
		Sequence:        r.String("sequence"),
		Product:         r.String("product"),
		Description:     r.String("description"),
		Location:        r.String("location"),
		Lot:             r.String("lot"),
		SeparationOrder: r.String("separation_order"),
		Invoice:         r.String("invoice"),
		InvoiceSeries:   r.String("invoice_series"),
		StockBlock:      r.String("stock_block"),
		CreditBlock:     r.String("credit_block"),
		ReleaseOK:       r.String("release_ok"),
	}
	var err error
	if d.ReleasedQty, err = r.Decimal("released_qty"); err != nil {
		return d, err
	}
	if d.UnitPrice, err = r.Decimal("unit_price"); err != nil {
		return d, err
	}
	if d.ReleaseDate, err = r.Time("release_date"); err != nil {
		return d, err
	}
	if d.ExpiryDate, err = r.Time("expiry_date"); err != nil {
		return d, err
	}
	d.TotalValue = d.ReleasedQty.Mul(d.UnitPrice)
	d.Status = Classify(d.Invoice, d.StockBlock, d.CreditBlock, d.ReleaseOK)
	return d, nil
}
