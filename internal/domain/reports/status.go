package reports

import "strings"

// DeliveryStatus is the release state derived from the release flags.
type DeliveryStatus string

const (
	StatusInvoiced     DeliveryStatus = "FATURADO"
	StatusStockBlocked DeliveryStatus = "BLOQ_ESTOQUE"
	StatusCreditBlock  DeliveryStatus = "BLOQ_CREDITO"
	StatusReleased     DeliveryStatus = "LIBERADO"
	StatusPending      DeliveryStatus = "PENDENTE"
)

// ReleaseOKYes is the release-ok flag value meaning released.
const ReleaseOKYes = "S"

// Classify derives the status of a release. The first matching rule wins:
// invoiced, stock-blocked, credit-blocked, released, pending.
// Flags are compared after trimming, so space-padded blanks count as absent.
func Classify(invoice, stockBlock, creditBlock, releaseOK string) DeliveryStatus {
	switch {
	case strings.TrimSpace(invoice) != "":
		return StatusInvoiced
	case strings.TrimSpace(stockBlock) != "":
		return StatusStockBlocked
	case strings.TrimSpace(creditBlock) != "":
		return StatusCreditBlock
	case strings.TrimSpace(releaseOK) == ReleaseOKYes:
		return StatusReleased
	default:
		return StatusPending
	}
}

// Open reports whether the release still awaits shipping: not invoiced and
// not blocked.
func (s DeliveryStatus) Open() bool {
	return s == StatusReleased || s == StatusPending
}

// CoverageStatus classifies months of coverage.
type CoverageStatus string

const (
	CoverageCritical CoverageStatus = "CRITICO"
	CoverageLow      CoverageStatus = "BAIXO"
	CoverageAdequate CoverageStatus = "ADEQUADO"
	CoverageExcess   CoverageStatus = "EXCESSO"
	CoverageNoSales  CoverageStatus = "SEM_VENDAS"
)

// Priority is the replenishment urgency.
type Priority string

const (
	PriorityHigh   Priority = "ALTA"
	PriorityMedium Priority = "MEDIA"
	PriorityLow    Priority = "BAIXA"
)
