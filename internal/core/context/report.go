package context

import (
	"context"
)

// ReportContext identifies the report a request is computing.
// Query logs and spans carry it so a slow query can be traced back to its endpoint.
type ReportContext struct {
	Name string
}

type reportContextKey struct{}

// WithReport adds ReportContext to context.
func WithReport(ctx context.Context, report *ReportContext) context.Context {
	return context.WithValue(ctx, reportContextKey{}, report)
}

// GetReport returns ReportContext from context.
func GetReport(ctx context.Context) *ReportContext {
	if v, ok := ctx.Value(reportContextKey{}).(*ReportContext); ok {
		return v
	}
	return nil
}

// GetReportName returns report name from context or empty string.
func GetReportName(ctx context.Context) string {
	if r := GetReport(ctx); r != nil {
		return r.Name
	}
	return ""
}
