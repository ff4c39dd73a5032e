// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"net/url"
	"strconv"
	"time"

	"estoque/internal/core/paging"
)

// ErrorFallbackKey is the gin context key under which a handler stores the
// body an error response starts from.
const ErrorFallbackKey = "error_fallback"

// DateLayout is the JSON rendering of calendar dates.
const DateLayout = "2006-01-02"

// --- Pagination ---

// PageQuery holds the page parameters shared by every paginated endpoint.
// Page is bound as text so a non-integer value can be rejected explicitly.
type PageQuery struct {
	Page     string `form:"page"`
	PageSize string `form:"page_size"`
}

// --- Envelope ---

// Envelope is the paginated response body.
type Envelope[T any] struct {
	Count       int     `json:"count"`
	Next        *string `json:"next"`
	Previous    *string `json:"previous"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
	PageSize    int     `json:"page_size"`
	Results     []T     `json:"results"`
}

// NewEnvelope shapes a page. self is the absolute URL of the request;
// next/previous repeat it with only the page parameter replaced.
func NewEnvelope[T, U any](p paging.Page[T], self *url.URL, fn func(T) U) Envelope[U] {
	mapped := paging.Map(p, fn)
	out := Envelope[U]{
		Count:       mapped.Count,
		TotalPages:  mapped.TotalPages,
		CurrentPage: mapped.Page,
		PageSize:    mapped.PageSize,
		Results:     mapped.Items,
	}
	if p.HasNext() {
		out.Next = PageURL(self, p.Page+1)
	}
	if p.HasPrevious() {
		out.Previous = PageURL(self, p.Page-1)
	}
	return out
}

// PageURL returns u with the page query parameter set to page.
func PageURL(u *url.URL, page int) *string {
	if u == nil {
		return nil
	}
	next := *u
	q := next.Query()
	q.Set("page", strconv.Itoa(page))
	next.RawQuery = q.Encode()
	s := next.String()
	return &s
}

// EmptyEnvelope is the body of a failed paginated request.
func EmptyEnvelope(page, size int) map[string]any {
	return map[string]any{
		"count":        0,
		"next":         nil,
		"previous":     nil,
		"total_pages":  0,
		"current_page": page,
		"page_size":    size,
		"results":      []any{},
	}
}

// --- Helpers ---

// FormatDate renders an optional date, nil stays null.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// --- Error Response ---

// ErrorResponse is the body of errors raised outside report endpoints.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
