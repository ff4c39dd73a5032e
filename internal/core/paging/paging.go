// Package paging implements 1-indexed page windows shared by in-memory and
// query-level pagination.
package paging

import "math"

const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// Config is the pagination policy handed to each handler. It is a value and
// is never mutated after startup.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the standard policy (50 per page, at most 1000).
func DefaultConfig() Config {
	return Config{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

// Normalize clamps raw page parameters. Zero or negative values fall back to
// the defaults; sizes above the maximum are capped. The page is capped so that
// page*size fits in an int.
func (c Config) Normalize(page, size int) Request {
	def, limit := c.DefaultPageSize, c.MaxPageSize
	if def <= 0 {
		def = DefaultPageSize
	}
	if limit <= 0 {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = def
	}
	if size > limit {
		size = limit
	}
	if last := math.MaxInt / size; page > last {
		page = last
	}
	return Request{Page: page, Size: size}
}

// Request is a normalized page request.
type Request struct {
	Page int
	Size int
}

// Offset is the number of records before the page.
func (r Request) Offset() int { return (r.Page - 1) * r.Size }

// Limit is the page size.
func (r Request) Limit() int { return r.Size }

// RowRange returns the row-number window for ROW_NUMBER() pagination:
// rows with from < rn <= to belong to the page.
func (r Request) RowRange() (from, to int) {
	return r.Offset(), r.Page * r.Size
}

// Page is one window of a result plus its totals.
type Page[T any] struct {
	Items      []T
	Count      int
	Page       int
	PageSize   int
	TotalPages int
}

// HasNext reports whether a later page has records.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// HasPrevious reports whether an earlier page exists.
func (p Page[T]) HasPrevious() bool { return p.Page > 1 && p.TotalPages > 0 }

// NewPage wraps an already windowed slice with the total record count.
func NewPage[T any](items []T, total int, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Count:      total,
		Page:       req.Page,
		PageSize:   req.Size,
		TotalPages: TotalPages(total, req.Size),
	}
}

// Slice windows a fully materialized list.
func Slice[T any](all []T, req Request) Page[T] {
	from := req.Offset()
	if from > len(all) {
		from = len(all)
	}
	to := from + req.Size
	if to > len(all) {
		to = len(all)
	}
	return NewPage(all[from:to:to], len(all), req)
}

// Map converts the items of a page, keeping its totals.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:      out,
		Count:      p.Count,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// TotalPages is ceil(total/size); zero when there are no records.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
