package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"estoque/internal/core/apperror"
	"estoque/internal/core/paging"
	"estoque/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	paging paging.Config
}

// NewBaseHandler creates a new base handler.
func NewBaseHandler(cfg paging.Config) *BaseHandler {
	return &BaseHandler{paging: cfg}
}

// BindQuery binds query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any, fallback map[string]any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Fail(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()), fallback)
		return false
	}
	return true
}

// Error registers err on the gin context and aborts the request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Fail is Error for endpoints whose error body is their empty response.
func (h *BaseHandler) Fail(c *gin.Context, err error, fallback map[string]any) {
	if fallback != nil {
		c.Set(dto.ErrorFallbackKey, fallback)
	}
	h.Error(c, err)
}

// PageRequest normalizes the page parameters. A page that is not an integer
// is rejected; an unparsable page_size falls back to the default.
func (h *BaseHandler) PageRequest(q dto.PageQuery) (paging.Request, error) {
	page := 1
	if raw := strings.TrimSpace(q.Page); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return h.paging.Normalize(1, 0), apperror.NewValidation("page must be an integer").WithDetail("page", raw)
		}
		page = n
	}
	size, err := strconv.Atoi(strings.TrimSpace(q.PageSize))
	if err != nil {
		size = 0
	}
	return h.paging.Normalize(page, size), nil
}

// NotFound answers requests that match no route.
func (h *BaseHandler) NotFound(c *gin.Context) {
	h.Error(c, apperror.NewNotFound("route", c.Request.URL.Path))
}

// PositiveInt parses an optional positive integer parameter; absent is zero.
func (h *BaseHandler) PositiveInt(key, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperror.NewValidation(key + " must be a positive integer").WithDetail(key, raw)
	}
	return n, nil
}

// SelfURL is the absolute URL of the request, as the client addressed it.
func (h *BaseHandler) SelfURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = c.Request.Host
	return &u
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
