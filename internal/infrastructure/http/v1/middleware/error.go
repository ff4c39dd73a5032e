package middleware

import (
	"github.com/gin-gonic/gin"

	"estoque/internal/core/apperror"
	"estoque/internal/infrastructure/http/v1/dto"
	"estoque/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
//
// When the handler stored a fallback body under dto.ErrorFallbackKey, the
// response is that body plus an "error" message; otherwise it is an
// dto.ErrorResponse.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			appErr = apperror.NewInternal(err)
		}
		ctx := c.Request.Context()
		switch {
		case apperror.IsValidation(appErr):
			logger.Debug(ctx, "request rejected",
				"message", appErr.Message,
				"details", appErr.Details,
			)
		case apperror.IsDataSource(appErr):
			logger.Error(ctx, "data source failed",
				"source", appErr.Details["source"],
				"status", appErr.HTTPStatus,
				"cause", appErr.Err,
			)
		case appErr.Err != nil:
			logger.Error(ctx, "request error",
				"code", appErr.Code,
				"status", appErr.HTTPStatus,
				"cause", appErr.Err,
			)
		}

		if fallback, ok := c.Get(dto.ErrorFallbackKey); ok {
			if body, ok := fallback.(map[string]any); ok {
				out := make(map[string]any, len(body)+1)
				for k, v := range body {
					out[k] = v
				}
				out["error"] = appErr.Message
				c.JSON(appErr.HTTPStatus, out)
				return
			}
		}

		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}
}
