package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelid/internal/handler/httperr"
	"travelid/internal/pkg/errs"
)

const maxStackLines = 20

// ErrorHandler turns errors recorded on the gin context into the shared JSON
// envelope. The newest public error wins; anything unclassified becomes a
// plain 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			ginErr := c.Errors[i]
			if !ginErr.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := ginErr.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		if last := c.Errors.Last(); last != nil {
			slog.Error("unhandled request error",
				"path", c.Request.URL.Path,
				"stack", errs.StackLines(last.Err, maxStackLines))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

// CustomRecovery converts panics into the same 500 envelope instead of gin's
// default plain-text response.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered from panic", "error", r, "path", c.Request.URL.Path)

				resp := httperr.Response{
					Status: http.StatusInternalServerError,
					Error:  httperr.Body{Message: "Internal server error"},
				}
				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}
