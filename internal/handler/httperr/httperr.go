// Package httperr defines the JSON error envelope every handler failure is
// rendered with.
package httperr

import (
	"github.com/gin-gonic/gin"
)

type Body struct {
	Message string `json:"message"`
}

type Response struct {
	Status int  `json:"-"`
	Error  Body `json:"error"`
	Detail any  `json:"detail,omitempty"`
}

// AbortWithError records err on the gin context for the error middleware and
// writes the envelope. The original error travels in the context, never in
// the response body.
func AbortWithError(c *gin.Context, status int, err error, message string, detail any) {
	if err == nil {
		panic("httperr: AbortWithError needs a non-nil error")
	}

	resp := Response{
		Status: status,
		Error:  Body{Message: message},
		Detail: detail,
	}
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
