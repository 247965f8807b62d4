// Package handlers implements the HTTP endpoint handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rephind/rephind/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status and writes
// the structured error body.  Internal errors are masked so stack detail
// never leaks to clients.
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}
	c.JSON(status, ErrorResponse{
		Code:    string(errors.GetCode(err)),
		Message: err.Error(),
	})
}

// respondBadRequest writes a 400 for request decoding failures.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    string(errors.ErrCodeBadRequest),
		Message: message,
	})
}
