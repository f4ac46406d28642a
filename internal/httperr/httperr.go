package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// WriteBusiness maps a BusinessError to its HTTP status; non-business errors
// surface as opaque internal failures.
func WriteBusiness(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	status := http.StatusBadRequest
	switch be.Code {
	case CodeNotFound:
		status = http.StatusNotFound
	case CodeStaffConflict, CodeTimeBlocked, CodeSlotOverlap, CodeIllegalTransition:
		status = http.StatusConflict
	}

	c.JSON(status, HTTPError{Code: be.Code, Message: be.Message, Meta: be.Meta})
}
