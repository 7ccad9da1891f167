package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/moodmate/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	"invalid_input":       http.StatusBadRequest,
	"invalid_request":     http.StatusBadRequest,
	"invalid_credentials": http.StatusUnauthorized,
	"unauthorized":        http.StatusUnauthorized,
	"invalid_token":       http.StatusForbidden,
	"not_found":           http.StatusNotFound,
	"email_exists":        http.StatusConflict,
	"weather_error":       http.StatusBadGateway,
	"llm_error":           http.StatusBadGateway,
	"ai_disabled":         http.StatusServiceUnavailable,
}

// fromDomainError maps a coded domain error onto its HTTP representation.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Code:    "internal_error",
			Message: "something went wrong",
			Err:     err,
		}
	}
	return &HTTPError{Status: status, Code: code, Message: apperrors.UserMessage(err), Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromDomainError(err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func abortWithDomainError(c *gin.Context, err error) {
	abortWithError(c, fromDomainError(err))
}
