// Package response writes the JSON envelope of the dashboard's session API and
// operational endpoints. The list proxy has its own {error, details} contract
// and does not use it.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey is the gin context key set by the request id middleware
const requestIDKey = "request_id"

// Code classifies a failure for API clients
type Code string

const (
	CodeBadRequest  Code = "BAD_REQUEST"
	CodeNotFound    Code = "NOT_FOUND"
	CodeRateLimited Code = "TOO_MANY_REQUESTS"
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeInternal    Code = "INTERNAL_ERROR"
)

// Status maps a code to its HTTP status
func (c Code) Status() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Envelope wraps every body. Data may accompany a failure, readiness uses
// that to report which dependency is down.
type Envelope struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Error     *Problem `json:"error,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Problem describes a failure
type Problem struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// OK writes 200 with data
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, RequestID: c.GetString(requestIDKey)})
}

// Fail writes a failure with the status of code
func Fail(c *gin.Context, code Code, message string) {
	FailWithData(c, code, message, nil)
}

// FailWithData writes a failure that still carries data
func FailWithData(c *gin.Context, code Code, message string, data any) {
	c.JSON(code.Status(), Envelope{
		Data:      data,
		Error:     &Problem{Code: code, Message: message},
		RequestID: c.GetString(requestIDKey),
	})
}

// Internal writes 500. The cause is recorded on the gin context for the
// request logger and never sent to the client.
func Internal(c *gin.Context, err error) {
	_ = c.Error(err)
	Fail(c, CodeInternal, "Internal Server Error")
}
