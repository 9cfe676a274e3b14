package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)

// Proxy error messages
const (
	MsgProxyError      = "Proxy error"
	MsgValidationError = "External API returned validation error"
	msgUpstreamPrefix  = "Failed to fetch from external API: "
)

// ProxyError is a classified upstream failure carrying the status to relay
type ProxyError struct {
	StatusCode int
	Message    string
	Details    any
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func newTransportError(err error) *ProxyError {
	return &ProxyError{
		StatusCode: http.StatusInternalServerError,
		Message:    MsgProxyError,
		Details:    err.Error(),
	}
}

func newValidationError(detail any) *ProxyError {
	return &ProxyError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    MsgValidationError,
		Details:    detail,
	}
}

func newUpstreamError(status int, details any) *ProxyError {
	return &ProxyError{
		StatusCode: status,
		Message:    msgUpstreamPrefix + http.StatusText(status),
		Details:    details,
	}
}
