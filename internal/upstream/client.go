package upstream

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mode selects the upstream implementation
type Mode string

const (
	ModeHTTP Mode = "http"
	ModeMock Mode = "mock"
)

// Client fetches raw event payloads from the events API.
// Implementations never retry and never interpret the body.
type Client interface {
	// ListEvents calls GET /events?offset=&limit=
	ListEvents(ctx context.Context, offset, limit int) (*Response, error)

	// GetEvent calls GET /event?hashid=
	GetEvent(ctx context.Context, hashID string) (*Response, error)

	// Name returns the implementation name
	Name() string
}

// Response is an upstream reply as received
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Observer receives one call per completed upstream request
type Observer interface {
	ObserveUpstream(operation string, statusCode int, elapsed time.Duration)
}

// Config holds upstream configuration
type Config struct {
	Mode     string
	BaseURL  string
	Observer Observer
}

// NewClient creates an upstream client based on the mode
func NewClient(cfg *Config) (Client, error) {
	switch Mode(strings.ToLower(cfg.Mode)) {
	case ModeMock, "":
		return NewMockClient()

	case ModeHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("upstream base url is required")
		}
		return NewHTTPClient(&HTTPClientConfig{
			BaseURL:  cfg.BaseURL,
			Observer: cfg.Observer,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported upstream mode: %s", cfg.Mode)
	}
}
