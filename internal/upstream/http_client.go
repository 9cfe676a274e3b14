package upstream

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prohmpiriya/concert-events-dashboard/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	opListEvents = "list_events"
	opGetEvent   = "get_event"
)

// HTTPClientConfig holds configuration for the HTTP client
type HTTPClientConfig struct {
	BaseURL  string
	Observer Observer

	// Transport overrides the default transport, mainly for tests
	Transport http.RoundTripper
}

// HTTPClient talks to the real events API
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	observer Observer
}

// NewHTTPClient creates a new HTTP upstream client.
// No client timeout is set; deadlines come from the transport and the caller's context.
func NewHTTPClient(cfg *HTTPClientConfig) *HTTPClient {
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		}
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
		},
		observer: cfg.Observer,
	}
}

// Name returns the client name
func (c *HTTPClient) Name() string {
	return string(ModeHTTP)
}

// ListEvents requests one page of events
func (c *HTTPClient) ListEvents(ctx context.Context, offset, limit int) (*Response, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, opListEvents, "/events", q)
}

// GetEvent requests a single event by hash id
func (c *HTTPClient) GetEvent(ctx context.Context, hashID string) (*Response, error) {
	q := url.Values{}
	q.Set("hashid", hashID)
	return c.get(ctx, opGetEvent, "/event", q)
}

func (c *HTTPClient) get(ctx context.Context, operation, path string, query url.Values) (*Response, error) {
	ctx, span := telemetry.StartSpan(ctx, "upstream."+operation)
	defer span.End()

	target := c.baseURL + path + "?" + query.Encode()
	span.SetAttributes(
		attribute.String("upstream.operation", operation),
		attribute.String("upstream.url", target),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(operation, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("upstream %s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(operation, resp.StatusCode, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *HTTPClient) observe(operation string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(operation, status, elapsed)
	}
}
