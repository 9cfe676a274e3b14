package di

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/concert-events-dashboard/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMockContainer(t *testing.T) *Container {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c, err := NewContainer(ctx, &ContainerConfig{
		ServiceName:       "concert-dashboard",
		UpstreamMode:      "mock",
		PageSize:          2,
		SessionTTL:        time.Minute,
		RateLimitEnabled:  true,
		RequestsPerMinute: 600,
		RateLimitBurst:    50,
	})
	require.NoError(t, err)
	return c
}

func TestNewContainer_MemoryFallback(t *testing.T) {
	c := newMockContainer(t)

	_, ok := c.Sessions.(*repository.MemorySessionRepository)
	assert.True(t, ok)
	assert.Equal(t, "mock", c.Upstream.Name())
	assert.NotNil(t, c.RateLimiter)
}

func TestNewContainer_SQLiteSessions(t *testing.T) {
	c, err := NewContainer(context.Background(), &ContainerConfig{
		ServiceName:  "concert-dashboard",
		UpstreamMode: "mock",
		PageSize:     2,
		SessionTTL:   time.Minute,
		SessionStore: "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "sessions.db"),
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "sqlite", c.Sessions.Name())
	assert.NoError(t, c.Sessions.Ping(context.Background()))
	assert.Nil(t, c.RateLimiter)
}

func TestNewContainer_SQLiteBadPath(t *testing.T) {
	_, err := NewContainer(context.Background(), &ContainerConfig{
		UpstreamMode: "mock",
		SessionTTL:   time.Minute,
		SessionStore: "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "missing-dir", "sessions.db"),
	})
	assert.Error(t, err)
}

func TestNewContainer_BadUpstreamMode(t *testing.T) {
	_, err := NewContainer(context.Background(), &ContainerConfig{UpstreamMode: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestRouter_EndToEndWithMockUpstream(t *testing.T) {
	c := newMockContainer(t)
	router, err := c.Router()
	require.NoError(t, err)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := serve(httptest.NewRequest(http.MethodGet, "/api/events?offset=0&limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"eventos"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))

	w = serve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Panel de Eventos de Conciertos")

	w = serve(httptest.NewRequest(http.MethodGet, "/events/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/events/ce001", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/events/ce001/sessions/"))

	w = serve(httptest.NewRequest(http.MethodGet, loc, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `concert_dashboard_page_renders_total{page="list"} 1`)
	assert.Contains(t, w.Body.String(), "concert_dashboard_editing_sessions_opened_total 1")
}

func TestRouter_UnknownEditorActionsKeepMetricsBounded(t *testing.T) {
	c := newMockContainer(t)
	router, err := c.Router()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/ce001", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	sid := path.Base(w.Header().Get("Location"))

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sid+"/actions",
			strings.NewReader(fmt.Sprintf(`{"action":"junk-%d"}`, i)))
		req.Header.Set("Content-Type", "application/json")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	series, err := testutil.GatherAndCount(c.Metrics.Registry(), "concert_dashboard_editor_actions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}
