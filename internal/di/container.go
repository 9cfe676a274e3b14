package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/concert-events-dashboard/internal/handler"
	"github.com/prohmpiriya/concert-events-dashboard/internal/metrics"
	"github.com/prohmpiriya/concert-events-dashboard/internal/middleware"
	"github.com/prohmpiriya/concert-events-dashboard/internal/repository"
	"github.com/prohmpiriya/concert-events-dashboard/internal/service"
	"github.com/prohmpiriya/concert-events-dashboard/internal/upstream"
	"github.com/prohmpiriya/concert-events-dashboard/internal/view"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/logger"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/redis"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/telemetry"
)

// Container holds all dependencies of the dashboard
type Container struct {
	// Infrastructure
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Logger  *logger.Logger

	// Upstream and repositories
	Upstream upstream.Client
	Sessions repository.SessionRepository

	// Services
	EventService service.EventService

	// Handlers
	HealthHandler *handler.HealthHandler
	ProxyHandler  *handler.ProxyHandler
	PageHandler   *handler.PageHandler

	// Middleware
	RateLimiter *middleware.LocalRateLimiter

	serviceName string
	tracing     bool
	closers     []func() error
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	ServiceName string

	// SessionStore selects the session backend: redis, sqlite or memory.
	// redis without a connected client falls back to memory.
	SessionStore string
	SQLitePath   string
	Redis        *redis.Client

	UpstreamMode    string
	UpstreamBaseURL string

	PageSize   int
	SessionTTL time.Duration

	RateLimitEnabled  bool
	RequestsPerMinute int
	RateLimitBurst    int

	TracingEnabled bool
	Logger         *logger.Logger
}

// NewContainer creates a new dependency injection container.
// ctx bounds background work such as rate limiter cleanup.
func NewContainer(ctx context.Context, cfg *ContainerConfig) (*Container, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		Redis:       cfg.Redis,
		Metrics:     metrics.New(),
		Logger:      log,
		serviceName: cfg.ServiceName,
		tracing:     cfg.TracingEnabled,
	}

	client, err := upstream.NewClient(&upstream.Config{
		Mode:     cfg.UpstreamMode,
		BaseURL:  cfg.UpstreamBaseURL,
		Observer: c.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}
	c.Upstream = client

	switch {
	case cfg.SessionStore == "sqlite":
		store, err := repository.OpenSQLiteSessionRepository(ctx, cfg.SQLitePath, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		c.Sessions = store
		c.closers = append(c.closers, store.Close)
	case cfg.SessionStore != "memory" && c.Redis != nil:
		c.Sessions = repository.NewRedisSessionRepository(c.Redis, cfg.SessionTTL)
	default:
		c.Sessions = repository.NewMemorySessionRepository(cfg.SessionTTL)
	}

	c.EventService = service.NewEventService(c.Upstream, log)

	c.HealthHandler = handler.NewHealthHandler(cfg.ServiceName, c.Upstream, c.Sessions)
	c.ProxyHandler = handler.NewProxyHandler(c.EventService)
	c.PageHandler = handler.NewPageHandler(&handler.PageHandlerConfig{
		Events:   c.EventService,
		Sessions: c.Sessions,
		PageSize: cfg.PageSize,
		Recorder: c.Metrics,
		Logger:   log,
	})

	if cfg.RateLimitEnabled {
		c.RateLimiter = middleware.NewLocalRateLimiter(ctx, middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             cfg.RateLimitBurst,
		})
	}

	return c, nil
}

// Close releases resources the container opened itself
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Router builds the gin engine with every route of the dashboard
func (c *Container) Router() (*gin.Engine, error) {
	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if c.tracing {
		router.Use(telemetry.TracingMiddleware(c.serviceName))
	}
	router.Use(middleware.Logger(c.Logger))
	router.SetHTMLTemplate(tmpl)

	// Health check endpoints
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	api := router.Group("/api")
	api.Use(middleware.CORS())
	if c.RateLimiter != nil {
		api.Use(middleware.RateLimit(c.RateLimiter))
	}
	{
		api.GET("/events", c.ProxyHandler.List)
		api.GET("/sessions/:session", c.PageHandler.SessionJSON)
		api.POST("/sessions/:session/actions", c.PageHandler.ActionJSON)
		api.DELETE("/sessions/:session", c.PageHandler.DeleteSessionJSON)
	}

	// Dashboard pages
	router.GET("/", c.PageHandler.List)
	events := router.Group("/events/:id")
	{
		events.GET("", c.PageHandler.Detail)
		events.GET("/sessions/:session", c.PageHandler.Session)
		events.POST("/sessions/:session/actions", c.PageHandler.Action)
		events.POST("/sessions/:session/discard", c.PageHandler.Discard)
	}

	return router, nil
}
