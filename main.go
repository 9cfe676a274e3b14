package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/concert-events-dashboard/internal/di"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/config"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/logger"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/redis"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting concert events dashboard...",
		zap.String("version", cfg.App.Version),
		zap.String("upstream_mode", cfg.Upstream.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("Telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}

	// Redis is optional: editing sessions fall back to process memory
	var redisClient *redis.Client
	if cfg.Dashboard.SessionStore == "redis" {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    2,
			RetryInterval: time.Second,
			EnableTracing: cfg.OTel.Enabled,
		}
		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Warn("Redis connection failed, editing sessions kept in memory", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", redisCfg.Addr()))
		}
	}

	// Build dependency injection container
	container, err := di.NewContainer(ctx, &di.ContainerConfig{
		ServiceName:       cfg.App.Name,
		SessionStore:      cfg.Dashboard.SessionStore,
		SQLitePath:        cfg.Dashboard.SQLitePath,
		Redis:             redisClient,
		UpstreamMode:      cfg.Upstream.Mode,
		UpstreamBaseURL:   cfg.Upstream.BaseURL,
		PageSize:          cfg.Dashboard.PageSize,
		SessionTTL:        cfg.Dashboard.SessionTTL,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		RateLimitBurst:    cfg.RateLimit.Burst,
		TracingEnabled:    cfg.OTel.Enabled,
		Logger:            appLog,
	})
	if err != nil {
		appLog.Fatal("Failed to build container", zap.Error(err))
	}
	defer container.Close()

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := container.Router()
	if err != nil {
		appLog.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info("Dashboard listening",
			zap.String("addr", srv.Addr),
			zap.String("session_store", container.Sessions.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			appLog.Warn("Failed to flush traces", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		appLog.Error("Dashboard stopped with error", zap.Error(err))
		return
	}
	appLog.Info("Server exited")
}
