package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/wordcollab/wordcollab/handlers"
	"github.com/wordcollab/wordcollab/internal/config"
	"github.com/wordcollab/wordcollab/internal/database"
	"github.com/wordcollab/wordcollab/internal/export"
	"github.com/wordcollab/wordcollab/internal/storage"
	"github.com/wordcollab/wordcollab/internal/word/handler"
	"github.com/wordcollab/wordcollab/internal/word/repository"
	"github.com/wordcollab/wordcollab/internal/word/service"
	"github.com/wordcollab/wordcollab/pkg/logger"
	"github.com/wordcollab/wordcollab/pkg/metrics"
	"github.com/wordcollab/wordcollab/pkg/middleware"
)

var startTime = time.Now()

type pinger interface {
	Ping(ctx context.Context) error
}

// app bundles what the router needs. Optional parts are nil when not configured.
type app struct {
	cfg      *config.Config
	words    service.Service
	mongo    pinger
	redis    *redis.Client
	exporter *export.Exporter
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS(), middleware.RequestID(), gin.Logger(), gin.Recovery())

	if a.cfg.RateLimit.Enabled {
		if a.cfg.RateLimit.UseRedis && a.redis != nil {
			win := time.Duration(a.cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(a.redis, a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when Mongo answers, and Redis too when it is configured
	r.GET("/ready", func(c *gin.Context) {
		ctx := c.Request.Context()
		deps := map[string]bool{"mongo": a.mongo != nil && a.mongo.Ping(ctx) == nil}
		if a.cfg.Redis.Addr() != "" {
			deps["redis"] = a.redis != nil && a.redis.Ping(ctx).Err() == nil
		}
		status, code := "ready", http.StatusOK
		for _, ok := range deps {
			if !ok {
				status, code = "not_ready", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handler.RegisterWordRoutes(r, a.words)
	api := r.Group("/api")
	handler.RegisterWordRoutes(api, a.words)
	if a.exporter != nil {
		export.RegisterExportRoutes(r, a.exporter)
		export.RegisterExportRoutes(api, a.exporter)
	}

	handlers.RegisterSwagger(r)
	handlers.RegisterUI(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: db=%s redis=%v minio=%v rate_limit=%v",
		cfg.MongoDB.Database, cfg.Redis.Addr() != "", cfg.MinIO.Endpoint != "", cfg.RateLimit.Enabled)

	ctx := context.Background()

	mgr, err := database.NewManager(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	// dial now so the first request doesn't pay for it; a failure is retried on first use
	if _, err := mgr.Get(ctx); err != nil {
		logger.Warnf("mongo not reachable at startup: %v", err)
	} else {
		logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)
	}

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis %s unavailable, cache and shared rate limit disabled: %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
	}

	repo := repository.NewCachedRepo(repository.NewMongoRepo(mgr), rdb, cfg.Redis.CacheTTL)
	store := service.NewStore(repo)

	var exporter *export.Exporter
	if cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("minio unavailable, export disabled: %v", err)
		} else {
			exporter = export.New(store, st)
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := newRouter(&app{cfg: cfg, words: store, mongo: mgr, redis: rdb, exporter: exporter})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("word service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-sigCtx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := mgr.Close(shutdownCtx); err != nil {
		logger.Errorf("mongo disconnect: %v", err)
	}
}
