package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/shot-analytics/internal/aggregate"
	"github.com/stitts-dev/shot-analytics/internal/analytics"
	"github.com/stitts-dev/shot-analytics/internal/api"
	"github.com/stitts-dev/shot-analytics/internal/api/handlers"
	"github.com/stitts-dev/shot-analytics/internal/repository"
	"github.com/stitts-dev/shot-analytics/internal/services"
	"github.com/stitts-dev/shot-analytics/internal/strategy"
	"github.com/stitts-dev/shot-analytics/pkg/config"
	"github.com/stitts-dev/shot-analytics/pkg/database"
	"github.com/stitts-dev/shot-analytics/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithService("shot-analytics")
	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting shot analytics service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(db.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional: analytics are recomputed on every request without it
	var (
		cache       services.Cache
		cachePinger handlers.Pinger
	)
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	defer redisClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.ExternalAPITimeout)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unavailable, analytics caching disabled")
	} else {
		cacheService := services.NewCacheService(redisClient)
		cache, cachePinger = cacheService, cacheService
	}
	cancelPing()

	breakers := services.NewCircuitBreakerService(
		cfg.CircuitBreakerThreshold,
		cfg.ExternalAPITimeout,
		structuredLogger,
	)

	shotRepo := repository.NewShotRepository(db.DB)
	roundStore := repository.NewRoundStore(db.DB)
	courseRef := services.NewGuardedCourseReference(repository.NewCourseReference(db.DB), breakers, cfg.ExternalAPITimeout)

	aggregator := aggregate.NewHoleAggregator(shotRepo, roundStore, courseRef, aggregate.AggregatorConfig{
		DefaultPar:  cfg.DefaultHolePar,
		Concurrency: cfg.RecomputeConcurrency,
	}, structuredLogger)

	history := analytics.NewHistorySource(shotRepo, roundStore, breakers, analytics.DefaultFallbackData(),
		analytics.HistorySourceConfig{
			RoundLimit:      cfg.HistoryRoundLimit,
			Window:          cfg.HistoryWindow,
			MaxShots:        cfg.HistoryMaxShots,
			Timeout:         cfg.ExternalAPITimeout,
			FallbackOnEmpty: true,
		}, structuredLogger)

	analyticsService := services.NewAnalyticsService(history, strategy.DefaultReferenceTables(),
		analytics.DefaultTendencyThresholds(), cache, cfg.AnalyticsCacheTTL, structuredLogger)
	shotService := services.NewShotService(shotRepo, roundStore, aggregator, analyticsService, structuredLogger)

	var reconciler *aggregate.Reconciler
	if cfg.EnableReconciler {
		reconciler = aggregate.NewReconciler(shotRepo, aggregator, cfg.ReconcileLookback, structuredLogger)
		if err := reconciler.Start(cfg.ReconcileCron); err != nil {
			log.Fatalf("Failed to start aggregate reconciler: %v", err)
		}
	}

	router := api.NewRouter(api.Handlers{
		Rounds:    handlers.NewRoundHandler(shotService, structuredLogger),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, structuredLogger),
		Health:    handlers.NewHealthHandler(db, cachePinger, breakers, structuredLogger),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Shot analytics service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down shot analytics service...")

	if reconciler != nil {
		reconciler.Stop()
	}

	// The server has 5 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shot analytics service forced to shutdown: %v", err)
	}

	log.Info("Shot analytics service exited")
}
