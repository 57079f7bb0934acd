package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dealhawk/deal-service/config"
	_ "github.com/dealhawk/deal-service/docs"
	"github.com/dealhawk/deal-service/internal/feed"
	"github.com/dealhawk/deal-service/internal/handlers"
	"github.com/dealhawk/deal-service/internal/metadata"
	"github.com/dealhawk/deal-service/internal/middleware"
	"github.com/dealhawk/deal-service/internal/rewrite"
	"github.com/dealhawk/deal-service/internal/search"
	"github.com/dealhawk/deal-service/internal/telemetry"
)

// @title Deal Service API
// @version 1.0
// @description Incremental aggregation service for deal search results.
// @BasePath /
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting deal service")

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	searcher := search.NewClient(search.Config{
		BaseURL:           cfg.Endpoints.SearchBaseURL,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoff:    time.Duration(cfg.RateLimit.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:        time.Duration(cfg.RateLimit.MaxBackoffMs) * time.Millisecond,
		Timeout:           cfg.Server.ReadTimeout,
	}, *logger)

	ctrl := feed.New(searcher, feed.Config{
		PageSize:       cfg.Feed.PageSize,
		IdentityKey:    feed.IdentityKey(cfg.Feed.IdentityKey),
		MinDiscount:    cfg.Feed.MinDiscount,
		DebugFlag:      cfg.Endpoints.DebugFlag,
		HighlightDwell: cfg.Feed.HighlightDwell,
		Seeds:          cfg.Feed.Seeds,
		SeedDelay:      cfg.Feed.SeedDelay,
	}, *logger)
	defer ctrl.Dispose()

	rewriter := rewrite.NewClient(rewrite.Config{BaseURL: cfg.Endpoints.RewriteBaseURL}, *logger)
	metaClient := metadata.NewClient(cfg.Endpoints.MetadataTimeout, *logger)

	go ctrl.Bootstrap(ctx)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	feedHandler := handlers.NewFeedHandler(ctrl, rewriter, cfg.Feed.MaxResults, *logger)
	metaHandler := handlers.NewMetadataHandler(metaClient, *logger)

	api := router.Group("/api")
	api.Use(middleware.APITokenMiddleware(cfg.Server.APIToken))
	api.Use(middleware.RateLimitMiddleware())
	{
		feedGroup := api.Group("/feed")
		{
			feedGroup.POST("/search", feedHandler.StartSearch)
			feedGroup.POST("/next", feedHandler.FetchNext)
			feedGroup.GET("/deals", feedHandler.ListDeals)
			feedGroup.PATCH("/deals/:localId/rewrite", feedHandler.RewriteDeal)
			feedGroup.GET("/status", feedHandler.GetStatus)
			feedGroup.POST("/key", feedHandler.SetIdentityKey)
		}

		api.GET("/metadata", metaHandler.GetMetadata)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "deal-service").Logger()
	return &logger
}
