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
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/api"
	"github.com/cryptocallout/cryptocallout-go/internal/cache"
	"github.com/cryptocallout/cryptocallout-go/internal/config"
	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/handlers"
	"github.com/cryptocallout/cryptocallout-go/internal/logging"
	"github.com/cryptocallout/cryptocallout-go/internal/middleware"
	"github.com/cryptocallout/cryptocallout-go/internal/services"
	"github.com/cryptocallout/cryptocallout-go/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	// Initialize tracing
	shutdownTracing, err := telemetry.Init(cfg.Telemetry, cfg.Environment)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize telemetry")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.WithError(err).Warn("Failed to shut down telemetry")
		}
	}()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis
	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	// Repositories
	influencerRepo := database.NewInfluencerRepository(db.Pool)
	predictionRepo := database.NewPredictionRepository(db.Pool)
	userRepo := database.NewUserRepository(db.Pool)

	// Scoring engine and collaborators
	scorer := services.NewScoreCalculator(cfg.Scoring.Weights).
		WithRecencyWindow(cfg.Scoring.RecencyWindow())
	ranker := services.NewLeaderboardRanker(scorer, logger)
	builder := services.NewReportCardBuilder()
	leaderboardCache := cache.NewRedisLeaderboardCache(redis.Client, cfg.Scoring.CacheTTLDuration(), logger)
	notifier := services.NewNotificationService(cfg.Telegram, logger)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Security.JWTSecret)

	routeHandlers := api.Handlers{
		Leaderboard: handlers.NewLeaderboardHandler(influencerRepo, predictionRepo, ranker, leaderboardCache, logger),
		Influencer:  handlers.NewInfluencerHandler(influencerRepo, predictionRepo, scorer, logger),
		ReportCard:  handlers.NewReportCardHandler(influencerRepo, predictionRepo, scorer, builder, logger),
		Prediction:  handlers.NewPredictionHandler(predictionRepo, logger),
		Coin:        handlers.NewCoinHandler(predictionRepo, logger),
		Search:      handlers.NewSearchHandler(influencerRepo, predictionRepo, logger),
		Auth:        handlers.NewAuthHandler(userRepo, authMiddleware, cfg.Security, logger),
		Admin:       handlers.NewAdminHandler(influencerRepo, predictionRepo, scorer, leaderboardCache, notifier, logger),
	}

	// Setup Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, db, redis, routeHandlers, api.Options{
		TracingEnabled: cfg.Telemetry.Enabled,
		AdminAPIKey:    cfg.Security.AdminAPIKey,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
