package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/handlers"
	"github.com/cryptocallout/cryptocallout-go/internal/middleware"
	"github.com/cryptocallout/cryptocallout-go/internal/telemetry"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Handlers bundles the route handlers wired in by the server entrypoint.
type Handlers struct {
	Leaderboard *handlers.LeaderboardHandler
	Influencer  *handlers.InfluencerHandler
	ReportCard  *handlers.ReportCardHandler
	Prediction  *handlers.PredictionHandler
	Coin        *handlers.CoinHandler
	Search      *handlers.SearchHandler
	Auth        *handlers.AuthHandler
	Admin       *handlers.AdminHandler
}

// Options carries the cross-cutting route dependencies.
type Options struct {
	TracingEnabled bool
	AdminAPIKey    string
}

func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient, h Handlers, opts Options) {
	if opts.TracingEnabled {
		router.Use(otelgin.Middleware(telemetry.ServiceName))
	}

	// Health check endpoint
	router.GET("/health", healthCheck(db, redis))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/leaderboard", h.Leaderboard.GetLeaderboard)

		influencers := v1.Group("/influencers")
		{
			influencers.GET("", h.Influencer.ListInfluencers)
			influencers.GET("/:id", h.Influencer.GetInfluencer)
			influencers.GET("/:id/report-card", h.ReportCard.GetReportCard)
		}

		v1.GET("/predictions", h.Prediction.ListPredictions)

		coins := v1.Group("/coins")
		{
			coins.GET("", h.Coin.ListCoins)
			coins.GET("/:symbol", h.Coin.GetCoin)
		}

		v1.GET("/search", h.Search.Search)

		users := v1.Group("/users")
		{
			users.POST("/register", h.Auth.Register)
			users.POST("/login", h.Auth.Login)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.NewAdminMiddleware(opts.AdminAPIKey).RequireAdminAuth())
		{
			admin.POST("/predictions/:id/resolve", h.Admin.ResolvePrediction)
			admin.GET("/system", h.Admin.GetSystemStats)
			admin.POST("/cache/invalidate", h.Admin.InvalidateCache)
		}
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "ok",
				Redis:    "ok",
			},
		}

		// Check database health
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Database = "error"
			response.Status = "degraded"
		}

		// Check Redis health
		if err := redis.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
