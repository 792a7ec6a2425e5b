package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/cache"
	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
	"github.com/cryptocallout/cryptocallout-go/internal/services"
	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

type AdminHandler struct {
	influencers *database.InfluencerRepository
	predictions *database.PredictionRepository
	scorer      *services.ScoreCalculator
	cache       *cache.RedisLeaderboardCache
	notifier    *services.NotificationService
	logger      *logrus.Logger
	startTime   time.Time
}

func NewAdminHandler(influencers *database.InfluencerRepository, predictions *database.PredictionRepository, scorer *services.ScoreCalculator, leaderboardCache *cache.RedisLeaderboardCache, notifier *services.NotificationService, logger *logrus.Logger) *AdminHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AdminHandler{
		influencers: influencers,
		predictions: predictions,
		scorer:      scorer,
		cache:       leaderboardCache,
		notifier:    notifier,
		logger:      logger,
		startTime:   time.Now().UTC(),
	}
}

// ResolveRequest is the body of POST /api/v1/admin/predictions/:id/resolve.
type ResolveRequest struct {
	Status            models.PredictionStatus `json:"status" binding:"required"`
	PriceAtResolution decimal.Decimal         `json:"price_at_resolution" binding:"required"`
	ResolvedAt        *time.Time              `json:"resolved_at"`
}

// ResolvePrediction marks a pending prediction correct or incorrect. The
// transition is terminal; resolving an already-resolved prediction returns
// 409. On success the leaderboard cache is invalidated and notable streak or
// tier changes are announced.
func (h *AdminHandler) ResolvePrediction(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Status != models.PredictionStatusCorrect && req.Status != models.PredictionStatusIncorrect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be correct or incorrect"})
		return
	}
	if req.PriceAtResolution.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_at_resolution must be positive"})
		return
	}
	resolvedAt := time.Now().UTC()
	if req.ResolvedAt != nil {
		resolvedAt = req.ResolvedAt.UTC()
	}

	existing, err := h.predictions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
			return
		}
		h.logger.WithError(err).WithField("prediction_id", id).Error("Failed to load prediction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve prediction"})
		return
	}

	var previousTier models.Tier
	if h.notifier != nil && h.notifier.Enabled() {
		previousTier = h.influencerTier(ctx, existing.InfluencerID)
	}

	resolved, err := h.predictions.Resolve(ctx, id, req.Status, req.PriceAtResolution, resolvedAt)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// The prediction exists but was not pending anymore.
			c.JSON(http.StatusConflict, gin.H{"error": "Prediction is already resolved"})
			return
		}
		h.logger.WithError(err).WithField("prediction_id", id).Error("Failed to resolve prediction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve prediction"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.WithError(err).Warn("Failed to invalidate leaderboard cache")
		}
	}

	h.announceResolution(ctx, *resolved, previousTier)

	h.logger.WithFields(logrus.Fields{
		"prediction_id": id,
		"influencer_id": resolved.InfluencerID,
		"status":        resolved.Status,
	}).Info("Prediction resolved")
	c.JSON(http.StatusOK, resolved)
}

func (h *AdminHandler) influencerTier(ctx context.Context, influencerID string) models.Tier {
	predictions, err := h.predictions.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return models.TierUnranked
	}
	return services.TierForScore(h.scorer.Calculate(predictions).Total).Tier
}

// announceResolution recomputes the influencer's streak and tier after a
// resolution and forwards them to the notifier.
func (h *AdminHandler) announceResolution(ctx context.Context, resolved models.PredictionRecord, previousTier models.Tier) {
	if h.notifier == nil || !h.notifier.Enabled() {
		return
	}

	influencer, err := h.influencers.Get(ctx, resolved.InfluencerID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load influencer for notification")
		return
	}
	predictions, err := h.predictions.ListByInfluencer(ctx, resolved.InfluencerID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load predictions for notification")
		return
	}

	streak := services.CalculateStreak(predictions)
	currentTier := services.TierForScore(h.scorer.Calculate(predictions).Total).Tier
	h.notifier.NotifyResolution(ctx, *influencer, resolved, streak, previousTier, currentTier)
}

// GetSystemStats handles GET /api/v1/admin/system.
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := gin.H{
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"timestamp":      time.Now().UTC(),
	}

	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		stats["cpu_percent"] = cpuPercent[0]
	}
	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats["memory"] = gin.H{
			"total_bytes": memInfo.Total,
			"used_bytes":  memInfo.Used,
			"percent":     memInfo.UsedPercent,
		}
	}
	if h.cache != nil {
		stats["leaderboard_cache"] = h.cache.Stats()
	}

	c.JSON(http.StatusOK, stats)
}

// InvalidateCache handles POST /api/v1/admin/cache/invalidate.
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Cache is not configured"})
		return
	}
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to invalidate leaderboard cache")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invalidate cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leaderboard cache invalidated"})
}
