package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
	"github.com/cryptocallout/cryptocallout-go/internal/services"
	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

type InfluencerHandler struct {
	influencers *database.InfluencerRepository
	predictions *database.PredictionRepository
	scorer      *services.ScoreCalculator
	logger      *logrus.Logger
}

func NewInfluencerHandler(influencers *database.InfluencerRepository, predictions *database.PredictionRepository, scorer *services.ScoreCalculator, logger *logrus.Logger) *InfluencerHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InfluencerHandler{
		influencers: influencers,
		predictions: predictions,
		scorer:      scorer,
		logger:      logger,
	}
}

// ListInfluencers handles GET /api/v1/influencers.
func (h *InfluencerHandler) ListInfluencers(c *gin.Context) {
	influencers, err := h.influencers.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list influencers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load influencers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"influencers": influencers,
		"count":       len(influencers),
		"timestamp":   time.Now().UTC(),
	})
}

// GetInfluencer handles GET /api/v1/influencers/:id and returns the
// influencer plus their computed score breakdown, tier and streak.
func (h *InfluencerHandler) GetInfluencer(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	influencer, err := h.influencers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Influencer not found"})
			return
		}
		h.logger.WithError(err).WithField("influencer_id", id).Error("Failed to get influencer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load influencer"})
		return
	}

	predictions, err := h.predictions.ListByInfluencer(ctx, influencer.ID)
	if err != nil {
		h.logger.WithError(err).WithField("influencer_id", id).Error("Failed to load predictions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load predictions"})
		return
	}

	pending := 0
	for _, p := range predictions {
		if !p.IsResolved() {
			pending++
		}
	}

	breakdown := h.scorer.Calculate(predictions)
	c.JSON(http.StatusOK, models.InfluencerDetail{
		Influencer:       *influencer,
		Breakdown:        breakdown,
		Tier:             services.TierForScore(breakdown.Total),
		TotalPredictions: len(predictions),
		PendingCount:     pending,
		Streak:           services.CalculateStreak(predictions),
	})
}
