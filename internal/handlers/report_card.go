package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/services"
	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

type ReportCardHandler struct {
	influencers *database.InfluencerRepository
	predictions *database.PredictionRepository
	scorer      *services.ScoreCalculator
	builder     *services.ReportCardBuilder
	logger      *logrus.Logger
}

func NewReportCardHandler(influencers *database.InfluencerRepository, predictions *database.PredictionRepository, scorer *services.ScoreCalculator, builder *services.ReportCardBuilder, logger *logrus.Logger) *ReportCardHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReportCardHandler{
		influencers: influencers,
		predictions: predictions,
		scorer:      scorer,
		builder:     builder,
		logger:      logger,
	}
}

// GetReportCard handles GET /api/v1/influencers/:id/report-card. The
// top_coins parameter accepts 3 or 5 coins, defaulting to 5.
func (h *ReportCardHandler) GetReportCard(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	topCoins := 5
	if raw := c.Query("top_coins"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || (parsed != 3 && parsed != 5) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top_coins must be 3 or 5"})
			return
		}
		topCoins = parsed
	}

	period, ok := normalizePeriod(c.Query("period"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, must be one of 7d, 30d, 90d, all"})
		return
	}

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
	predictions = filterByPeriod(predictions, period, time.Now().UTC())

	composite := h.scorer.Calculate(predictions).Total
	card := h.builder.Build(*influencer, predictions, composite, period, topCoins)
	c.JSON(http.StatusOK, card)
}
