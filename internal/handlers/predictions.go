package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

type PredictionHandler struct {
	predictions *database.PredictionRepository
	logger      *logrus.Logger
}

func NewPredictionHandler(predictions *database.PredictionRepository, logger *logrus.Logger) *PredictionHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PredictionHandler{predictions: predictions, logger: logger}
}

// ListPredictions handles GET /api/v1/predictions with optional
// influencer_id, coin_symbol, status and date-range filters.
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	var filter models.PredictionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if filter.Status != "" {
		switch filter.Status {
		case models.PredictionStatusPending, models.PredictionStatusCorrect, models.PredictionStatusIncorrect:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status, must be one of pending, correct, incorrect"})
			return
		}
	}
	filter.CoinSymbol = strings.ToUpper(strings.TrimSpace(filter.CoinSymbol))
	filter.Page, filter.Limit = normalizePagination(filter.Page, filter.Limit)

	predictions, total, err := h.predictions.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": predictions,
		"count":       len(predictions),
		"total_count": total,
		"page":        filter.Page,
		"limit":       filter.Limit,
		"timestamp":   time.Now().UTC(),
	})
}
