package handlers

import (
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

type CoinHandler struct {
	predictions *database.PredictionRepository
	logger      *logrus.Logger
}

func NewCoinHandler(predictions *database.PredictionRepository, logger *logrus.Logger) *CoinHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CoinHandler{predictions: predictions, logger: logger}
}

// ListCoins handles GET /api/v1/coins.
func (h *CoinHandler) ListCoins(c *gin.Context) {
	predictions, err := h.predictions.ListAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions for coin summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load coins"})
		return
	}

	summaries := summarizeCoins(predictions)
	c.JSON(http.StatusOK, gin.H{
		"coins":     summaries,
		"count":     len(summaries),
		"timestamp": time.Now().UTC(),
	})
}

// GetCoin handles GET /api/v1/coins/:symbol.
func (h *CoinHandler) GetCoin(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coin symbol is required"})
		return
	}

	predictions, err := h.predictions.ListAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions for coin summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load coin"})
		return
	}

	for _, summary := range summarizeCoins(predictions) {
		if summary.Symbol == symbol {
			c.JSON(http.StatusOK, summary)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Coin not found"})
}

// summarizeCoins aggregates predictions per coin. Community accuracy counts
// resolved predictions only and is rounded to one decimal place; results are
// sorted by total prediction count descending, symbol ascending on ties.
func summarizeCoins(predictions []models.PredictionRecord) []models.CoinSummary {
	byCoin := make(map[string]*models.CoinSummary)
	callers := make(map[string]map[string]struct{})

	for _, p := range predictions {
		summary, ok := byCoin[p.CoinSymbol]
		if !ok {
			summary = &models.CoinSummary{Symbol: p.CoinSymbol}
			byCoin[p.CoinSymbol] = summary
			callers[p.CoinSymbol] = make(map[string]struct{})
		}
		summary.TotalPredictions++
		callers[p.CoinSymbol][p.InfluencerID] = struct{}{}

		switch p.Direction {
		case models.DirectionBullish:
			summary.BullishCount++
		case models.DirectionBearish:
			summary.BearishCount++
		}

		switch p.Status {
		case models.PredictionStatusCorrect:
			summary.ResolvedCount++
			summary.CorrectCount++
		case models.PredictionStatusIncorrect:
			summary.ResolvedCount++
		default:
			summary.PendingCount++
		}
	}

	summaries := make([]models.CoinSummary, 0, len(byCoin))
	for symbol, summary := range byCoin {
		summary.InfluencerCount = len(callers[symbol])
		if summary.ResolvedCount > 0 {
			summary.CommunityAccuracy = math.Round(1000*float64(summary.CorrectCount)/float64(summary.ResolvedCount)) / 10
		}
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalPredictions != summaries[j].TotalPredictions {
			return summaries[i].TotalPredictions > summaries[j].TotalPredictions
		}
		return summaries[i].Symbol < summaries[j].Symbol
	})
	return summaries
}
