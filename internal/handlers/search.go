package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/width"

	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

const maxSearchResults = 20

var searchFolder = cases.Fold()

// foldString normalizes a string for matching: case folding plus width
// folding so full-width input matches ASCII symbols and handles.
func foldString(s string) string {
	return width.Fold.String(searchFolder.String(s))
}

type SearchHandler struct {
	influencers *database.InfluencerRepository
	predictions *database.PredictionRepository
	logger      *logrus.Logger
}

func NewSearchHandler(influencers *database.InfluencerRepository, predictions *database.PredictionRepository, logger *logrus.Logger) *SearchHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SearchHandler{
		influencers: influencers,
		predictions: predictions,
		logger:      logger,
	}
}

// Search handles GET /api/v1/search. Matches influencer handles and display
// names plus coin symbols by folded substring.
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}
	needle := foldString(query)
	ctx := c.Request.Context()

	influencers, err := h.influencers.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list influencers for search")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	predictions, err := h.predictions.ListAll(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions for search")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	results := make([]models.SearchResult, 0, maxSearchResults)
	for i := range influencers {
		if len(results) >= maxSearchResults {
			break
		}
		inf := influencers[i]
		if strings.Contains(foldString(inf.Handle), needle) ||
			strings.Contains(foldString(inf.DisplayName), needle) {
			results = append(results, models.SearchResult{Type: "influencer", Influencer: &inf})
		}
	}

	summaries := summarizeCoins(predictions)
	for i := range summaries {
		if len(results) >= maxSearchResults {
			break
		}
		coin := summaries[i]
		if strings.Contains(foldString(coin.Symbol), needle) {
			results = append(results, models.SearchResult{Type: "coin", Coin: &coin})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}
