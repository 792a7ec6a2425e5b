package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/cache"
	"github.com/cryptocallout/cryptocallout-go/internal/database"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
	"github.com/cryptocallout/cryptocallout-go/internal/services"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

// periodWindows maps the accepted period query values to their lookback
// durations. "all" is accepted separately and means no cutoff.
var periodWindows = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

type LeaderboardHandler struct {
	influencers *database.InfluencerRepository
	predictions *database.PredictionRepository
	ranker      *services.LeaderboardRanker
	cache       *cache.RedisLeaderboardCache
	logger      *logrus.Logger
}

func NewLeaderboardHandler(influencers *database.InfluencerRepository, predictions *database.PredictionRepository, ranker *services.LeaderboardRanker, leaderboardCache *cache.RedisLeaderboardCache, logger *logrus.Logger) *LeaderboardHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LeaderboardHandler{
		influencers: influencers,
		predictions: predictions,
		ranker:      ranker,
		cache:       leaderboardCache,
		logger:      logger,
	}
}

// GetLeaderboard handles GET /api/v1/leaderboard. Ranking always runs over
// the full population for the requested period; min_predictions and q are
// applied after ranking and the survivors are densely re-ranked, so a filtered
// view never changes anyone's underlying position.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var req models.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	period, ok := normalizePeriod(req.Period)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, must be one of 7d, 30d, 90d, all"})
		return
	}
	if req.MinPredictions < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_predictions must not be negative"})
		return
	}
	page, limit := normalizePagination(req.Page, req.Limit)

	entries, err := h.rankedEntries(c, period)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build leaderboard"})
		return
	}

	filtered := entries
	if req.MinPredictions > 0 || req.Query != "" {
		filtered = filterEntries(entries, req.MinPredictions, req.Query)
		filtered = services.Rerank(filtered)
	}

	pageEntries := paginateEntries(filtered, page, limit)

	c.JSON(http.StatusOK, models.LeaderboardResponse{
		Entries:    pageEntries,
		Count:      len(pageEntries),
		TotalCount: len(filtered),
		Page:       page,
		Limit:      limit,
		Period:     period,
		Timestamp:  time.Now().UTC(),
	})
}

// rankedEntries returns the full ranked leaderboard for a period, from cache
// when possible.
func (h *LeaderboardHandler) rankedEntries(c *gin.Context, period string) ([]models.LeaderboardEntry, error) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if entries, ok := h.cache.Get(ctx, period); ok {
			return entries, nil
		}
	}

	influencers, err := h.influencers.List(ctx)
	if err != nil {
		return nil, err
	}
	predictions, err := h.predictions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	predictions = filterByPeriod(predictions, period, time.Now().UTC())

	entries := h.ranker.Rank(influencers, predictions)
	if h.cache != nil {
		h.cache.Set(ctx, period, entries)
	}
	return entries, nil
}

func normalizePeriod(period string) (string, bool) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" || period == "all" {
		return "all", true
	}
	if _, ok := periodWindows[period]; ok {
		return period, true
	}
	return "", false
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// filterByPeriod keeps predictions whose effective time falls inside the
// period's lookback window. "all" keeps everything.
func filterByPeriod(predictions []models.PredictionRecord, period string, now time.Time) []models.PredictionRecord {
	window, ok := periodWindows[period]
	if !ok {
		return predictions
	}
	cutoff := now.Add(-window)

	filtered := make([]models.PredictionRecord, 0, len(predictions))
	for _, p := range predictions {
		if !p.EffectiveTime().Before(cutoff) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func filterEntries(entries []models.LeaderboardEntry, minPredictions int, query string) []models.LeaderboardEntry {
	needle := foldString(query)

	filtered := make([]models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e.TotalPredictions < minPredictions {
			continue
		}
		if needle != "" &&
			!strings.Contains(foldString(e.Influencer.Handle), needle) &&
			!strings.Contains(foldString(e.Influencer.DisplayName), needle) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func paginateEntries(entries []models.LeaderboardEntry, page, limit int) []models.LeaderboardEntry {
	start := (page - 1) * limit
	if start >= len(entries) {
		return []models.LeaderboardEntry{}
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
