package services

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

// LeaderboardRanker builds the ranked leaderboard from an influencer list
// and the full prediction snapshot. Pure computation: both inputs are
// read-only and the output is rebuilt on every call.
type LeaderboardRanker struct {
	scorer *ScoreCalculator
	logger *logrus.Logger
}

// NewLeaderboardRanker creates a ranker around the given score calculator.
func NewLeaderboardRanker(scorer *ScoreCalculator, logger *logrus.Logger) *LeaderboardRanker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LeaderboardRanker{
		scorer: scorer,
		logger: logger,
	}
}

// Rank builds one entry per influencer, sorts descending by composite score
// and assigns dense 1..N ranks.
func (r *LeaderboardRanker) Rank(influencers []models.Influencer, predictions []models.PredictionRecord) []models.LeaderboardEntry {
	byInfluencer := make(map[string][]models.PredictionRecord, len(influencers))
	for _, p := range predictions {
		byInfluencer[p.InfluencerID] = append(byInfluencer[p.InfluencerID], p)
	}

	entries := make([]models.LeaderboardEntry, 0, len(influencers))
	for _, inf := range influencers {
		entries = append(entries, r.buildEntry(inf, byInfluencer[inf.ID]))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompositeScore > entries[j].CompositeScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	r.logger.WithFields(logrus.Fields{
		"component":   "leaderboard",
		"influencers": len(entries),
		"predictions": len(predictions),
	}).Debug("Leaderboard ranked")

	return entries
}

// Rerank reassigns dense 1..N ranks in place, preserving the current order.
// Used after filters remove entries from an already ranked board.
func Rerank(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (r *LeaderboardRanker) buildEntry(inf models.Influencer, predictions []models.PredictionRecord) models.LeaderboardEntry {
	breakdown := r.scorer.Calculate(predictions)
	streak := CalculateStreak(predictions)

	resolved := 0
	correct := 0
	for _, p := range predictions {
		if !p.IsResolved() {
			continue
		}
		resolved++
		if p.Status == models.PredictionStatusCorrect {
			correct++
		}
	}

	return models.LeaderboardEntry{
		Influencer:         inf,
		CompositeScore:     breakdown.Total,
		Breakdown:          breakdown,
		Tier:               TierForScore(breakdown.Total),
		TotalPredictions:   resolved,
		CorrectPredictions: correct,
		AvgReturn:          CalculateAverageReturn(predictions),
		Streak:             streak,
		Trend:              TrendForStreak(streak),
		SparklineData:      BuildSparkline(predictions),
	}
}
