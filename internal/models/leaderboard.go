package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trend summarizes the direction of an influencer's current streak.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// LeaderboardEntry is one ranked row of the leaderboard. Ranks are dense
// (1..N) and recomputed on every build; they are never stored.
//
// CompositeScore holds the full weighted score, not the raw correct/total
// ratio; the raw ratio lives in Breakdown.Accuracy.
type LeaderboardEntry struct {
	Rank               int             `json:"rank"`
	Influencer         Influencer      `json:"influencer"`
	CompositeScore     float64         `json:"composite_score"`
	Breakdown          ScoreBreakdown  `json:"breakdown"`
	Tier               TierInfo        `json:"tier"`
	TotalPredictions   int             `json:"total_predictions"`
	CorrectPredictions int             `json:"correct_predictions"`
	AvgReturn          decimal.Decimal `json:"avg_return"`
	Streak             int             `json:"streak"`
	Trend              Trend           `json:"trend"`
	SparklineData      []int           `json:"sparkline_data"`
}

// LeaderboardRequest carries the leaderboard query parameters.
type LeaderboardRequest struct {
	MinPredictions int    `json:"min_predictions" form:"min_predictions"`
	Period         string `json:"period" form:"period"`
	Query          string `json:"q" form:"q"`
	Page           int    `json:"page" form:"page"`
	Limit          int    `json:"limit" form:"limit"`
}

// LeaderboardResponse is the list-endpoint payload.
type LeaderboardResponse struct {
	Entries    []LeaderboardEntry `json:"entries"`
	Count      int                `json:"count"`
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Period     string             `json:"period"`
	Timestamp  time.Time          `json:"timestamp"`
}
