package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopCoin is one row of the per-coin aggregation on a report card. Count
// covers every prediction on the coin including pending ones; Accuracy is
// computed over resolved predictions only, rounded to one decimal.
type TopCoin struct {
	Symbol   string  `json:"symbol"`
	Count    int     `json:"count"`
	Accuracy float64 `json:"accuracy"`
}

// AccuracyPoint is one point of the report-card accuracy time series.
type AccuracyPoint struct {
	Date     time.Time `json:"date"`
	Accuracy float64   `json:"accuracy"`
}

// ReportCard is a point-in-time performance summary for one influencer.
type ReportCard struct {
	Influencer           Influencer        `json:"influencer"`
	Period               string            `json:"period"`
	TotalPredictions     int               `json:"total_predictions"`
	CorrectPredictions   int               `json:"correct_predictions"`
	IncorrectPredictions int               `json:"incorrect_predictions"`
	PendingPredictions   int               `json:"pending_predictions"`
	CompositeScore       float64           `json:"composite_score"`
	Tier                 TierInfo          `json:"tier"`
	AvgReturn            decimal.Decimal   `json:"avg_return"`
	BestCall             *PredictionRecord `json:"best_call,omitempty"`
	WorstCall            *PredictionRecord `json:"worst_call,omitempty"`
	TopCoins             []TopCoin         `json:"top_coins"`
	AccuracyHistory      []AccuracyPoint   `json:"accuracy_history"`
	GeneratedAt          time.Time         `json:"generated_at"`
}
