package models

import (
	"fmt"
)

// ScoringWeights configures the relative weight of each sub-score in the
// composite score. Weights are expected to sum to 1.0.
type ScoringWeights struct {
	Accuracy    float64 `json:"accuracy" mapstructure:"accuracy"`
	Consistency float64 `json:"consistency" mapstructure:"consistency"`
	Volume      float64 `json:"volume" mapstructure:"volume"`
	Recency     float64 `json:"recency" mapstructure:"recency"`
}

// DefaultScoringWeights returns the canonical product weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Accuracy:    0.5,
		Consistency: 0.2,
		Volume:      0.15,
		Recency:     0.15,
	}
}

// Validate checks that all weights are non-negative and sum to 1.0, allowing
// a small floating point tolerance.
func (w ScoringWeights) Validate() error {
	if w.Accuracy < 0 || w.Consistency < 0 || w.Volume < 0 || w.Recency < 0 {
		return fmt.Errorf("scoring weights must be non-negative: %+v", w)
	}
	sum := w.Accuracy + w.Consistency + w.Volume + w.Recency
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// ScoreBreakdown is the composite score of one influencer together with the
// raw sub-scores (0-100) and their weighted contributions. Total is always
// the exact sum of the four components.
type ScoreBreakdown struct {
	Total float64 `json:"total"`

	Accuracy    float64 `json:"accuracy"`
	Consistency float64 `json:"consistency"`
	Volume      float64 `json:"volume"`
	Recency     float64 `json:"recency"`

	AccuracyComponent    float64 `json:"accuracy_component"`
	ConsistencyComponent float64 `json:"consistency_component"`
	VolumeComponent      float64 `json:"volume_component"`
	RecencyComponent     float64 `json:"recency_component"`
}

// Tier is a discrete classification bucket derived from the composite score.
type Tier string

const (
	TierLegendary    Tier = "legendary"
	TierExpert       Tier = "expert"
	TierIntermediate Tier = "intermediate"
	TierNovice       Tier = "novice"
	TierUnranked     Tier = "unranked"
)

// TierInfo is one row of the tier threshold table.
type TierInfo struct {
	Tier     Tier    `json:"tier"`
	MinScore float64 `json:"min_score"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
}
