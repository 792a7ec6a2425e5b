package services

import (
	"math"
	"sort"
	"time"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

const (
	// consistencyWindowSize is the sliding window used to measure how stable
	// an influencer's hit rate is over time.
	consistencyWindowSize = 5

	// neutralConsistencyScore is returned when the resolved sample is too
	// small to measure consistency meaningfully.
	neutralConsistencyScore = 50.0

	// inactivityRecencyScore penalizes influencers with no resolved activity
	// inside the recency window.
	inactivityRecencyScore = 20.0

	// volumeSaturationCount is the prediction count at which the logarithmic
	// volume score reaches 100.
	volumeSaturationCount = 200

	// defaultRecencyWindow bounds the recency sub-score lookback.
	defaultRecencyWindow = 30 * 24 * time.Hour
)

// ScoreCalculator computes the weighted composite score for one influencer's
// prediction set. It is a pure calculator: the only external input besides
// the predictions is the wall clock, which is injectable for tests.
type ScoreCalculator struct {
	weights       models.ScoringWeights
	recencyWindow time.Duration
	nowFunc       func() time.Time
}

// NewScoreCalculator creates a calculator with the given weights. Invalid
// weights fall back to the defaults.
func NewScoreCalculator(weights models.ScoringWeights) *ScoreCalculator {
	if err := weights.Validate(); err != nil {
		weights = models.DefaultScoringWeights()
	}
	return &ScoreCalculator{
		weights:       weights,
		recencyWindow: defaultRecencyWindow,
		nowFunc:       time.Now,
	}
}

// WithNowFunc overrides the clock. Used by tests to freeze "now".
func (c *ScoreCalculator) WithNowFunc(now func() time.Time) *ScoreCalculator {
	c.nowFunc = now
	return c
}

// WithRecencyWindow overrides the recency lookback window.
func (c *ScoreCalculator) WithRecencyWindow(window time.Duration) *ScoreCalculator {
	if window > 0 {
		c.recencyWindow = window
	}
	return c
}

// Weights returns the configured scoring weights.
func (c *ScoreCalculator) Weights() models.ScoringWeights {
	return c.weights
}

// Calculate computes the full score breakdown for a prediction set. An empty
// set yields an all-zero breakdown rather than an error.
func (c *ScoreCalculator) Calculate(predictions []models.PredictionRecord) models.ScoreBreakdown {
	if len(predictions) == 0 {
		return models.ScoreBreakdown{}
	}

	accuracy := c.accuracySubScore(predictions)
	consistency := c.consistencySubScore(predictions)
	volume := c.volumeSubScore(predictions)
	recency := c.recencySubScore(predictions)

	breakdown := models.ScoreBreakdown{
		Accuracy:    accuracy,
		Consistency: consistency,
		Volume:      volume,
		Recency:     recency,

		AccuracyComponent:    accuracy * c.weights.Accuracy,
		ConsistencyComponent: consistency * c.weights.Consistency,
		VolumeComponent:      volume * c.weights.Volume,
		RecencyComponent:     recency * c.weights.Recency,
	}
	breakdown.Total = breakdown.AccuracyComponent +
		breakdown.ConsistencyComponent +
		breakdown.VolumeComponent +
		breakdown.RecencyComponent

	return breakdown
}

// accuracySubScore is the raw hit rate over the entire set. Pending
// predictions count in the denominator: open calls dilute the score until
// they resolve.
func (c *ScoreCalculator) accuracySubScore(predictions []models.PredictionRecord) float64 {
	correct := 0
	for _, p := range predictions {
		if p.Status == models.PredictionStatusCorrect {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(predictions))
}

// consistencySubScore measures how stable the hit rate stays across a
// sliding window over the resolved predictions in chronological order. Low
// variance between windows scores high; a standard deviation of 0.5 or more
// scores zero.
func (c *ScoreCalculator) consistencySubScore(predictions []models.PredictionRecord) float64 {
	resolved := resolvedSortedByPredictedAt(predictions)
	if len(resolved) < consistencyWindowSize {
		return neutralConsistencyScore
	}

	windows := make([]float64, 0, len(resolved)-consistencyWindowSize+1)
	for i := 0; i+consistencyWindowSize <= len(resolved); i++ {
		correct := 0
		for _, p := range resolved[i : i+consistencyWindowSize] {
			if p.Status == models.PredictionStatusCorrect {
				correct++
			}
		}
		windows = append(windows, float64(correct)/float64(consistencyWindowSize))
	}
	if len(windows) < 2 {
		return neutralConsistencyScore
	}

	mean := 0.0
	for _, w := range windows {
		mean += w
	}
	mean /= float64(len(windows))

	variance := 0.0
	for _, w := range windows {
		variance += (w - mean) * (w - mean)
	}
	variance /= float64(len(windows))
	stdDev := math.Sqrt(variance)

	score := (1 - 2*stdDev) * 100
	return clamp(score, 0, 100)
}

// volumeSubScore rewards prediction volume on a log scale, saturating at
// volumeSaturationCount total predictions.
func (c *ScoreCalculator) volumeSubScore(predictions []models.PredictionRecord) float64 {
	total := float64(len(predictions))
	score := 100 * math.Log10(total+1) / math.Log10(volumeSaturationCount+1)
	return math.Min(100, score)
}

// recencySubScore is the hit rate over resolved predictions whose effective
// time falls inside the recency window. No recent resolved activity returns
// the inactivity penalty.
func (c *ScoreCalculator) recencySubScore(predictions []models.PredictionRecord) float64 {
	cutoff := c.nowFunc().Add(-c.recencyWindow)

	recent := 0
	recentCorrect := 0
	for i := range predictions {
		p := &predictions[i]
		if !p.IsResolved() {
			continue
		}
		if p.EffectiveTime().Before(cutoff) {
			continue
		}
		recent++
		if p.Status == models.PredictionStatusCorrect {
			recentCorrect++
		}
	}

	if recent == 0 {
		return inactivityRecencyScore
	}
	return 100 * float64(recentCorrect) / float64(recent)
}

// resolvedSortedByPredictedAt returns the resolved subset in ascending
// prediction-time order.
func resolvedSortedByPredictedAt(predictions []models.PredictionRecord) []models.PredictionRecord {
	resolved := make([]models.PredictionRecord, 0, len(predictions))
	for _, p := range predictions {
		if p.IsResolved() {
			resolved = append(resolved, p)
		}
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].PredictedAt.Before(resolved[j].PredictedAt)
	})
	return resolved
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
