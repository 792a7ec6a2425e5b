package services

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

const defaultTopCoins = 5

// ReportCardBuilder assembles the point-in-time performance summary for a
// single influencer.
type ReportCardBuilder struct {
	nowFunc func() time.Time
}

// NewReportCardBuilder creates a builder with the real clock.
func NewReportCardBuilder() *ReportCardBuilder {
	return &ReportCardBuilder{nowFunc: time.Now}
}

// WithNowFunc overrides the clock. Used by tests.
func (b *ReportCardBuilder) WithNowFunc(now func() time.Time) *ReportCardBuilder {
	b.nowFunc = now
	return b
}

// Build assembles the report card. compositeScore is the influencer's
// already-computed composite score; the builder does not recompute it.
// topN bounds the top-coin list; values < 1 fall back to the default of 5.
func (b *ReportCardBuilder) Build(influencer models.Influencer, predictions []models.PredictionRecord, compositeScore float64, period string, topN int) models.ReportCard {
	if topN < 1 {
		topN = defaultTopCoins
	}

	correct := 0
	incorrect := 0
	pending := 0
	for _, p := range predictions {
		switch p.Status {
		case models.PredictionStatusCorrect:
			correct++
		case models.PredictionStatusIncorrect:
			incorrect++
		default:
			pending++
		}
	}

	return models.ReportCard{
		Influencer:           influencer,
		Period:               period,
		TotalPredictions:     len(predictions),
		CorrectPredictions:   correct,
		IncorrectPredictions: incorrect,
		PendingPredictions:   pending,
		CompositeScore:       compositeScore,
		Tier:                 TierForScore(compositeScore),
		AvgReturn:            CalculateAverageReturn(predictions),
		BestCall:             bestCall(predictions),
		WorstCall:            worstCall(predictions),
		TopCoins:             topCoins(predictions, topN),
		AccuracyHistory:      b.BuildAccuracyHistory(predictions, 6),
		GeneratedAt:          b.nowFunc(),
	}
}

// bestCall returns the correct prediction with the largest magnitude move
// relative to the entry price, or nil when no correct calls exist. Magnitude
// is unsigned: a huge bearish win counts the same as a huge bullish win.
func bestCall(predictions []models.PredictionRecord) *models.PredictionRecord {
	return largestMove(predictions, models.PredictionStatusCorrect)
}

// worstCall is the symmetric reduction over incorrect predictions: the
// largest-magnitude miss.
func worstCall(predictions []models.PredictionRecord) *models.PredictionRecord {
	return largestMove(predictions, models.PredictionStatusIncorrect)
}

func largestMove(predictions []models.PredictionRecord, status models.PredictionStatus) *models.PredictionRecord {
	var best *models.PredictionRecord
	bestMagnitude := decimal.Zero

	for i := range predictions {
		p := &predictions[i]
		if p.Status != status || p.PriceAtResolution == nil {
			continue
		}
		if p.PriceAtPrediction.IsZero() {
			continue
		}

		magnitude := p.PriceAtResolution.Sub(p.PriceAtPrediction).
			Div(p.PriceAtPrediction).
			Abs()
		if best == nil || magnitude.GreaterThan(bestMagnitude) {
			best = p
			bestMagnitude = magnitude
		}
	}

	return best
}

// topCoins groups every prediction (pending included) by coin, ranks groups
// by prediction count descending and keeps the top n. Group accuracy is
// computed over resolved predictions only, rounded to one decimal.
func topCoins(predictions []models.PredictionRecord, n int) []models.TopCoin {
	type coinAgg struct {
		count    int
		resolved int
		correct  int
	}
	groups := make(map[string]*coinAgg)
	for _, p := range predictions {
		agg, ok := groups[p.CoinSymbol]
		if !ok {
			agg = &coinAgg{}
			groups[p.CoinSymbol] = agg
		}
		agg.count++
		if p.IsResolved() {
			agg.resolved++
			if p.Status == models.PredictionStatusCorrect {
				agg.correct++
			}
		}
	}

	coins := make([]models.TopCoin, 0, len(groups))
	for symbol, agg := range groups {
		accuracy := 0.0
		if agg.resolved > 0 {
			accuracy = math.Round(1000*float64(agg.correct)/float64(agg.resolved)) / 10
		}
		coins = append(coins, models.TopCoin{
			Symbol:   symbol,
			Count:    agg.count,
			Accuracy: accuracy,
		})
	}

	sort.Slice(coins, func(i, j int) bool {
		if coins[i].Count != coins[j].Count {
			return coins[i].Count > coins[j].Count
		}
		return coins[i].Symbol < coins[j].Symbol
	})

	if len(coins) > n {
		coins = coins[:n]
	}
	return coins
}

// BuildAccuracyHistory produces a month-bucketed hit-rate series over the
// trailing months, oldest first. Months without resolved predictions carry
// a zero-accuracy point so the series length is stable.
func (b *ReportCardBuilder) BuildAccuracyHistory(predictions []models.PredictionRecord, months int) []models.AccuracyPoint {
	if months < 1 {
		months = 6
	}

	now := b.nowFunc()
	history := make([]models.AccuracyPoint, 0, months)

	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		resolved := 0
		correct := 0
		for j := range predictions {
			p := &predictions[j]
			if !p.IsResolved() {
				continue
			}
			t := p.EffectiveTime()
			if t.Before(monthStart) || !t.Before(monthEnd) {
				continue
			}
			resolved++
			if p.Status == models.PredictionStatusCorrect {
				correct++
			}
		}

		accuracy := 0.0
		if resolved > 0 {
			accuracy = math.Round(1000*float64(correct)/float64(resolved)) / 10
		}
		history = append(history, models.AccuracyPoint{
			Date:     monthStart,
			Accuracy: accuracy,
		})
	}

	return history
}
