package services

import (
	"github.com/shopspring/decimal"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

var hundred = decimal.NewFromInt(100)

// CalculateAverageReturn computes the mean direction-adjusted percent return
// across resolved predictions. A bearish call on a falling price scores
// positive, symmetric to a bullish call on a rising price; this measures
// directional correctness, not trading P&L. Returns zero for an empty or
// all-pending set.
func CalculateAverageReturn(predictions []models.PredictionRecord) decimal.Decimal {
	sum := decimal.Zero
	count := 0

	for i := range predictions {
		p := &predictions[i]
		if !p.IsResolved() || p.PriceAtResolution == nil {
			continue
		}
		if p.PriceAtPrediction.IsZero() {
			continue
		}

		rawReturn := p.PriceAtResolution.Sub(p.PriceAtPrediction).
			Div(p.PriceAtPrediction).
			Mul(hundred)
		if p.Direction == models.DirectionBearish {
			rawReturn = rawReturn.Neg()
		}

		sum = sum.Add(rawReturn)
		count++
	}

	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}
