package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

func TestReportCardBuilder_BestAndWorstCall(t *testing.T) {
	builder := NewReportCardBuilder().WithNowFunc(frozenClock)

	// A 20% winning move and a 5% losing move.
	win := testPrediction(models.PredictionStatusCorrect, models.DirectionBullish, 100, 120, frozenNow.AddDate(0, 0, -10))
	miss := testPrediction(models.PredictionStatusIncorrect, models.DirectionBullish, 100, 95, frozenNow.AddDate(0, 0, -5))
	predictions := []models.PredictionRecord{win, miss}

	card := builder.Build(testInfluencer("inf-1", "caller"), predictions, 62.5, "all", 0)

	require.NotNil(t, card.BestCall)
	require.NotNil(t, card.WorstCall)
	assert.Equal(t, win.ID, card.BestCall.ID)
	assert.Equal(t, miss.ID, card.WorstCall.ID)
}

func TestReportCardBuilder_MagnitudeNotSign(t *testing.T) {
	builder := NewReportCardBuilder().WithNowFunc(frozenClock)

	// A bearish win on a 40% drop beats a bullish win on a 10% rise even
	// though its signed move is negative.
	smallWin := testPrediction(models.PredictionStatusCorrect, models.DirectionBullish, 100, 110, frozenNow.AddDate(0, 0, -10))
	bigBearishWin := testPrediction(models.PredictionStatusCorrect, models.DirectionBearish, 100, 60, frozenNow.AddDate(0, 0, -8))
	predictions := []models.PredictionRecord{smallWin, bigBearishWin}

	card := builder.Build(testInfluencer("inf-1", "caller"), predictions, 70, "all", 0)

	require.NotNil(t, card.BestCall)
	assert.Equal(t, bigBearishWin.ID, card.BestCall.ID)
}

func TestReportCardBuilder_NullCalls(t *testing.T) {
	builder := NewReportCardBuilder().WithNowFunc(frozenClock)

	predictions := []models.PredictionRecord{
		testPrediction(models.PredictionStatusPending, models.DirectionBullish, 100, 0, frozenNow.AddDate(0, 0, -1)),
	}

	card := builder.Build(testInfluencer("inf-1", "caller"), predictions, 10, "all", 0)
	assert.Nil(t, card.BestCall)
	assert.Nil(t, card.WorstCall)
	assert.Equal(t, 1, card.PendingPredictions)
}

func TestReportCardBuilder_TopCoins(t *testing.T) {
	builder := NewReportCardBuilder().WithNowFunc(frozenClock)

	mk := func(symbol string, status models.PredictionStatus, daysAgo int) models.PredictionRecord {
		p := testPrediction(status, models.DirectionBullish, 100, 110, frozenNow.AddDate(0, 0, -daysAgo))
		p.CoinSymbol = symbol
		return p
	}

	predictions := []models.PredictionRecord{
		// BTC: three calls, two resolved, one correct.
		mk("BTC", models.PredictionStatusCorrect, 20),
		mk("BTC", models.PredictionStatusIncorrect, 15),
		mk("BTC", models.PredictionStatusPending, 2),
		// ETH: two calls, both correct.
		mk("ETH", models.PredictionStatusCorrect, 18),
		mk("ETH", models.PredictionStatusCorrect, 12),
		// SOL: one pending call, no resolved accuracy.
		mk("SOL", models.PredictionStatusPending, 1),
	}

	card := builder.Build(testInfluencer("inf-1", "caller"), predictions, 55, "all", 2)
	require.Len(t, card.TopCoins, 2)

	assert.Equal(t, "BTC", card.TopCoins[0].Symbol)
	assert.Equal(t, 3, card.TopCoins[0].Count)
	assert.Equal(t, 50.0, card.TopCoins[0].Accuracy)

	assert.Equal(t, "ETH", card.TopCoins[1].Symbol)
	assert.Equal(t, 2, card.TopCoins[1].Count)
	assert.Equal(t, 100.0, card.TopCoins[1].Accuracy)
}

func TestReportCardBuilder_CompositeScorePassthrough(t *testing.T) {
	builder := NewReportCardBuilder().WithNowFunc(frozenClock)

	card := builder.Build(testInfluencer("inf-1", "caller"), nil, 87.3, "30d", 0)
	assert.Equal(t, 87.3, card.CompositeScore)
	assert.Equal(t, models.TierLegendary, card.Tier.Tier)
	assert.Equal(t, "30d", card.Period)
	assert.Equal(t, frozenNow, card.GeneratedAt)
	assert.True(t, card.AvgReturn.IsZero())
}

func TestReportCardBuilder_AccuracyHistory(t *testing.T) {
	builder := NewReportCardBuilder().WithNowFunc(frozenClock)

	predictions := []models.PredictionRecord{
		// Two months back: one win, one loss.
		testPrediction(models.PredictionStatusCorrect, models.DirectionBullish, 100, 120, frozenNow.AddDate(0, -2, 0)),
		testPrediction(models.PredictionStatusIncorrect, models.DirectionBullish, 100, 90, frozenNow.AddDate(0, -2, 1)),
		// Current month: one win.
		testPrediction(models.PredictionStatusCorrect, models.DirectionBullish, 100, 130, frozenNow.AddDate(0, 0, -5)),
	}

	history := builder.BuildAccuracyHistory(predictions, 6)
	require.Len(t, history, 6)

	// Oldest first, last point is the current month.
	assert.True(t, history[0].Date.Before(history[5].Date))
	assert.Equal(t, 100.0, history[5].Accuracy)
	assert.Equal(t, 50.0, history[3].Accuracy)
	assert.Zero(t, history[0].Accuracy)
}
