package services

import (
	"sort"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

// CalculateStreak returns the signed run of consecutive identical outcomes
// counting backward from the most recent resolved prediction: positive for
// wins, negative for losses, zero when nothing has resolved. The streak
// breaks at the first outcome change walking backward in time.
func CalculateStreak(predictions []models.PredictionRecord) int {
	resolved := make([]models.PredictionRecord, 0, len(predictions))
	for _, p := range predictions {
		if p.IsResolved() {
			resolved = append(resolved, p)
		}
	}
	if len(resolved) == 0 {
		return 0
	}

	// Most recent first.
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].EffectiveTime().After(resolved[j].EffectiveTime())
	})

	streakStatus := resolved[0].Status
	count := 0
	for _, p := range resolved {
		if p.Status != streakStatus {
			break
		}
		count++
	}

	if streakStatus == models.PredictionStatusIncorrect {
		return -count
	}
	return count
}

// TrendForStreak maps a streak sign onto the compact trend indicator.
func TrendForStreak(streak int) models.Trend {
	switch {
	case streak > 0:
		return models.TrendUp
	case streak < 0:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}
