package services

import (
	"math"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

const (
	// sparklineBuckets is the fixed length of the rolling-accuracy series.
	sparklineBuckets = 8

	// sparklineMinResolved is the minimum resolved sample below which the
	// series renders as a flat line.
	sparklineMinResolved = 3

	// sparklineFlatValue fills the series when there is not enough signal.
	sparklineFlatValue = 50
)

// BuildSparkline buckets the resolved predictions, in chronological order,
// into a fixed-length rolling-accuracy series for compact trend display.
// Every value is in [0,100]. With fewer than sparklineMinResolved resolved
// predictions the series is a flat line.
func BuildSparkline(predictions []models.PredictionRecord) []int {
	resolved := resolvedSortedByPredictedAt(predictions)

	series := make([]int, sparklineBuckets)
	if len(resolved) < sparklineMinResolved {
		for i := range series {
			series[i] = sparklineFlatValue
		}
		return series
	}

	chunkSize := len(resolved) / sparklineBuckets
	for i := 0; i < sparklineBuckets; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == sparklineBuckets-1 {
			// Last chunk absorbs the remainder.
			end = len(resolved)
		}
		if end > len(resolved) {
			end = len(resolved)
		}

		if start >= end {
			// Empty chunk at small n: repeat the previous value.
			if i > 0 {
				series[i] = series[i-1]
			} else {
				series[i] = sparklineFlatValue
			}
			continue
		}

		correct := 0
		for _, p := range resolved[start:end] {
			if p.Status == models.PredictionStatusCorrect {
				correct++
			}
		}
		series[i] = int(math.Round(100 * float64(correct) / float64(end-start)))
	}

	return series
}
