package services

import (
	"math"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

// tierTable is the ordered threshold table, highest threshold first. Lookup
// returns the first entry whose MinScore <= score, so boundaries are
// inclusive of the higher tier (a score of exactly 85 is legendary).
var tierTable = []models.TierInfo{
	{Tier: models.TierLegendary, MinScore: 85, Label: "Legendary", Color: "#FFD700"},
	{Tier: models.TierExpert, MinScore: 70, Label: "Expert", Color: "#9B59B6"},
	{Tier: models.TierIntermediate, MinScore: 50, Label: "Intermediate", Color: "#3498DB"},
	{Tier: models.TierNovice, MinScore: 25, Label: "Novice", Color: "#2ECC71"},
	{Tier: models.TierUnranked, MinScore: 0, Label: "Unranked", Color: "#95A5A6"},
}

// TierForScore maps a composite score onto the tier table. NaN and negative
// scores fall through to the unranked floor.
func TierForScore(score float64) models.TierInfo {
	if !math.IsNaN(score) {
		for _, info := range tierTable {
			if score >= info.MinScore {
				return info
			}
		}
	}
	return tierTable[len(tierTable)-1]
}

// TierTable exposes a copy of the threshold table for API consumers.
func TierTable() []models.TierInfo {
	out := make([]models.TierInfo, len(tierTable))
	copy(out, tierTable)
	return out
}
