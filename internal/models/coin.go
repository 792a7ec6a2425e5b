package models

// CoinSummary is the community-wide aggregate for one coin: how many calls
// were made on it and how accurate the resolved ones were.
type CoinSummary struct {
	Symbol            string  `json:"symbol"`
	TotalPredictions  int     `json:"total_predictions"`
	ResolvedCount     int     `json:"resolved_count"`
	CorrectCount      int     `json:"correct_count"`
	PendingCount      int     `json:"pending_count"`
	BullishCount      int     `json:"bullish_count"`
	BearishCount      int     `json:"bearish_count"`
	CommunityAccuracy float64 `json:"community_accuracy"`
	InfluencerCount   int     `json:"influencer_count"`
}

// SearchResult is one hit of the cross-entity search endpoint.
type SearchResult struct {
	Type       string       `json:"type"`
	Influencer *Influencer  `json:"influencer,omitempty"`
	Coin       *CoinSummary `json:"coin,omitempty"`
}
