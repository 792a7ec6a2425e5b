package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cryptocallout/cryptocallout-go/internal/utils"
)

// PredictionStatus is the lifecycle state of a prediction. A prediction is
// created pending and transitions exactly once to correct or incorrect.
type PredictionStatus string

const (
	PredictionStatusPending   PredictionStatus = "pending"
	PredictionStatusCorrect   PredictionStatus = "correct"
	PredictionStatusIncorrect PredictionStatus = "incorrect"
)

// PredictionDirection is the direction of the call.
type PredictionDirection string

const (
	DirectionBullish PredictionDirection = "bullish"
	DirectionBearish PredictionDirection = "bearish"
)

// PredictionRecord represents a single public call made by an influencer.
// Invariant: Status == pending exactly when PriceAtResolution is nil.
type PredictionRecord struct {
	ID                string               `json:"id" db:"id"`
	InfluencerID      string               `json:"influencer_id" db:"influencer_id"`
	CoinSymbol        string               `json:"coin_symbol" db:"coin_symbol"`
	Direction         PredictionDirection  `json:"direction" db:"direction"`
	PriceAtPrediction decimal.Decimal      `json:"price_at_prediction" db:"price_at_prediction"`
	TargetPrice       *decimal.Decimal     `json:"target_price,omitempty" db:"target_price"`
	PriceAtResolution *decimal.Decimal     `json:"price_at_resolution,omitempty" db:"price_at_resolution"`
	Status            PredictionStatus     `json:"status" db:"status"`
	PredictedAt       time.Time            `json:"predicted_at" db:"predicted_at"`
	ResolvedAt        *time.Time           `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt         time.Time            `json:"created_at" db:"created_at"`
}

// NewPredictionRecord creates a pending prediction and enforces the
// construction invariants.
func NewPredictionRecord(influencerID, coinSymbol string, direction PredictionDirection, priceAtPrediction decimal.Decimal, targetPrice *decimal.Decimal, predictedAt time.Time) (*PredictionRecord, error) {
	if influencerID == "" {
		return nil, utils.NewValidationError("influencer_id is required")
	}
	if coinSymbol == "" {
		return nil, utils.NewValidationError("coin_symbol is required")
	}
	if direction != DirectionBullish && direction != DirectionBearish {
		return nil, utils.NewValidationErrorf("invalid direction: %s", direction)
	}
	if !priceAtPrediction.IsPositive() {
		return nil, utils.NewValidationError("price_at_prediction must be positive")
	}
	if targetPrice != nil && !targetPrice.IsPositive() {
		return nil, utils.NewValidationError("target_price must be positive")
	}

	now := time.Now()
	return &PredictionRecord{
		ID:                uuid.New().String(),
		InfluencerID:      influencerID,
		CoinSymbol:        coinSymbol,
		Direction:         direction,
		PriceAtPrediction: priceAtPrediction,
		TargetPrice:       targetPrice,
		Status:            PredictionStatusPending,
		PredictedAt:       predictedAt,
		CreatedAt:         now,
	}, nil
}

// Resolve applies the single terminal transition. It fails if the prediction
// is already resolved or the resolution data violates the invariants.
func (p *PredictionRecord) Resolve(status PredictionStatus, priceAtResolution decimal.Decimal, resolvedAt time.Time) error {
	if p.Status != PredictionStatusPending {
		return utils.NewValidationErrorf("prediction %s is already resolved", p.ID)
	}
	if status != PredictionStatusCorrect && status != PredictionStatusIncorrect {
		return utils.NewValidationErrorf("invalid resolution status: %s", status)
	}
	if resolvedAt.Before(p.PredictedAt) {
		return utils.NewValidationError("resolved_at must not precede predicted_at")
	}

	p.Status = status
	p.PriceAtResolution = &priceAtResolution
	p.ResolvedAt = &resolvedAt
	return nil
}

// IsResolved reports whether the prediction has reached a terminal state.
func (p *PredictionRecord) IsResolved() bool {
	return p.Status == PredictionStatusCorrect || p.Status == PredictionStatusIncorrect
}

// EffectiveTime is the timestamp used for recency and streak ordering:
// the resolution time when present, otherwise the prediction time.
func (p *PredictionRecord) EffectiveTime() time.Time {
	if p.ResolvedAt != nil {
		return *p.ResolvedAt
	}
	return p.PredictedAt
}

// Validate checks the stored record against the model invariants. Used when
// loading rows that predate strict construction-time enforcement.
func (p *PredictionRecord) Validate() error {
	pending := p.Status == PredictionStatusPending
	if pending && p.PriceAtResolution != nil {
		return utils.NewValidationErrorf("pending prediction %s has a resolution price", p.ID)
	}
	if !pending && p.PriceAtResolution == nil {
		return utils.NewValidationErrorf("resolved prediction %s is missing a resolution price", p.ID)
	}
	if p.ResolvedAt != nil && p.ResolvedAt.Before(p.PredictedAt) {
		return utils.NewValidationErrorf("prediction %s resolved before it was made", p.ID)
	}
	return nil
}

// PredictionFilter carries the list-endpoint query parameters.
type PredictionFilter struct {
	InfluencerID string           `json:"influencer_id" form:"influencer_id"`
	CoinSymbol   string           `json:"coin_symbol" form:"coin_symbol"`
	Status       PredictionStatus `json:"status" form:"status"`
	From         *time.Time       `json:"from" form:"from"`
	To           *time.Time       `json:"to" form:"to"`
	Page         int              `json:"page" form:"page"`
	Limit        int              `json:"limit" form:"limit"`
}
