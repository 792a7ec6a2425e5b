package models

import (
	"time"
)

// Influencer represents a tracked crypto personality whose public calls are
// scored by the engine.
type Influencer struct {
	ID            string    `json:"id" db:"id"`
	Handle        string    `json:"handle" db:"handle"`
	DisplayName   string    `json:"display_name" db:"display_name"`
	Platform      string    `json:"platform" db:"platform"`
	AvatarURL     string    `json:"avatar_url,omitempty" db:"avatar_url"`
	FollowerCount int64     `json:"follower_count" db:"follower_count"`
	Verified      bool      `json:"verified" db:"verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// InfluencerDetail is the detail-endpoint view: identity plus the computed
// score breakdown and tier.
type InfluencerDetail struct {
	Influencer       Influencer     `json:"influencer"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	Tier             TierInfo       `json:"tier"`
	TotalPredictions int            `json:"total_predictions"`
	PendingCount     int            `json:"pending_count"`
	Streak           int            `json:"streak"`
}
