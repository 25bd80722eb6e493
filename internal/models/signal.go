package models

import (
	"gorm.io/datatypes"
)

// Signal is one prediction record for a platform/round. Rows are written
// once by the ingestion endpoint and never updated or deleted.
type Signal struct {
	ID       string `gorm:"type:varchar(100);primaryKey" json:"id"`
	Platform string `gorm:"type:varchar(50);not null;index;uniqueIndex:idx_signals_platform_round" json:"platform"`
	RoundID  string `gorm:"type:varchar(100);not null;uniqueIndex:idx_signals_platform_round" json:"round_id"`

	// Timestamp is the prediction time in epoch milliseconds; it is the
	// ordering key for every read path.
	Timestamp int64 `gorm:"not null;index" json:"timestamp"`

	PredictedClass      string   `gorm:"type:varchar(20);not null;index" json:"predicted_class"`
	PredictedMultiplier *float64 `json:"predicted_multiplier,omitempty"`
	Confidence          float64  `gorm:"not null" json:"confidence"`
	ModelVersion        string   `gorm:"type:varchar(50);not null" json:"model_version"`
	RecommendedAction   string   `gorm:"type:varchar(10);not null" json:"recommended_action"`
	SuggestedBetPct     *float64 `json:"suggested_bet_pct,omitempty"`

	// CashoutTargets holds an optional serialized array of multipliers;
	// readers decode it when present.
	CashoutTargets datatypes.JSON `json:"cashout_targets,omitempty"`
	Source         *string        `gorm:"type:varchar(50)" json:"source,omitempty"`

	CreatedAt int64 `gorm:"not null;autoCreateTime:milli" json:"created_at"`
}

func (Signal) TableName() string {
	return "signals"
}

// Predicted class values.
const (
	ClassLow     = "low"
	ClassMedium  = "medium"
	ClassHigh    = "high"
	ClassExtreme = "extreme"
)

// Recommended action values.
const (
	ActionBet  = "BET"
	ActionHold = "HOLD"
	ActionWait = "WAIT"
)
