package models

import (
	"gorm.io/datatypes"
)

// Alert is one delivery attempt of a signal's notification on one channel.
// A row is created as "queued" when the signal crosses the confidence
// threshold and updated exactly once with the delivery outcome. The retry
// counter is schema surface only: there is no automatic retry loop.
type Alert struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SignalID string `gorm:"type:varchar(100);not null;index" json:"signal_id"`
	Signal   Signal `gorm:"foreignKey:SignalID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Channel string         `gorm:"type:varchar(20);not null" json:"channel"`
	Payload datatypes.JSON `json:"payload,omitempty"`
	Status  string         `gorm:"type:varchar(10);not null;index" json:"status"`

	SentAt     *int64 `json:"sent_at,omitempty"`
	RetryCount int    `gorm:"not null;default:0" json:"retry_count"`

	CreatedAt int64 `gorm:"not null;autoCreateTime:milli" json:"created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

// Alert channels.
const (
	ChannelTelegram = "telegram"
	ChannelDiscord  = "discord"
	ChannelEmail    = "email"
	ChannelWebhook  = "webhook"
)

// Alert statuses.
const (
	AlertQueued = "queued"
	AlertSent   = "sent"
	AlertFailed = "failed"
)
