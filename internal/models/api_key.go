package models

import (
	"gorm.io/datatypes"
)

// APIKey is a named ingest credential. SecretHash stores the SHA-256 hex of
// the shared secret, never the secret itself. AllowedIPs is an optional JSON
// array of source addresses; empty means any. Declared ahead of per-key
// enforcement: the ingest path still authenticates against the single
// configured secret.
type APIKey struct {
	ID              uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Role            string         `gorm:"type:varchar(20);not null" json:"role"`
	SecretHash      string         `gorm:"type:varchar(64);not null" json:"-"`
	AllowedIPs      datatypes.JSON `json:"allowed_ips,omitempty"`
	RateLimitPerMin int            `gorm:"not null;default:0" json:"rate_limit_per_min"`

	CreatedAt int64 `gorm:"not null;autoCreateTime:milli" json:"created_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

// API key roles.
const (
	RoleIngest = "ingest"
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)
