package repository

import (
	"context"

	"signalboard/internal/models"
)

// Repository is the storage surface used by the handlers, the alert
// dispatcher and the rate limiter.
type Repository interface {
	// Signals. Rows are insert-only: nothing updates or deletes them.
	InsertSignal(ctx context.Context, item *models.Signal) error
	GetSignalByID(ctx context.Context, id string) (*models.Signal, error)
	LatestSignal(ctx context.Context, platform string) (*models.Signal, error)
	ListSignals(ctx context.Context, params ListSignalsParams) ([]models.Signal, error)
	ListPlatforms(ctx context.Context) ([]string, error)
	SignalStats(ctx context.Context, platform string) (SignalStats, error)

	// Alerts.
	InsertAlert(ctx context.Context, item *models.Alert) error
	UpdateAlertStatus(ctx context.Context, id uint64, status string, sentAt *int64) error
	ListAlertsBySignalID(ctx context.Context, signalID string) ([]models.Alert, error)

	// Rate-limit counters.
	GetRateLimitCounter(ctx context.Context, key string) (int64, error)
	IncrementRateLimitCounter(ctx context.Context, key string, windowStart int64) error
	DeleteRateLimitCountersBefore(ctx context.Context, windowStart int64) (int64, error)

	// Audit trail.
	InsertAuditLog(ctx context.Context, item *models.AuditLog) error
}

// ListSignalsParams filters the signal history query. From/To are inclusive
// epoch-millisecond bounds on the signal timestamp; zero means unbounded.
type ListSignalsParams struct {
	Platform string
	From     int64
	To       int64
	Limit    int
}

// SignalStats is the aggregate the stats endpoint serves. ByClass is ordered
// by class name and its counts sum to Total; LastTs is nil when no rows
// match.
type SignalStats struct {
	Total   int64        `json:"total"`
	ByClass []ClassCount `json:"byClass"`
	LastTs  *int64       `json:"lastTs"`
}

type ClassCount struct {
	Class string `json:"class"`
	N     int64  `json:"n"`
}
