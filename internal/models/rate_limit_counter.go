package models

// RateLimitCounter is one fixed-window request counter row. Key encodes the
// route scope, client address and window start (for example
// "ingest:1.2.3.4:1712345640000"); WindowStart repeats the window in a
// dedicated column so stale rows can be pruned with a range delete.
type RateLimitCounter struct {
	Key         string `gorm:"type:varchar(150);primaryKey" json:"key"`
	Count       int64  `gorm:"not null" json:"count"`
	WindowStart int64  `gorm:"not null;index" json:"window_start"`
}

func (RateLimitCounter) TableName() string {
	return "rate_limit_counters"
}
