package models

// AuditLog is one write-path request record. Actor is the client address,
// Action the method plus route, Detail the response status and latency.
type AuditLog struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor  string `gorm:"type:varchar(64);not null;index" json:"actor"`
	Action string `gorm:"type:varchar(200);not null" json:"action"`
	Detail string `gorm:"type:varchar(200)" json:"detail,omitempty"`

	CreatedAt int64 `gorm:"not null;autoCreateTime:milli;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
