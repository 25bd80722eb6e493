package models

// ModelVersion is a registry row for a prediction model. Schema artifact:
// nothing on the API reads or writes it yet; operators seed it by hand and
// the dashboard may grow a view over it later.
type ModelVersion struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Version  string `gorm:"type:varchar(50);not null;uniqueIndex" json:"version"`
	Platform string `gorm:"type:varchar(50);not null" json:"platform"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt int64 `gorm:"not null;autoCreateTime:milli" json:"created_at"`
}

func (ModelVersion) TableName() string {
	return "models"
}
