package db

import (
	"signalboard/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Signal{},
		&models.Alert{},
		&models.ModelVersion{},
		&models.APIKey{},
		&models.AuditLog{},
		&models.RateLimitCounter{},
	)
}
