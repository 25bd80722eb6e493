package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signalboard/internal/models"
	"signalboard/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- signals -----------------------------------------------------------------

func (s *Store) InsertSignal(ctx context.Context, item *models.Signal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetSignalByID(ctx context.Context, id string) (*models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Signal
	err := s.db.WithContext(ctx).Model(&models.Signal{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) LatestSignal(ctx context.Context, platform string) (*models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Signal{})
	if platform = strings.TrimSpace(platform); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	var item models.Signal
	err := query.Order("timestamp desc").First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Signal{})
	if platform := strings.TrimSpace(params.Platform); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if params.From > 0 {
		query = query.Where("timestamp >= ?", params.From)
	}
	if params.To > 0 {
		query = query.Where("timestamp <= ?", params.To)
	}
	limit := normalizeLimit(params.Limit, 100)
	var items []models.Signal
	if err := query.Order("timestamp desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListPlatforms(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []string
	if err := s.db.WithContext(ctx).
		Model(&models.Signal{}).
		Distinct("platform").
		Order("platform asc").
		Pluck("platform", &items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SignalStats(ctx context.Context, platform string) (repository.SignalStats, error) {
	if s == nil || s.db == nil {
		return repository.SignalStats{ByClass: []repository.ClassCount{}}, nil
	}
	platform = strings.TrimSpace(platform)

	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Signal{})
		if platform != "" {
			query = query.Where("platform = ?", platform)
		}
		return query
	}

	stats := repository.SignalStats{ByClass: []repository.ClassCount{}}

	if err := scoped().Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := scoped().
		Select("predicted_class AS class, COUNT(*) AS n").
		Group("predicted_class").
		Order("predicted_class asc").
		Scan(&stats.ByClass).Error; err != nil {
		return stats, err
	}
	if stats.Total > 0 {
		var last int64
		if err := scoped().
			Select("MAX(timestamp)").
			Scan(&last).Error; err != nil {
			return stats, err
		}
		stats.LastTs = &last
	}
	return stats, nil
}

// --- alerts ------------------------------------------------------------------

func (s *Store) InsertAlert(ctx context.Context, item *models.Alert) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateAlertStatus(ctx context.Context, id uint64, status string, sentAt *int64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	updates := map[string]any{"status": status}
	if sentAt != nil {
		updates["sent_at"] = *sentAt
	}
	return s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (s *Store) ListAlertsBySignalID(ctx context.Context, signalID string) ([]models.Alert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	signalID = strings.TrimSpace(signalID)
	if signalID == "" {
		return nil, nil
	}
	var items []models.Alert
	if err := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("signal_id = ?", signalID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- rate-limit counters -------------------------------------------------------

func (s *Store) GetRateLimitCounter(ctx context.Context, key string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, nil
	}
	var item models.RateLimitCounter
	err := s.db.WithContext(ctx).
		Model(&models.RateLimitCounter{}).
		Where("key = ?", key).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return item.Count, nil
}

func (s *Store) IncrementRateLimitCounter(ctx context.Context, key string, windowStart int64) error {
	if s == nil || s.db == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(&models.RateLimitCounter{
		Key:         key,
		Count:       1,
		WindowStart: windowStart,
	}).Error
}

func (s *Store) DeleteRateLimitCountersBefore(ctx context.Context, windowStart int64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("window_start < ?", windowStart).
		Delete(&models.RateLimitCounter{})
	return res.RowsAffected, res.Error
}

// --- audit trail ----------------------------------------------------------------

func (s *Store) InsertAuditLog(ctx context.Context, item *models.AuditLog) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}
