package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wingman/internal/models"
)

type SettingsRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, key string, value bool) error
	UpsertMany(ctx context.Context, values map[string]bool) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) List(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, key string, value bool) error {
	return r.UpsertMany(ctx, map[string]bool{key: value})
}

func (r *settingsRepository) UpsertMany(ctx context.Context, values map[string]bool) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.Setting, 0, len(values))
	for key, value := range values {
		if key == "" {
			return errors.New("setting key is required")
		}
		rows = append(rows, models.Setting{Key: key, Value: value, UpdatedAt: now})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}
