package repository

import (
	"errors"
	"suraksha_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type WeatherAlertRepository struct {
	DB *gorm.DB
}

func NewWeatherAlertRepository(db *gorm.DB) *WeatherAlertRepository {
	return &WeatherAlertRepository{DB: db}
}

// Upsert 以 external_id 为键，重复轮询产生的同一条告警只更新不重复落库
func (r *WeatherAlertRepository) Upsert(record *model.WeatherAlertRecord) error {
	var existing model.WeatherAlertRecord
	err := r.DB.Where("external_id = ?", record.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(record).Error
	}
	if err != nil {
		return err
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return r.DB.Save(record).Error
}

func (r *WeatherAlertRepository) FindActive() ([]model.WeatherAlertRecord, error) {
	var records []model.WeatherAlertRecord
	err := r.DB.
		Where("is_active = ?", true).
		Where("end_time IS NULL OR end_time > ?", time.Now()).
		Order("start_time DESC").
		Find(&records).Error
	return records, err
}

func (r *WeatherAlertRepository) FindRecent(limit int) ([]model.WeatherAlertRecord, error) {
	var records []model.WeatherAlertRecord
	err := r.DB.Order("start_time DESC").Limit(limit).Find(&records).Error
	return records, err
}

// DeactivateMissing 把本轮没有再出现的告警标记为不活跃
func (r *WeatherAlertRepository) DeactivateMissing(activeIDs []string) error {
	query := r.DB.Model(&model.WeatherAlertRecord{}).Where("is_active = ?", true)
	if len(activeIDs) > 0 {
		query = query.Where("external_id NOT IN ?", activeIDs)
	}
	return query.Update("is_active", false).Error
}
