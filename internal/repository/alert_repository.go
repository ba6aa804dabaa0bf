package repository

import (
	"suraksha_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AlertRepository struct {
	DB *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{DB: db}
}

func (r *AlertRepository) Create(alert *model.EmergencyAlert) error {
	return r.DB.Create(alert).Error
}

func (r *AlertRepository) FindByID(id uint) (*model.EmergencyAlert, error) {
	var alert model.EmergencyAlert
	err := r.DB.First(&alert, id).Error
	return &alert, err
}

// FindActive 过期的通告视为不活跃
func (r *AlertRepository) FindActive() ([]model.EmergencyAlert, error) {
	var alerts []model.EmergencyAlert
	err := r.DB.
		Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepository) FindAll(page, pageSize int) ([]model.EmergencyAlert, int64, error) {
	var alerts []model.EmergencyAlert
	var total int64

	if err := r.DB.Model(&model.EmergencyAlert{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&alerts).Error
	return alerts, total, err
}

func (r *AlertRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.EmergencyAlert{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

func (r *AlertRepository) Update(alert *model.EmergencyAlert) error {
	return r.DB.Save(alert).Error
}
