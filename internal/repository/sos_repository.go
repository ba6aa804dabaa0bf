package repository

import (
	"suraksha_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SOSRepository struct {
	DB *gorm.DB
}

func NewSOSRepository(db *gorm.DB) *SOSRepository {
	return &SOSRepository{DB: db}
}

func (r *SOSRepository) Create(req *model.SOSRequest) error {
	return r.DB.Create(req).Error
}

func (r *SOSRepository) FindByID(id uint) (*model.SOSRequest, error) {
	var req model.SOSRequest
	err := r.DB.First(&req, id).Error
	return &req, err
}

func (r *SOSRepository) FindActive() ([]model.SOSRequest, error) {
	var reqs []model.SOSRequest
	err := r.DB.Where("status = ?", model.SOSActive).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *SOSRepository) FindByUser(userID uint) ([]model.SOSRequest, error) {
	var reqs []model.SOSRequest
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *SOSRepository) Resolve(id, resolvedBy uint, status model.SOSStatus, notes string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"resolved_at": now,
		"resolved_by": resolvedBy,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.DB.Model(&model.SOSRequest{}).Where("id = ?", id).Updates(updates).Error
}
