package repository

import (
	"suraksha_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) CountUsers() (total, active, students, admins int64, err error) {
	if err = r.DB.Model(&model.User{}).Count(&total).Error; err != nil {
		return
	}
	if err = r.DB.Model(&model.User{}).Where("disabled = ?", false).Count(&active).Error; err != nil {
		return
	}
	if err = r.DB.Model(&model.User{}).Where("role = ?", model.Student).Count(&students).Error; err != nil {
		return
	}
	err = r.DB.Model(&model.User{}).Where("role = ?", model.Admin).Count(&admins).Error
	return
}

func (r *AnalyticsRepository) CountCompletedProgress() (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentProgress{}).Where("completed = ?", true).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepository) CountCompletedByModule(moduleID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentProgress{}).
		Where("module_id = ? AND completed = ?", moduleID, true).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsRepository) AverageScoreByModule(moduleID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.StudentProgress{}).
		Select("AVG(score)").
		Where("module_id = ? AND completed = ?", moduleID, true).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *AnalyticsRepository) CountAttemptsByModule(moduleID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("module_id = ?", moduleID).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepository) RecentCompletions(limit int) ([]model.StudentProgress, error) {
	var records []model.StudentProgress
	err := r.DB.
		Where("completed = ? AND completed_at IS NOT NULL", true).
		Order("completed_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *AnalyticsRepository) RecentSOSRequests(limit int) ([]model.SOSRequest, error) {
	var reqs []model.SOSRequest
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&reqs).Error
	return reqs, err
}

func (r *AnalyticsRepository) AlertSummary() (*model.AlertSummary, error) {
	now := time.Now()
	var summary model.AlertSummary

	var active, critical, sos, recent int64
	base := func() *gorm.DB {
		return r.DB.Model(&model.EmergencyAlert{}).
			Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}
	if err := base().Count(&active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("severity = ?", model.SeverityCritical).Count(&critical).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.SOSRequest{}).Where("status = ?", model.SOSActive).Count(&sos).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.EmergencyAlert{}).
		Where("created_at >= ?", now.Add(-24*time.Hour)).
		Count(&recent).Error; err != nil {
		return nil, err
	}

	summary.ActiveAlerts = int(active)
	summary.CriticalAlerts = int(critical)
	summary.ActiveSOSRequests = int(sos)
	summary.RecentAlerts24h = int(recent)
	return &summary, nil
}
