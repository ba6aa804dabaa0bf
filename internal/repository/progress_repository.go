package repository

import (
	"errors"
	"suraksha_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.StudentProgress, error) {
	var records []model.StudentProgress
	err := r.DB.Where("user_id = ?", userID).Order("module_id ASC").Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindByUserAndModule(userID, moduleID uint) (*model.StudentProgress, error) {
	var record model.StudentProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpsertScore 以 (user_id, module_id) 为键更新进度账本：
// 分数整体替换（不取历史最高），completed 随新分数重算，time_spent 保留。
func (r *ProgressRepository) UpsertScore(userID, moduleID uint, score int, completed bool) (*model.StudentProgress, error) {
	now := time.Now()
	var record model.StudentProgress

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = model.StudentProgress{
				UserID:       userID,
				ModuleID:     moduleID,
				Score:        score,
				Completed:    completed,
				TimeSpent:    0,
				LastAccessed: now,
			}
			if completed {
				record.CompletedAt = &now
			}
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}

		record.Score = score
		record.Completed = completed
		record.LastAccessed = now
		if completed {
			if record.CompletedAt == nil {
				record.CompletedAt = &now
			}
		} else {
			record.CompletedAt = nil
		}
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Touch 仅更新最近访问时间，记录不存在时创建一条空进度
func (r *ProgressRepository) Touch(userID, moduleID uint) error {
	now := time.Now()
	var record model.StudentProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = model.StudentProgress{
			UserID:       userID,
			ModuleID:     moduleID,
			LastAccessed: now,
		}
		return r.DB.Create(&record).Error
	}
	if err != nil {
		return err
	}
	return r.DB.Model(&record).Update("last_accessed", now).Error
}

func (r *ProgressRepository) AddTimeSpent(userID, moduleID uint, minutes int) error {
	return r.DB.Model(&model.StudentProgress{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Updates(map[string]interface{}{
			"time_spent":    gorm.Expr("time_spent + ?", minutes),
			"last_accessed": time.Now(),
		}).Error
}

func (r *ProgressRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *ProgressRepository) FindAttempts(userID, moduleID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.DB.Where("user_id = ?", userID).Order("completed_at DESC")
	if moduleID != 0 {
		query = query.Where("module_id = ?", moduleID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

func (r *ProgressRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) FindByModule(moduleID uint) ([]model.StudentProgress, error) {
	var records []model.StudentProgress
	err := r.DB.Where("module_id = ?", moduleID).Find(&records).Error
	return records, err
}
