package service

import (
	"errors"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/repository"
	"suraksha_backend/internal/util"

	"gorm.io/gorm"
)

type ModuleService struct {
	ModuleRepo   *repository.ModuleRepository
	ProgressRepo *repository.ProgressRepository
}

func NewModuleService(moduleRepo *repository.ModuleRepository, progressRepo *repository.ProgressRepository) *ModuleService {
	return &ModuleService{
		ModuleRepo:   moduleRepo,
		ProgressRepo: progressRepo,
	}
}

// ModuleSummary 列表项，附带当前用户的进度（未登录时为空）
type ModuleSummary struct {
	model.DisasterModule
	Progress *model.StudentProgress `json:"progress,omitempty"`
}

func (s *ModuleService) ListModules(userID uint, includeInactive bool) ([]ModuleSummary, error) {
	modules, err := s.ModuleRepo.FindAll(!includeInactive)
	if err != nil {
		return nil, err
	}

	progressByModule := map[uint]*model.StudentProgress{}
	if userID != 0 {
		records, err := s.ProgressRepo.FindByUser(userID)
		if err != nil {
			return nil, err
		}
		for i := range records {
			progressByModule[records[i].ModuleID] = &records[i]
		}
	}

	summaries := make([]ModuleSummary, 0, len(modules))
	for _, m := range modules {
		summaries = append(summaries, ModuleSummary{
			DisasterModule: m,
			Progress:       progressByModule[m.ID],
		})
	}
	return summaries, nil
}

func (s *ModuleService) GetModule(id uint, userID uint) (*model.DisasterModule, error) {
	module, err := s.ModuleRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	// 打开模块即视为一次访问
	if userID != 0 {
		_ = s.ProgressRepo.Touch(userID, module.ID)
	}
	return module, nil
}

func (s *ModuleService) GetModuleBySlug(slug string, userID uint) (*model.DisasterModule, error) {
	module, err := s.ModuleRepo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetModule(module.ID, userID)
}

func (s *ModuleService) CreateModule(module *model.DisasterModule) error {
	_, err := s.ModuleRepo.FindBySlug(module.Slug)
	if err == nil {
		return util.ErrSlugTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.ModuleRepo.Create(module)
}

func (s *ModuleService) UpdateModule(module *model.DisasterModule) error {
	existing, err := s.ModuleRepo.FindBySlug(module.Slug)
	if err == nil && existing.ID != module.ID {
		return util.ErrSlugTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.ModuleRepo.Update(module)
}

func (s *ModuleService) DeleteModule(id uint) error {
	if _, err := s.ModuleRepo.FindByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrModuleNotFound
	} else if err != nil {
		return err
	}
	return s.ModuleRepo.Delete(id)
}
