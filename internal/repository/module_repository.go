package repository

import (
	"suraksha_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) FindAll(activeOnly bool) ([]model.DisasterModule, error) {
	var modules []model.DisasterModule
	query := r.DB.Order("id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&modules).Error
	return modules, err
}

// FindByID 带全部课程内容（阶段、测验题、演练场景）
func (r *ModuleRepository) FindByID(id uint) (*model.DisasterModule, error) {
	var module model.DisasterModule
	err := r.DB.
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Phases.Checklists", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Phases.Steps", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Phases.QAItems").
		Preload("Questions").
		Preload("Scenarios", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Scenarios.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) FindBySlug(slug string) (*model.DisasterModule, error) {
	var module model.DisasterModule
	err := r.DB.Where("slug = ?", slug).First(&module).Error
	return &module, err
}

func (r *ModuleRepository) FindQuestions(moduleID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("module_id = ?", moduleID).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *ModuleRepository) FindScenarios(moduleID uint) ([]model.DrillScenario, error) {
	var scenarios []model.DrillScenario
	err := r.DB.Where("module_id = ?", moduleID).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Order("order_index ASC").
		Find(&scenarios).Error
	return scenarios, err
}

func (r *ModuleRepository) Create(module *model.DisasterModule) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) Update(module *model.DisasterModule) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.DisasterModule{}, id).Error
}

func (r *ModuleRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.DisasterModule{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
