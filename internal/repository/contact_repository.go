package repository

import (
	"suraksha_backend/internal/model"

	"gorm.io/gorm"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) FindActive() ([]model.EmergencyContact, error) {
	var contacts []model.EmergencyContact
	err := r.DB.Where("is_active = ?", true).
		Order("priority ASC, name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Create(contact *model.EmergencyContact) error {
	return r.DB.Create(contact).Error
}

func (r *ContactRepository) Update(contact *model.EmergencyContact) error {
	return r.DB.Save(contact).Error
}

func (r *ContactRepository) FindByID(id uint) (*model.EmergencyContact, error) {
	var contact model.EmergencyContact
	err := r.DB.First(&contact, id).Error
	return &contact, err
}

func (r *ContactRepository) Delete(id uint) error {
	return r.DB.Delete(&model.EmergencyContact{}, id).Error
}
