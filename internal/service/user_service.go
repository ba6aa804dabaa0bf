package service

import (
	"errors"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/repository"
	"suraksha_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

type ProfileUpdate struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Department  string `json:"department"`
	YearOfStudy string `json:"yearOfStudy"`
	Avatar      string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, update *ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.Department != "" {
		user.Department = update.Department
	}
	if update.YearOfStudy != "" {
		user.YearOfStudy = update.YearOfStudy
	}
	if update.Avatar != "" {
		user.Avatar = update.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(role string, page, pageSize int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.UserRepo.List(role, page, pageSize)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(userID, disabled)
}
