package service

import (
	"errors"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/repository"
	"suraksha_backend/internal/util"
	"suraksha_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EmergencyService struct {
	AlertRepo   *repository.AlertRepository
	SOSRepo     *repository.SOSRepository
	ContactRepo *repository.ContactRepository
	UserRepo    *repository.UserRepository
}

func NewEmergencyService(
	alertRepo *repository.AlertRepository,
	sosRepo *repository.SOSRepository,
	contactRepo *repository.ContactRepository,
	userRepo *repository.UserRepository,
) *EmergencyService {
	return &EmergencyService{
		AlertRepo:   alertRepo,
		SOSRepo:     sosRepo,
		ContactRepo: contactRepo,
		UserRepo:    userRepo,
	}
}

func (s *EmergencyService) CreateAlert(alert *model.EmergencyAlert, createdBy uint) error {
	alert.CreatedBy = &createdBy
	alert.IsActive = true
	if alert.Source == "" {
		alert.Source = "Campus Administration"
	}

	if err := s.AlertRepo.Create(alert); err != nil {
		return err
	}

	logger.Log.Info("Emergency alert published",
		zap.Uint("alert_id", alert.ID),
		zap.String("type", string(alert.AlertType)),
		zap.String("severity", string(alert.Severity)),
		zap.Uint("created_by", createdBy))
	return nil
}

func (s *EmergencyService) ActiveAlerts() ([]model.EmergencyAlert, error) {
	return s.AlertRepo.FindActive()
}

func (s *EmergencyService) ListAlerts(page, pageSize int) ([]model.EmergencyAlert, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.AlertRepo.FindAll(page, pageSize)
}

func (s *EmergencyService) DeactivateAlert(id uint) error {
	if _, err := s.AlertRepo.FindByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrAlertNotFound
	} else if err != nil {
		return err
	}
	return s.AlertRepo.Deactivate(id)
}

// TriggerSOS 学员发起紧急求助
func (s *EmergencyService) TriggerSOS(userID uint, location string, lat, lon *float64, notes string) (*model.SOSRequest, error) {
	req := &model.SOSRequest{
		UserID:    userID,
		Location:  location,
		Latitude:  lat,
		Longitude: lon,
		Status:    model.SOSActive,
		Notes:     notes,
	}
	if err := s.SOSRepo.Create(req); err != nil {
		return nil, err
	}

	logger.Log.Warn("SOS triggered",
		zap.Uint("sos_id", req.ID),
		zap.Uint("user_id", userID),
		zap.String("location", location))
	return req, nil
}

func (s *EmergencyService) ActiveSOSRequests() ([]model.SOSRequest, error) {
	return s.SOSRepo.FindActive()
}

func (s *EmergencyService) UserSOSRequests(userID uint) ([]model.SOSRequest, error) {
	return s.SOSRepo.FindByUser(userID)
}

// ResolveSOS 管理员处理求助；本人可取消自己的求助
func (s *EmergencyService) ResolveSOS(id, actorID uint, actorRole model.UserRole, status model.SOSStatus, notes string) error {
	req, err := s.SOSRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrSOSNotFound
	}
	if err != nil {
		return err
	}

	if actorRole != model.Admin {
		if req.UserID != actorID || status != model.SOSCancelled {
			return util.ErrPermissionDenied
		}
	}
	if status != model.SOSResolved && status != model.SOSCancelled {
		return errors.New("invalid sos status")
	}

	return s.SOSRepo.Resolve(id, actorID, status, notes)
}

func (s *EmergencyService) EmergencyContacts() ([]model.EmergencyContact, error) {
	return s.ContactRepo.FindActive()
}

func (s *EmergencyService) CreateContact(contact *model.EmergencyContact) error {
	contact.IsActive = true
	return s.ContactRepo.Create(contact)
}

func (s *EmergencyService) UpdateContact(contact *model.EmergencyContact) error {
	if _, err := s.ContactRepo.FindByID(contact.ID); err != nil {
		return err
	}
	return s.ContactRepo.Update(contact)
}

func (s *EmergencyService) DeleteContact(id uint) error {
	if _, err := s.ContactRepo.FindByID(id); err != nil {
		return err
	}
	return s.ContactRepo.Delete(id)
}
