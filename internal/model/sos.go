package model

import (
	"time"
)

type SOSStatus string

const (
	SOSActive    SOSStatus = "active"
	SOSResolved  SOSStatus = "resolved"
	SOSCancelled SOSStatus = "cancelled"
)

// SOSRequest 学员触发的紧急求助
type SOSRequest struct {
	BaseModel
	UserID     uint       `gorm:"index;not null" json:"userId"`
	Location   string     `gorm:"size:255" json:"location"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	Status     SOSStatus  `gorm:"type:enum('active','resolved','cancelled');default:'active'" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy *uint      `json:"resolvedBy,omitempty"`
}

func (SOSRequest) TableName() string {
	return "sos_requests"
}

// EmergencyContact 校园应急联系人，priority 1 为最高
type EmergencyContact struct {
	BaseModel
	Name       string `gorm:"size:100;not null" json:"name"`
	Role       string `gorm:"size:100;not null" json:"role"`
	Phone      string `gorm:"size:30;not null" json:"phone"`
	Email      string `gorm:"size:100" json:"email"`
	Department string `gorm:"size:100" json:"department"`
	Priority   int    `gorm:"default:1" json:"priority"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`
}

func (EmergencyContact) TableName() string {
	return "emergency_contacts"
}
