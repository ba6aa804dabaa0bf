package model

import (
	"time"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

type AlertType string

const (
	AlertEarthquake AlertType = "earthquake"
	AlertFire       AlertType = "fire"
	AlertFlood      AlertType = "flood"
	AlertCyclone    AlertType = "cyclone"
	AlertWeather    AlertType = "weather"
	AlertOther      AlertType = "other"
)

// EmergencyAlert 管理员手动发布的校园应急通告
type EmergencyAlert struct {
	BaseModel
	AlertType AlertType     `gorm:"type:enum('earthquake','fire','flood','cyclone','weather','other');not null" json:"alertType"`
	Severity  AlertSeverity `gorm:"type:enum('low','medium','high','critical');not null" json:"severity"`
	Title     string        `gorm:"size:255;not null" json:"title"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Location  string        `gorm:"size:255;not null" json:"location"`
	Source    string        `gorm:"size:100;not null" json:"source"`
	IsActive  bool          `gorm:"default:true" json:"isActive"`
	CreatedBy *uint         `json:"createdBy,omitempty"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
}

func (EmergencyAlert) TableName() string {
	return "emergency_alerts"
}

// WeatherAlertRecord 天气监测产生的告警落库记录，ExternalID 对应分类器生成的稳定 id，
// 相同 id 的重复轮询只更新不新增
type WeatherAlertRecord struct {
	BaseModel
	ExternalID      string        `gorm:"size:191;uniqueIndex;not null" json:"externalId"`
	AlertType       string        `gorm:"size:30;not null" json:"alertType"`
	Severity        AlertSeverity `gorm:"type:enum('low','medium','high','critical');not null" json:"severity"`
	Title           string        `gorm:"size:255;not null" json:"title"`
	Message         string        `gorm:"type:text;not null" json:"message"`
	Location        string        `gorm:"size:255;not null" json:"location"`
	Latitude        float64       `json:"latitude"`
	Longitude       float64       `json:"longitude"`
	StartTime       time.Time     `gorm:"not null" json:"startTime"`
	EndTime         *time.Time    `json:"endTime,omitempty"`
	IsActive        bool          `gorm:"default:true" json:"isActive"`
	Recommendations []string      `gorm:"serializer:json" json:"recommendations"`
}

func (WeatherAlertRecord) TableName() string {
	return "weather_alerts"
}
