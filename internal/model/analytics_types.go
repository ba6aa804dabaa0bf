package model

import "time"

type UserAnalytics struct {
	TotalUsers     int     `json:"totalUsers"`
	ActiveUsers    int     `json:"activeUsers"`
	Students       int     `json:"students"`
	Admins         int     `json:"admins"`
	CompletionRate float64 `json:"completionRate"`
}

type ModuleAnalytics struct {
	ModuleID       uint    `json:"moduleId"`
	ModuleTitle    string  `json:"moduleTitle"`
	CompletionRate float64 `json:"completionRate"`
	AverageScore   float64 `json:"averageScore"`
	TotalAttempts  int     `json:"totalAttempts"`
}

type ActivityItem struct {
	Type        string    `json:"type"`
	UserName    string    `json:"userName"`
	ModuleTitle string    `json:"moduleTitle,omitempty"`
	Score       int       `json:"score,omitempty"`
	Status      string    `json:"status,omitempty"`
	Location    string    `json:"location,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type AlertSummary struct {
	ActiveAlerts      int `json:"activeAlerts"`
	CriticalAlerts    int `json:"criticalAlerts"`
	ActiveSOSRequests int `json:"activeSosRequests"`
	RecentAlerts24h   int `json:"recentAlerts24h"`
}

type OverallProgress struct {
	TotalModules     int     `json:"totalModules"`
	CompletedModules int     `json:"completedModules"`
	AverageScore     float64 `json:"averageScore"`
}
