package service

import (
	"math"
	"sort"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/repository"
)

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	ModuleRepo    *repository.ModuleRepository
	UserRepo      *repository.UserRepository
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	moduleRepo *repository.ModuleRepository,
	userRepo *repository.UserRepository,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		ModuleRepo:    moduleRepo,
		UserRepo:      userRepo,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *AnalyticsService) UserAnalytics() (*model.UserAnalytics, error) {
	total, active, students, admins, err := s.AnalyticsRepo.CountUsers()
	if err != nil {
		return nil, err
	}

	analytics := &model.UserAnalytics{
		TotalUsers:  int(total),
		ActiveUsers: int(active),
		Students:    int(students),
		Admins:      int(admins),
	}

	totalModules, err := s.ModuleRepo.CountActive()
	if err != nil {
		return nil, err
	}
	if totalModules > 0 && students > 0 {
		completed, err := s.AnalyticsRepo.CountCompletedProgress()
		if err != nil {
			return nil, err
		}
		analytics.CompletionRate = round2(float64(completed) / float64(students*totalModules) * 100)
	}
	return analytics, nil
}

func (s *AnalyticsService) ModuleAnalytics() ([]model.ModuleAnalytics, error) {
	modules, err := s.ModuleRepo.FindAll(true)
	if err != nil {
		return nil, err
	}

	_, _, students, _, err := s.AnalyticsRepo.CountUsers()
	if err != nil {
		return nil, err
	}

	out := make([]model.ModuleAnalytics, 0, len(modules))
	for _, m := range modules {
		completed, err := s.AnalyticsRepo.CountCompletedByModule(m.ID)
		if err != nil {
			return nil, err
		}
		avgScore, err := s.AnalyticsRepo.AverageScoreByModule(m.ID)
		if err != nil {
			return nil, err
		}
		attempts, err := s.AnalyticsRepo.CountAttemptsByModule(m.ID)
		if err != nil {
			return nil, err
		}

		item := model.ModuleAnalytics{
			ModuleID:      m.ID,
			ModuleTitle:   m.Title,
			AverageScore:  round2(avgScore),
			TotalAttempts: int(attempts),
		}
		if students > 0 {
			item.CompletionRate = round2(float64(completed) / float64(students) * 100)
		}
		out = append(out, item)
	}
	return out, nil
}

// RecentActivities 最近的模块完成与 SOS 请求，按时间倒序合并
func (s *AnalyticsService) RecentActivities(limit int) ([]model.ActivityItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var activities []model.ActivityItem

	completions, err := s.AnalyticsRepo.RecentCompletions(limit)
	if err != nil {
		return nil, err
	}
	for _, c := range completions {
		item := model.ActivityItem{
			Type:  "module_completion",
			Score: c.Score,
		}
		if c.CompletedAt != nil {
			item.Timestamp = *c.CompletedAt
		}
		if user, err := s.UserRepo.FindByID(c.UserID); err == nil {
			item.UserName = user.Name
		} else {
			item.UserName = "Unknown"
		}
		if title, err := s.moduleTitle(c.ModuleID); err == nil {
			item.ModuleTitle = title
		} else {
			item.ModuleTitle = "Unknown"
		}
		activities = append(activities, item)
	}

	sosRequests, err := s.AnalyticsRepo.RecentSOSRequests(5)
	if err != nil {
		return nil, err
	}
	for _, req := range sosRequests {
		item := model.ActivityItem{
			Type:      "sos_request",
			Status:    string(req.Status),
			Location:  req.Location,
			Timestamp: req.CreatedAt,
		}
		if user, err := s.UserRepo.FindByID(req.UserID); err == nil {
			item.UserName = user.Name
		} else {
			item.UserName = "Unknown"
		}
		activities = append(activities, item)
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func (s *AnalyticsService) moduleTitle(moduleID uint) (string, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return "", err
	}
	return module.Title, nil
}

func (s *AnalyticsService) AlertSummary() (*model.AlertSummary, error) {
	return s.AnalyticsRepo.AlertSummary()
}

// Dashboard 管理端总览
type Dashboard struct {
	Users      *model.UserAnalytics    `json:"users"`
	Modules    []model.ModuleAnalytics `json:"modules"`
	Activities []model.ActivityItem    `json:"activities"`
	Alerts     *model.AlertSummary     `json:"alerts"`
}

func (s *AnalyticsService) GetDashboard() (*Dashboard, error) {
	users, err := s.UserAnalytics()
	if err != nil {
		return nil, err
	}
	modules, err := s.ModuleAnalytics()
	if err != nil {
		return nil, err
	}
	activities, err := s.RecentActivities(10)
	if err != nil {
		return nil, err
	}
	alerts, err := s.AlertSummary()
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Users:      users,
		Modules:    modules,
		Activities: activities,
		Alerts:     alerts,
	}, nil
}
