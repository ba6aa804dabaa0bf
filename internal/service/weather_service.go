package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"suraksha_backend/internal/config"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/repository"
	"suraksha_backend/internal/util"
	"suraksha_backend/internal/weather"
	"suraksha_backend/pkg/logger"
	"suraksha_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	snapshotCacheKey = "weather:snapshot"
	snapshotCacheTTL = 5 * time.Minute
	dismissedKeyFmt  = "weather:dismissed:%d"
	dismissedTTL     = 24 * time.Hour
)

// WeatherService 天气监测的业务入口：按需拉取当前天气（带 Redis 缓存）、
// 管理后台轮询监测器、把监测产生的告警落库并支持按用户屏蔽。
type WeatherService struct {
	Cfg       config.WeatherConfig
	Client    *weather.Client
	Monitor   *weather.Monitor
	Redis     *redis.Client
	AlertRepo *repository.WeatherAlertRepository
}

func NewWeatherService(cfg config.WeatherConfig, rdb *redis.Client, alertRepo *repository.WeatherAlertRepository) *WeatherService {
	client := weather.NewClient(cfg)
	svc := &WeatherService{
		Cfg:       cfg,
		Client:    client,
		Monitor:   weather.NewMonitor(client, logger.Log),
		Redis:     rdb,
		AlertRepo: alertRepo,
	}

	svc.Monitor.Subscribe(svc.persistAlerts)
	return svc
}

func (s *WeatherService) configured() bool {
	if s.Cfg.APIKey == "" {
		return false
	}
	return s.Cfg.Latitude != 0 || s.Cfg.Longitude != 0 || s.Cfg.LocationName != ""
}

// coordinates 返回配置的监测点坐标，只配置了地名时先做一次正向地理编码
func (s *WeatherService) coordinates(ctx context.Context) (float64, float64, error) {
	if s.Cfg.Latitude != 0 || s.Cfg.Longitude != 0 {
		return s.Cfg.Latitude, s.Cfg.Longitude, nil
	}

	parts := strings.SplitN(s.Cfg.LocationName, ",", 2)
	city := strings.TrimSpace(parts[0])
	country := ""
	if len(parts) > 1 {
		country = strings.TrimSpace(parts[1])
	}

	loc, err := s.Client.Coordinates(ctx, city, country)
	if err != nil {
		return 0, 0, err
	}
	return loc.Lat, loc.Lon, nil
}

// CurrentWeather 当前天气快照，5 分钟内的重复请求命中缓存
func (s *WeatherService) CurrentWeather(ctx context.Context) (*weather.Snapshot, error) {
	if !s.configured() {
		return nil, util.ErrWeatherNotConfigured
	}

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, snapshotCacheKey).Result(); err == nil {
			var snap weather.Snapshot
			if json.Unmarshal([]byte(cached), &snap) == nil {
				return &snap, nil
			}
		}
	}

	lat, lon, err := s.coordinates(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.Client.FetchSnapshot(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(snap); err == nil {
			s.Redis.Set(ctx, snapshotCacheKey, data, snapshotCacheTTL)
		}
	}
	return snap, nil
}

// CurrentAlerts 基于最新快照即时分类，不依赖监测器是否在跑
func (s *WeatherService) CurrentAlerts(ctx context.Context, userID uint) ([]weather.EmergencyAlert, error) {
	snap, err := s.CurrentWeather(ctx)
	if err != nil {
		return nil, err
	}

	alerts := weather.Classify(snap, time.Now())
	return s.filterDismissed(ctx, userID, alerts), nil
}

// StartMonitoring 启动后台轮询。幂等，重复调用等价于重启。
func (s *WeatherService) StartMonitoring(ctx context.Context) error {
	if !s.configured() {
		return util.ErrWeatherNotConfigured
	}

	lat, lon, err := s.coordinates(ctx)
	if err != nil {
		return err
	}

	interval := time.Duration(s.Cfg.PollMinutes) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	s.Monitor.Start(lat, lon, interval)
	logger.Log.Info("Weather monitoring started",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Duration("interval", interval))
	return nil
}

func (s *WeatherService) StopMonitoring() {
	s.Monitor.Stop()
	logger.Log.Info("Weather monitoring stopped")
}

type MonitorStatus struct {
	Configured   bool   `json:"configured"`
	Running      bool   `json:"running"`
	LocationName string `json:"locationName,omitempty"`
	PollMinutes  int    `json:"pollMinutes"`
}

func (s *WeatherService) Status() *MonitorStatus {
	return &MonitorStatus{
		Configured:   s.configured(),
		Running:      s.Monitor.Running(),
		LocationName: s.Cfg.LocationName,
		PollMinutes:  s.Cfg.PollMinutes,
	}
}

// StoredAlerts 落库的活跃告警，按用户过滤掉已屏蔽的
func (s *WeatherService) StoredAlerts(ctx context.Context, userID uint) ([]model.WeatherAlertRecord, error) {
	records, err := s.AlertRepo.FindActive()
	if err != nil {
		return nil, err
	}
	if userID == 0 || s.Redis == nil {
		return records, nil
	}

	key := fmt.Sprintf(dismissedKeyFmt, userID)
	out := records[:0]
	for _, r := range records {
		dismissed, err := s.Redis.SIsMember(ctx, key, r.ExternalID).Result()
		if err == nil && dismissed {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// DismissAlert 对单个用户屏蔽某条告警，24 小时后自动失效
func (s *WeatherService) DismissAlert(ctx context.Context, userID uint, alertID string) error {
	if s.Redis == nil {
		return nil
	}
	key := fmt.Sprintf(dismissedKeyFmt, userID)
	if err := s.Redis.SAdd(ctx, key, alertID).Err(); err != nil {
		return err
	}
	return s.Redis.Expire(ctx, key, dismissedTTL).Err()
}

// ResolveLocation 城市名转坐标，供管理端配置校验用
func (s *WeatherService) ResolveLocation(ctx context.Context, city, country string) (*weather.Location, error) {
	if s.Cfg.APIKey == "" {
		return nil, util.ErrWeatherNotConfigured
	}
	return s.Client.Coordinates(ctx, city, country)
}

func (s *WeatherService) filterDismissed(ctx context.Context, userID uint, alerts []weather.EmergencyAlert) []weather.EmergencyAlert {
	if userID == 0 || s.Redis == nil {
		return alerts
	}
	key := fmt.Sprintf(dismissedKeyFmt, userID)
	out := alerts[:0]
	for _, a := range alerts {
		dismissed, err := s.Redis.SIsMember(ctx, key, a.ID).Result()
		if err == nil && dismissed {
			continue
		}
		out = append(out, a)
	}
	return out
}

// persistAlerts 监测器订阅回调：告警按 external id 幂等落库，
// 本轮未出现的旧告警标记为不活跃。
func (s *WeatherService) persistAlerts(alerts []weather.EmergencyAlert) {
	activeIDs := make([]string, 0, len(alerts))
	for _, a := range alerts {
		record := &model.WeatherAlertRecord{
			ExternalID:      a.ID,
			AlertType:       string(a.Type),
			Severity:        model.AlertSeverity(a.Severity),
			Title:           a.Title,
			Message:         a.Message,
			Location:        a.Location,
			Latitude:        s.Cfg.Latitude,
			Longitude:       s.Cfg.Longitude,
			StartTime:       a.StartTime,
			EndTime:         a.EndTime,
			IsActive:        a.IsActive,
			Recommendations: a.Recommendations,
		}
		if err := s.AlertRepo.Upsert(record); err != nil {
			logger.Log.Error("Failed to persist weather alert",
				zap.String("external_id", a.ID),
				zap.Error(err))
			continue
		}
		activeIDs = append(activeIDs, a.ID)
		monitoring.WeatherAlertsPublished.Inc()
	}

	if err := s.AlertRepo.DeactivateMissing(activeIDs); err != nil {
		logger.Log.Error("Failed to deactivate stale weather alerts", zap.Error(err))
	}
}
