package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"suraksha_backend/internal/config"
	"suraksha_backend/internal/controller"
	"suraksha_backend/internal/repository"
	"suraksha_backend/internal/service"
	"suraksha_backend/pkg/database"
	"suraksha_backend/pkg/logger"
	"suraksha_backend/pkg/monitoring"
	"suraksha_backend/pkg/security"
	"suraksha_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user         *repository.UserRepository
	module       *repository.ModuleRepository
	progress     *repository.ProgressRepository
	alert        *repository.AlertRepository
	weatherAlert *repository.WeatherAlertRepository
	sos          *repository.SOSRepository
	contact      *repository.ContactRepository
	analytics    *repository.AnalyticsRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	storage   *service.StorageService
	module    *service.ModuleService
	learning  *service.LearningService
	analytics *service.AnalyticsService
	emergency *service.EmergencyService
	weather   *service.WeatherService
	assistant *service.AssistantService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	module    *controller.ModuleController
	learning  *controller.LearningController
	analytics *controller.AnalyticsController
	emergency *controller.EmergencyController
	weather   *controller.WeatherController
	assistant *controller.AssistantController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，通知所有已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		module:       repository.NewModuleRepository(db),
		progress:     repository.NewProgressRepository(db),
		alert:        repository.NewAlertRepository(db),
		weatherAlert: repository.NewWeatherAlertRepository(db),
		sos:          repository.NewSOSRepository(db),
		contact:      repository.NewContactRepository(db),
		analytics:    repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.module = service.NewModuleService(repos.module, repos.progress)
	s.learning = service.NewLearningService(repos.module, repos.progress)
	s.analytics = service.NewAnalyticsService(repos.analytics, repos.module, repos.user)
	s.emergency = service.NewEmergencyService(repos.alert, repos.sos, repos.contact, repos.user)
	s.weather = service.NewWeatherService(cfg.Weather, rdb, repos.weatherAlert)
	s.assistant = service.NewAssistantService(cfg.AI)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user, s.storage),
		module:    controller.NewModuleController(s.module),
		learning:  controller.NewLearningController(s.learning),
		analytics: controller.NewAnalyticsController(s.analytics),
		emergency: controller.NewEmergencyController(s.emergency),
		weather:   controller.NewWeatherController(s.weather),
		assistant: controller.NewAssistantController(s.assistant),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不自动迁移，需 -migrate 显式开启
	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("suraksha-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		// Provider 随服务全程存活，优雅停机时在 Run 里冲刷并关闭
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置了监测点则随服务启动轮询
	if cfg.Weather.AutoStart {
		if err := services.weather.StartMonitoring(context.Background()); err != nil {
			logger.Log.Warn("Weather monitoring not started", zap.Error(err))
		}
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 停掉天气轮询，在途请求的结果不再发布
	if a.services != nil && a.services.weather != nil {
		a.services.weather.StopMonitoring()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// 冲刷未导出的 span
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
