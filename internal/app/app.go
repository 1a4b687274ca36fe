package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiongozi_backend/internal/config"
	"kiongozi_backend/internal/controller"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/service"
	"kiongozi_backend/pkg/configwatcher"
	"kiongozi_backend/pkg/database"
	"kiongozi_backend/pkg/logger"
	"kiongozi_backend/pkg/monitoring"
	"kiongozi_backend/pkg/security"
	"kiongozi_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	xpEvent     *repository.XPEventRepository
	course      *repository.CourseRepository
	module      *repository.ModuleRepository
	enrollment  *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	badge       *repository.BadgeRepository
	quiz        *repository.QuizRepository
	certificate *repository.CertificateRepository
	event       *repository.EventRepository
	community   *repository.CommunityRepository
	chat        *repository.ChatRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      service.StorageProvider
	gamification *service.GamificationService
	badges       *service.BadgeService
	streaks      *service.StreakService
	progress     *service.ProgressService
	certificates *service.CertificateService
	course       *service.CourseService
	quiz         *service.QuizService
	assistant    *service.AssistantService
	community    *service.CommunityService
	dashboard    *service.DashboardService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	course      *controller.CourseController
	learning    *controller.LearningController
	quiz        *controller.QuizController
	achievement *controller.AchievementController
	certificate *controller.CertificateController
	assistant   *controller.AssistantController
	community   *controller.CommunityController
	dashboard   *controller.DashboardController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		xpEvent:     repository.NewXPEventRepository(db),
		course:      repository.NewCourseRepository(db),
		module:      repository.NewModuleRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		badge:       repository.NewBadgeRepository(db),
		quiz:        repository.NewQuizRepository(db),
		certificate: repository.NewCertificateRepository(db),
		event:       repository.NewEventRepository(db),
		community:   repository.NewCommunityRepository(db),
		chat:        repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage provider", zap.Error(err))
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)

	s.gamification = service.NewGamificationService(repos.user, repos.xpEvent, repos.badge, rdb, db)
	s.streaks = service.NewStreakService(repos.user)
	s.badges = service.NewBadgeService(repos.badge, repos.user, repos.progress, repos.quiz, repos.enrollment)
	s.certificates = service.NewCertificateService(repos.certificate, repos.course, repos.user)

	s.progress = service.NewProgressService(
		repos.progress,
		repos.course,
		repos.module,
		repos.enrollment,
		s.gamification,
		s.badges,
		s.streaks,
		s.certificates,
		cfg.Gamification.DefaultModuleXP,
	)

	s.course = service.NewCourseService(repos.course, repos.module, repos.enrollment, repos.progress, repos.quiz, s.badges)
	s.quiz = service.NewQuizService(repos.quiz, s.gamification, s.badges, s.streaks, rdb, cfg.Gamification.QuizPassXP)
	s.assistant = service.NewAssistantService(cfg.Assistant, repos.chat, repos.course)
	s.community = service.NewCommunityService(repos.community, repos.event, s.gamification, s.streaks, cfg.Gamification.EventAttendanceXP)
	s.dashboard = service.NewDashboardService(repos.user, repos.enrollment, repos.progress, repos.quiz, repos.xpEvent, s.badges, s.gamification)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		course:      controller.NewCourseController(s.course, s.storage),
		learning:    controller.NewLearningController(s.progress),
		quiz:        controller.NewQuizController(s.quiz),
		achievement: controller.NewAchievementController(s.gamification, s.badges),
		certificate: controller.NewCertificateController(s.certificates),
		assistant:   controller.NewAssistantController(s.assistant),
		community:   controller.NewCommunityController(s.community),
		dashboard:   controller.NewDashboardController(s.dashboard),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 限时测验的到点自动提交清扫器
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		for range ticker.C {
			if err := s.quiz.SweepExpiredAttempts(); err != nil {
				logger.Log.Error("quiz attempt sweep error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
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

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("kiongozi", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置热更新：游戏化参数和AI助手配置变更无需重启
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if updated, ok := newCfg.(*config.Config); ok {
			cfg.Gamification = updated.Gamification
			cfg.Assistant = updated.Assistant
			cfg.RateLimit = updated.RateLimit
			services.progress.DefaultModuleXP = updated.Gamification.DefaultModuleXP
			services.quiz.QuizPassXP = updated.Gamification.QuizPassXP
			services.community.EventAttendanceXP = updated.Gamification.EventAttendanceXP
			logger.Log.Info("Config reloaded",
				zap.Int("defaultModuleXP", cfg.Gamification.DefaultModuleXP),
				zap.Int("quizPassXP", cfg.Gamification.QuizPassXP))
		}
	})

	app.startBackgroundTasks(services)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
