package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockview_backend/internal/ai"
	"mockview_backend/internal/config"
	"mockview_backend/internal/controller"
	"mockview_backend/internal/repository"
	"mockview_backend/internal/service"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/database"
	"mockview_backend/pkg/logger"
	"mockview_backend/pkg/monitoring"
	"mockview_backend/pkg/pdf"
	"mockview_backend/pkg/security"
	"mockview_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	repos    *repositories
	services *services

	generator ai.Generator
	renderer  service.Renderer
	tracer    *sdktrace.TracerProvider

	ctx    context.Context
	cancel context.CancelFunc
}

// Option 测试时替换外部依赖
type Option func(*App)

func WithGenerator(g ai.Generator) Option {
	return func(a *App) { a.generator = g }
}

func WithRenderer(r service.Renderer) Option {
	return func(a *App) { a.renderer = r }
}

type repositories struct {
	question *repository.QuestionRepository
	session  repository.SessionStore
	report   *repository.ReportRepository
}

type services struct {
	ai        *service.AIService
	router    *service.QuestionRouter
	evaluator *service.Evaluator
	interview *service.InterviewService
	storage   *service.StorageService
	report    *service.ReportService
}

type controllers struct {
	interview *controller.InterviewController
	topic     *controller.TopicController
	report    *controller.ReportController
	health    *controller.HealthController
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	repos := &repositories{
		question: repository.NewQuestionRepository(cfg.Questions.DataPath, cfg.Questions.TopicsIndex),
	}

	if a.Redis != nil && cfg.Session.Store == util.SessionStoreRedis {
		repos.session = repository.NewRedisSessionStore(a.Redis, cfg.Session.TTL)
	} else {
		repos.session = repository.NewMemorySessionStore(cfg.Session.TTL)
	}

	if a.DB != nil {
		repos.report = repository.NewReportRepository(a.DB)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(a.generator, cfg.AI.Timeout)
	s.router = service.NewQuestionRouter(repos.question)
	s.evaluator = service.NewEvaluator(s.ai)
	s.interview = service.NewInterviewService(repos.session, s.router, s.evaluator, s.ai)
	s.storage = service.NewStorageService(cfg)

	// 数据库未启用时不传入，避免出现持有 nil 指针的非空接口
	var records service.ReportStore
	if repos.report != nil {
		records = repos.report
	}
	s.report = service.NewReportService(a.renderer, s.storage, records, cfg.Report.Archive, cfg.Report.Timeout)

	return s
}

func (a *App) initControllers(repos *repositories, s *services) *controllers {
	return &controllers{
		interview: controller.NewInterviewController(s.interview, &a.Config.Session),
		topic:     controller.NewTopicController(repos.question),
		report:    controller.NewReportController(s.report),
		health:    controller.NewHealthController(a.DB, a.Redis, repos.question, s.ai),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(cfg *config.Config) {
	if cfg.Questions.EagerLoad {
		loaded, err := a.repos.question.Preload()
		if err != nil {
			logger.Log.Error("Failed to preload questions", zap.Error(err))
		} else {
			logger.Log.Info("Questions preloaded", zap.Int("topics", loaded))
		}
	}

	if cfg.Questions.Watch {
		go func() {
			if err := a.repos.question.Watch(a.ctx); err != nil {
				logger.Log.Error("Question watcher stopped", zap.Error(err))
			}
		}()
	}
}

func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{Config: cfg, ctx: ctx, cancel: cancel}
	for _, opt := range opts {
		opt(app)
	}

	if cfg.Database.Enabled {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		app.DB = db
	}

	if cfg.Session.Store == util.SessionStoreRedis {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		app.Redis = rdb
	}

	if app.generator == nil {
		generator, err := ai.NewGenerator(ctx, cfg.AI)
		if err != nil {
			logger.Log.Error("Failed to initialize AI provider, falling back to keyword scoring", zap.Error(err))
			generator = ai.Disabled{}
		}
		app.generator = generator
	}
	logger.Log.Info("AI provider ready", zap.String("provider", cfg.AI.Provider), zap.String("model", app.generator.Model()))

	if app.renderer == nil {
		app.renderer = pdf.NewRodRenderer(cfg.Report.BrowserBin, cfg.Report.ControlURL)
	}

	app.repos = app.initRepositories(cfg)
	app.services = app.initServices(app.repos, cfg)
	controllers := app.initControllers(app.repos, app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("mockview", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal && cfg.Report.Archive {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(cfg)

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		logger.Log.Info("Shutting down server...")
	case err := <-errCh:
		runErr = fmt.Errorf("listen: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
	return runErr
}

// Close 停止后台任务并释放外部资源
func (a *App) Close() {
	a.cancel()

	if closer, ok := a.repos.session.(interface{ Close() }); ok {
		closer.Close()
	}
	if closer, ok := a.renderer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Log.Warn("Failed to close pdf renderer", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	logger.Log.Sync()
}
