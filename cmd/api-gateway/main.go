package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/rules"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/migrations"
	"github.com/noah-isme/school-portal-api/pkg/cache"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
	"github.com/noah-isme/school-portal-api/pkg/keylock"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

// @title School Portal API
// @version 1.0.0
// @description Enrollment, attendance and insurance tracking for a multi-branch school portal.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db.DB); err != nil {
			logr.Sugar().Fatalw("migrations failed", "error", err)
		}
		logr.Info("database migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	broker, err := newBroker(cfg, db, logr)
	if err != nil {
		logr.Sugar().Fatalw("realtime broker failed", "error", err)
	}
	hub := realtime.NewHub(broker, logr.Named("realtime"))
	go hub.Run(ctx)

	app, err := buildApp(ctx, cfg, db, redisClient != nil, repository.NewCacheRepository(redisClient, cfg.Redis.KeyPrefix, logr), hub, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build services", "error", err)
	}
	app.checks = map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		app.checks["redis"] = cache.HealthCheck{Client: redisClient}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Insurance.SweepSchedule, func() {
		app.insurance.Sweep(context.Background())
	}); err != nil {
		logr.Sugar().Fatalw("invalid insurance sweep schedule", "schedule", cfg.Insurance.SweepSchedule, "error", err)
	}
	if _, err := scheduler.AddFunc(cfg.Exports.CleanupSchedule, func() {
		app.exports.Cleanup(context.Background())
	}); err != nil {
		logr.Sugar().Fatalw("invalid export cleanup schedule", "schedule", cfg.Exports.CleanupSchedule, "error", err)
	}
	scheduler.Start()

	router := newRouter(cfg, app, logr)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("http shutdown incomplete", "error", err)
	}
	<-scheduler.Stop().Done()
	app.queue.Stop()
	if err := hub.Close(); err != nil {
		logr.Sugar().Warnw("realtime hub close failed", "error", err)
	}
}

func newBroker(cfg *config.Config, db *sqlx.DB, logr *zap.Logger) (realtime.Broker, error) {
	if cfg.Realtime.Broker == "postgres" {
		return realtime.NewPostgresBroker(db, database.DSN(cfg.Database), cfg.Realtime.Channel, logr.Named("broker"))
	}
	return realtime.NewLocalBroker(256), nil
}

// app holds the wired services the router and background jobs need.
type app struct {
	checks     map[string]handler.Pinger
	metrics    *service.MetricsService
	tokens     *service.TokenService
	audit      *repository.AuditRepository
	branches   *service.BranchService
	programs   *service.ProgramService
	classes    *service.ClassService
	students   *service.StudentService
	enrollment *service.EnrollmentService
	attendance *service.AttendanceService
	reports    *service.ReportService
	exports    *service.ExportService
	insurance  *service.InsuranceService
	dashboard  *service.DashboardService
	feeds      *service.FeedService
	queue      *jobs.Queue
}

func buildApp(ctx context.Context, cfg *config.Config, db *sqlx.DB, cacheEnabled bool, cacheRepo *repository.CacheRepository, hub *realtime.Hub, logr *zap.Logger) (*app, error) {
	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Attendance.ReportCacheTTL, logr.Named("cache"), cacheEnabled)
	locks := keylock.New()

	branchRepo := repository.NewBranchRepository(db)
	programRepo := repository.NewProgramRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	exportRepo := repository.NewExportRepository(db)

	enrollmentSvc := service.NewEnrollmentService(service.EnrollmentServiceParams{
		Repo:       enrollmentRepo,
		Classes:    classRepo,
		Students:   studentRepo,
		Attendance: attendanceRepo,
		Locks:      locks,
		Cache:      cacheSvc,
		Events:     hub,
		Metrics:    metrics,
		Validator:  validate,
		Logger:     logr.Named("enrollment"),
		Config:     service.EnrollmentServiceConfig{DeletePolicy: cfg.Enrollment.DeletePolicy},
	})
	attendanceSvc := service.NewAttendanceService(service.AttendanceServiceParams{
		Repo:        attendanceRepo,
		Enrollments: enrollmentRepo,
		Locks:       locks,
		Cache:       cacheSvc,
		Events:      hub,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr.Named("attendance"),
	})
	reportSvc := service.NewReportService(classRepo, enrollmentRepo, attendanceRepo, cacheSvc, metrics, logr.Named("report"), service.ReportServiceConfig{
		DefaultDenominator: rules.DenominatorMode(cfg.Attendance.ReportDenominator),
		CacheTTL:           cfg.Attendance.ReportCacheTTL,
	})

	store, err := storage.NewDiskStore(cfg.Exports.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("export storage: %w", err)
	}
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Repo:      exportRepo,
		Classes:   classRepo,
		Reports:   reportSvc,
		Store:     store,
		Signer:    storage.NewURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		Renderers: service.DefaultRenderers(),
		Metrics:   metrics,
		Logger:    logr.Named("export"),
		Config:    service.ExportServiceConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
	})
	queue := jobs.NewQueue("exports", exportSvc.Handle, jobs.Config{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Timeout:    cfg.Exports.JobTimeout,
		Retryable:  appErrors.IsRetryable,
		OnGiveUp:   exportSvc.GiveUp,
		Logger:     logr,
	})
	exportSvc.SetQueue(queue)
	queue.Start(ctx)
	exportSvc.RecoverPending(ctx)

	insuranceSvc := service.NewInsuranceService(studentRepo, cacheSvc, metrics, logr.Named("insurance"), service.InsuranceServiceConfig{
		ExpiringWindow: cfg.Insurance.ExpiringWindow,
		VerifyBaseURL:  cfg.Insurance.VerifyBaseURL,
		CacheTTL:       cfg.Insurance.CacheTTL,
	})
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})

	return &app{
		metrics:    metrics,
		tokens:     tokenSvc,
		audit:      repository.NewAuditRepository(db),
		branches:   service.NewBranchService(branchRepo, validate, logr.Named("branch")),
		programs:   service.NewProgramService(programRepo, branchRepo, validate, logr.Named("program")),
		classes:    service.NewClassService(classRepo, programRepo, validate, logr.Named("class")),
		students:   service.NewStudentService(studentRepo, enrollmentRepo, cacheSvc, validate, logr.Named("student")),
		enrollment: enrollmentSvc,
		attendance: attendanceSvc,
		reports:    reportSvc,
		exports:    exportSvc,
		insurance:  insuranceSvc,
		dashboard:  service.NewDashboardService(studentRepo, enrollmentRepo, attendanceRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr.Named("dashboard")),
		feeds:      service.NewFeedService(attendanceRepo, enrollmentRepo, hub),
		queue:      queue,
	}, nil
}
