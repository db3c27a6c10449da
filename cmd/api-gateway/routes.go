package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, a *app, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(a.metrics))

	ops := handler.NewMetricsHandler(a.metrics, a.checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	setup := handler.NewSetupHandler(a.branches, a.programs, a.classes)
	students := handler.NewStudentHandler(a.students)
	enrollments := handler.NewEnrollmentHandler(a.enrollment)
	attendance := handler.NewAttendanceHandler(a.attendance)
	reports := handler.NewReportHandler(a.reports, a.exports)
	insurance := handler.NewInsuranceHandler(a.insurance)
	dashboard := handler.NewDashboardHandler(a.dashboard)
	feeds := handler.NewRealtimeHandler(a.feeds, cfg.CORS.AllowedOrigins, cfg.Realtime.PingInterval, logr.Named("ws"))

	api := r.Group(cfg.APIPrefix)
	// The signed token is the credential for downloads.
	api.GET("/exports/download", reports.Download)

	if cfg.Realtime.Enabled {
		ws := r.Group("/ws", middleware.JWT(a.tokens))
		ws.GET("/attendance", feeds.Attendance)
		ws.GET("/enrollments", feeds.Enrollments)
	}

	secured := api.Group("", middleware.JWT(a.tokens), middleware.Timeout(cfg.RequestTimeout))

	admin := middleware.RequireRoles(models.RoleAdmin)
	office := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)
	marking := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff, models.RoleTeacher)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(a.audit, action, resource, logr)
	}

	secured.GET("/branches", setup.ListBranches)
	secured.GET("/branches/:id", setup.GetBranch)
	secured.POST("/branches", admin, audit(models.AuditActionCreate, models.AuditResourceBranch), setup.CreateBranch)
	secured.PUT("/branches/:id", admin, audit(models.AuditActionUpdate, models.AuditResourceBranch), setup.UpdateBranch)
	secured.DELETE("/branches/:id", admin, audit(models.AuditActionDelete, models.AuditResourceBranch), setup.DeleteBranch)

	secured.GET("/programs", setup.ListPrograms)
	secured.POST("/programs", admin, audit(models.AuditActionCreate, models.AuditResourceProgram), setup.CreateProgram)

	secured.GET("/classes", setup.ListClasses)
	secured.GET("/classes/:id", setup.GetClass)
	secured.POST("/classes", admin, audit(models.AuditActionCreate, models.AuditResourceClass), setup.CreateClass)
	secured.GET("/classes/:id/attendance-report", marking, reports.AttendanceReport)
	secured.POST("/classes/:id/attendance-report/exports", marking, audit(models.AuditActionExport, models.AuditResourceExport), reports.CreateExport)
	secured.GET("/exports/:id", marking, reports.ExportStatus)

	secured.GET("/students", office, students.List)
	secured.GET("/students/:id", office, students.Get)
	secured.POST("/students", office, audit(models.AuditActionCreate, models.AuditResourceStudent), students.Create)
	secured.PUT("/students/:id", office, audit(models.AuditActionUpdate, models.AuditResourceStudent), students.Update)
	secured.DELETE("/students/:id", admin, audit(models.AuditActionDelete, models.AuditResourceStudent), students.Delete)

	secured.GET("/enrollments", marking, enrollments.List)
	secured.GET("/enrollments/:id", marking, enrollments.Get)
	secured.POST("/enrollments", office, audit(models.AuditActionCreate, models.AuditResourceEnrollment), enrollments.Create)
	secured.PATCH("/enrollments/:id/payment", office, audit(models.AuditActionUpdatePayment, models.AuditResourceEnrollment), enrollments.UpdatePayment)
	secured.PATCH("/enrollments/:id/status", office, audit(models.AuditActionUpdateStatus, models.AuditResourceEnrollment), enrollments.UpdateStatus)
	secured.DELETE("/enrollments/:id", admin, audit(models.AuditActionDelete, models.AuditResourceEnrollment), enrollments.Delete)

	markAudit := audit(models.AuditActionMark, models.AuditResourceAttendance)
	secured.GET("/attendance", marking, attendance.List)
	secured.POST("/attendance", marking, markAudit, attendance.Create)
	secured.PUT("/attendance", marking, markAudit, attendance.Update)
	secured.PUT("/attendance/:id", marking, markAudit, attendance.Update)
	secured.POST("/attendance/quick-mark", marking, audit(models.AuditActionQuickMark, models.AuditResourceAttendance), attendance.QuickMark)

	secured.GET("/insurance/policies", office, insurance.Policies)
	secured.GET("/insurance/stats", office, insurance.Stats)
	secured.GET("/insurance/policies/:studentId/card.png", office, insurance.Card)

	secured.GET("/dashboard/summary", office, dashboard.Summary)

	return r
}
