package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type studentCounter interface {
	Count(ctx context.Context) (int, error)
}

type enrollmentTotaler interface {
	Totals(ctx context.Context) (*models.EnrollmentTotals, error)
}

type attendanceSplitter interface {
	Split(ctx context.Context, day models.Date) (*models.AttendanceSplit, error)
}

// DashboardService composes the admin dashboard headline counts.
type DashboardService struct {
	students    studentCounter
	enrollments enrollmentTotaler
	attendance  attendanceSplitter
	cache       *CacheService
	logger      *zap.Logger
	ttl         time.Duration
	now         func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students studentCounter, enrollments enrollmentTotaler, attendance attendanceSplitter, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardService{
		students:    students,
		enrollments: enrollments,
		attendance:  attendance,
		cache:       cache,
		logger:      logger,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Summary returns the dashboard counts and whether they came from cache.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	return readThrough(ctx, s.cache, dashboardCacheKey, s.ttl, s.build)
}

func (s *DashboardService) build(ctx context.Context) (*models.DashboardSummary, error) {
	students, err := s.students.Count(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to count students")
	}
	totals, err := s.enrollments.Totals(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to total enrollments")
	}
	now := s.now()
	split, err := s.attendance.Split(ctx, models.NewDate(now))
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load today's attendance")
	}
	s.logger.Debug("dashboard summary rebuilt", zap.Int("students", students), zap.Int("active", totals.Active))
	return &models.DashboardSummary{
		Students:           students,
		ActiveEnrollments:  totals.Active,
		UnpaidEnrollments:  totals.Unpaid,
		OutstandingBalance: totals.Outstanding,
		CollectedAmount:    totals.Collected,
		Today:              *split,
		GeneratedAt:        now.UTC(),
	}, nil
}
