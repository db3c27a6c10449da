package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/rules"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/keylock"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
)

type attendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	FindBySession(ctx context.Context, enrollmentID string, session int) (*models.Attendance, error)
	Exists(ctx context.Context, enrollmentID string, session int) (bool, error)
	UpdateMark(ctx context.Context, record *models.Attendance) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
}

type enrollmentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

// AttendanceServiceParams groups constructor dependencies.
type AttendanceServiceParams struct {
	Repo        attendanceRepository
	Enrollments enrollmentFinder
	Locks       *keylock.Locker
	Cache       *CacheService
	Events      eventPublisher
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// AttendanceService records per-session attendance under the eligibility rules.
type AttendanceService struct {
	repo        attendanceRepository
	enrollments enrollmentFinder
	locks       *keylock.Locker
	cache       *CacheService
	events      eventPublisher
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceService constructs the attendance service. Locks must be the
// locker shared with EnrollmentService so deletes and writes serialise.
func NewAttendanceService(params AttendanceServiceParams) *AttendanceService {
	if params.Validator == nil {
		params.Validator = NewValidator()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Locks == nil {
		params.Locks = keylock.New()
	}
	return &AttendanceService{
		repo:        params.Repo,
		enrollments: params.Enrollments,
		locks:       params.Locks,
		cache:       params.Cache,
		events:      params.Events,
		metrics:     params.Metrics,
		validator:   params.Validator,
		logger:      params.Logger,
	}
}

// Create stores the first record of an enrollment session.
func (s *AttendanceService) Create(ctx context.Context, req dto.CreateAttendanceRequest, actor string) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid attendance payload")
	}
	sessionDate, _ := models.ParseDate(req.SessionDate)

	unlock := s.locks.Lock(enrollmentLockKey(req.EnrollmentID))
	defer unlock()

	enrollment, err := s.loadEnrollment(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	existing := false
	if enrollment != nil {
		if existing, err = s.repo.Exists(ctx, enrollment.ID, req.SessionNumber); err != nil {
			return nil, appErrors.Storage(err, "failed to check attendance")
		}
	}
	if err := s.guard(enrollment, req.SessionNumber, existing); err != nil {
		return nil, err
	}
	if enrollment.ClassID != req.ClassID || enrollment.StudentID != req.StudentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class_id and student_id must match the enrollment")
	}

	record := &models.Attendance{
		EnrollmentID:  enrollment.ID,
		ClassID:       enrollment.ClassID,
		StudentID:     enrollment.StudentID,
		SessionNumber: req.SessionNumber,
		SessionDate:   sessionDate,
		Status:        req.Status,
		Reason:        strings.TrimSpace(req.Reason),
		RecordedBy:    actor,
	}
	if err := s.insert(ctx, record); err != nil {
		return nil, err
	}
	s.metrics.AttendanceWritten("create")
	s.changed(ctx, record, "created")
	return record, nil
}

// Update overwrites status and reason of an existing record. The eligibility
// rules are not re-applied.
func (s *AttendanceService) Update(ctx context.Context, id string, req dto.UpdateAttendanceRequest, actor string) (*models.Attendance, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid attendance payload")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "attendance record not found", "failed to load attendance")
	}

	unlock := s.locks.Lock(enrollmentLockKey(record.EnrollmentID))
	defer unlock()

	record.Status = req.Status
	record.Reason = strings.TrimSpace(req.Reason)
	record.RecordedBy = actor
	if err := s.repo.UpdateMark(ctx, record); err != nil {
		return nil, lookupError(err, "attendance record not found", "failed to update attendance")
	}
	s.metrics.AttendanceWritten("update")
	s.changed(ctx, record, "updated")
	return record, nil
}

// List returns records matching filter ordered by session then recording time.
// An unfiltered listing is always paged, starting at the first page.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	if filter.Empty() && !filter.Paged() {
		filter.Page = 1
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list attendance")
	}
	return records, nil
}

// QuickMark applies a shorthand token (P, A, L, M) to an enrollment session,
// creating the record when the session has none.
func (s *AttendanceService) QuickMark(ctx context.Context, req dto.QuickMarkRequest, actor string) (*dto.QuickMarkResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid quick mark payload")
	}
	sessionDate, _ := models.ParseDate(req.SessionDate)

	unlock := s.locks.Lock(enrollmentLockKey(req.EnrollmentID))
	defer unlock()

	enrollment, err := s.loadEnrollment(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	var existing *models.Attendance
	if enrollment != nil {
		existing, err = s.repo.FindBySession(ctx, enrollment.ID, req.SessionNumber)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Storage(err, "failed to load attendance")
		}
	}
	if existing == nil {
		if err := s.guard(enrollment, req.SessionNumber, false); err != nil {
			return nil, err
		}
	}

	var saved *rules.Mark
	if existing != nil {
		if mark, err := rules.DecodeMark(existing.Status, existing.Reason); err == nil {
			saved = &mark
		}
	}
	change, changed, err := rules.Apply(saved, req.Token, req.Note)
	if err != nil {
		if reason, ok := rules.ReasonOf(err); ok {
			s.metrics.AttendanceRejected(string(reason))
		}
		return nil, rules.AsAppError(err)
	}

	if !changed {
		return &dto.QuickMarkResponse{
			Outcome: dto.QuickMarkUnchanged,
			Display: rules.DisplayToken(existing.Status, existing.Reason),
			Record:  existing,
		}, nil
	}

	if existing != nil {
		existing.Status = change.Status
		existing.Reason = change.Reason
		existing.SessionDate = sessionDate
		existing.RecordedBy = actor
		if err := s.repo.UpdateMark(ctx, existing); err != nil {
			return nil, lookupError(err, "attendance record not found", "failed to update attendance")
		}
		s.metrics.AttendanceWritten("quick_mark")
		s.changed(ctx, existing, "updated")
		return &dto.QuickMarkResponse{
			Outcome: dto.QuickMarkUpdated,
			Display: rules.DisplayToken(existing.Status, existing.Reason),
			Record:  existing,
		}, nil
	}

	record := &models.Attendance{
		EnrollmentID:  enrollment.ID,
		ClassID:       enrollment.ClassID,
		StudentID:     enrollment.StudentID,
		SessionNumber: req.SessionNumber,
		SessionDate:   sessionDate,
		Status:        change.Status,
		Reason:        change.Reason,
		RecordedBy:    actor,
	}
	if err := s.insert(ctx, record); err != nil {
		return nil, err
	}
	s.metrics.AttendanceWritten("quick_mark")
	s.changed(ctx, record, "created")
	return &dto.QuickMarkResponse{
		Outcome: dto.QuickMarkCreated,
		Display: rules.DisplayToken(record.Status, record.Reason),
		Record:  record,
	}, nil
}

// loadEnrollment returns nil without error when the enrollment does not exist
// so the guard reports it.
func (s *AttendanceService) loadEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Storage(err, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *AttendanceService) guard(enrollment *models.Enrollment, session int, existing bool) error {
	err := rules.CanRecordAttendance(enrollment, session, existing)
	if err == nil {
		return nil
	}
	if reason, ok := rules.ReasonOf(err); ok {
		s.metrics.AttendanceRejected(string(reason))
		s.logger.Debug("attendance rejected", zap.String("rule", string(reason)), zap.Int("session", session))
	}
	return rules.AsAppError(err)
}

func (s *AttendanceService) insert(ctx context.Context, record *models.Attendance) error {
	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			s.metrics.AttendanceRejected(string(rules.ReasonDuplicateSession))
			return appErrors.Clone(appErrors.ErrConflict, "Attendance already recorded for this session")
		}
		return appErrors.Storage(err, "failed to record attendance")
	}
	return nil
}

func (s *AttendanceService) changed(ctx context.Context, record *models.Attendance, action string) {
	_ = s.cache.InvalidateClass(ctx, record.ClassID)
	notify(ctx, s.events, s.logger, realtime.Event{
		Topic:    realtime.TopicAttendance,
		ClassID:  record.ClassID,
		EntityID: record.ID,
		Action:   action,
	})
}
