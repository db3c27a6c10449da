package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/rules"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/keylock"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	CountActiveByClass(ctx context.Context, classID string) (int, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdatePayment(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, actor string) error
	Delete(ctx context.Context, id string, cascade bool) (int64, error)
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.ClassDetail, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentAttendanceChecker interface {
	ExistsForEnrollment(ctx context.Context, enrollmentID string) (bool, error)
}

// EnrollmentServiceConfig tunes enrollment behaviour.
type EnrollmentServiceConfig struct {
	DeletePolicy string
}

// EnrollmentServiceParams groups constructor dependencies.
type EnrollmentServiceParams struct {
	Repo       enrollmentRepository
	Classes    classFinder
	Students   studentFinder
	Attendance enrollmentAttendanceChecker
	Locks      *keylock.Locker
	Cache      *CacheService
	Events     eventPublisher
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
	Config     EnrollmentServiceConfig
}

// EnrollmentService manages enrollments and their billing state.
type EnrollmentService struct {
	repo       enrollmentRepository
	classes    classFinder
	students   studentFinder
	attendance enrollmentAttendanceChecker
	locks      *keylock.Locker
	cache      *CacheService
	events     eventPublisher
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        EnrollmentServiceConfig
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(params EnrollmentServiceParams) *EnrollmentService {
	cfg := params.Config
	if cfg.DeletePolicy != config.DeletePolicyCascade {
		cfg.DeletePolicy = config.DeletePolicyBlock
	}
	if params.Validator == nil {
		params.Validator = NewValidator()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Locks == nil {
		params.Locks = keylock.New()
	}
	return &EnrollmentService{
		repo:       params.Repo,
		classes:    params.Classes,
		students:   params.Students,
		attendance: params.Attendance,
		locks:      params.Locks,
		cache:      params.Cache,
		events:     params.Events,
		metrics:    params.Metrics,
		validator:  params.Validator,
		logger:     params.Logger,
		cfg:        cfg,
	}
}

func enrollmentLockKey(id string) string { return "enrollment:" + id }

func classLockKey(id string) string { return "class:" + id }

// List returns enrollments with their outstanding balance.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list enrollments")
	}
	for i := range enrollments {
		withBalance(&enrollments[i])
	}
	return enrollments, paginate(filter.Page, filter.PageSize, total), nil
}

// ListByClass returns the full roster of a class.
func (s *EnrollmentService) ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list class enrollments")
	}
	for i := range enrollments {
		withBalance(&enrollments[i])
	}
	return enrollments, nil
}

// Get returns one enrollment with names and balance.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	withBalance(detail)
	return detail, nil
}

// Create enrolls a student into a class. The payment status is derived from
// the amounts, and a class at capacity refuses new active enrollments.
func (s *EnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest, actor string) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid enrollment payload")
	}
	enrollment := &models.Enrollment{
		StudentID:      req.StudentID,
		ClassID:        req.ClassID,
		Term:           req.Term,
		StartSession:   req.StartSession,
		TotalAmount:    amountOf(req.TotalAmount),
		Discount:       amountOf(req.Discount),
		PaidAmount:     amountOf(req.PaidAmount),
		PaymentType:    req.PaymentType,
		PaymentExpired: parseOptionalDate(req.PaymentExpired),
		Status:         models.EnrollmentStatusActive,
		CreatedBy:      actor,
		UpdatedBy:      actor,
	}
	if err := rules.ValidateAmounts(enrollment.TotalAmount, enrollment.Discount, enrollment.PaidAmount); err != nil {
		return nil, rules.AsAppError(err)
	}
	rules.ApplyPayment(enrollment)

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		return nil, lookupError(err, "class not found", "failed to load class")
	}
	if class.TotalSessions > 0 && req.StartSession > class.TotalSessions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_session exceeds the class's total_sessions")
	}

	unlock := s.locks.Lock(classLockKey(class.ID))
	defer unlock()
	if err := s.ensureCapacity(ctx, &class.Class); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student or class not found")
		}
		return nil, appErrors.Storage(err, "failed to create enrollment")
	}

	s.metrics.EnrollmentCreated(string(enrollment.PaymentStatus))
	s.changed(ctx, enrollment.ClassID, enrollment.ID, "created")
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("class_id", enrollment.ClassID),
		zap.String("payment_status", string(enrollment.PaymentStatus)),
		zap.String("actor", actor))

	detail := &models.EnrollmentDetail{
		Enrollment:  *enrollment,
		StudentName: student.FullName(),
		StudentCode: student.StudentCode,
		ClassName:   class.ClassName,
	}
	withBalance(detail)
	return detail, nil
}

// UpdatePayment changes the amounts or payment type and recomputes the
// payment status.
func (s *EnrollmentService) UpdatePayment(ctx context.Context, id string, req dto.UpdatePaymentRequest, actor string) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid payment payload")
	}
	unlock := s.locks.Lock(enrollmentLockKey(id))
	defer unlock()

	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	if req.TotalAmount != nil {
		enrollment.TotalAmount = amountOf(req.TotalAmount)
	}
	if req.Discount != nil {
		enrollment.Discount = amountOf(req.Discount)
	}
	if req.PaidAmount != nil {
		enrollment.PaidAmount = amountOf(req.PaidAmount)
	}
	if req.PaymentType != nil {
		enrollment.PaymentType = *req.PaymentType
	}
	if req.PaymentExpired != nil {
		enrollment.PaymentExpired = parseOptionalDate(*req.PaymentExpired)
	}
	if err := rules.ValidateAmounts(enrollment.TotalAmount, enrollment.Discount, enrollment.PaidAmount); err != nil {
		return nil, rules.AsAppError(err)
	}
	rules.ApplyPayment(enrollment)
	enrollment.UpdatedBy = actor
	if err := s.repo.UpdatePayment(ctx, enrollment); err != nil {
		return nil, appErrors.Storage(err, "failed to update payment")
	}
	s.changed(ctx, enrollment.ClassID, enrollment.ID, "payment")
	return s.Get(ctx, id)
}

// UpdateStatus moves an enrollment through its lifecycle. Re-activating an
// enrollment is subject to the class capacity. The class lock is taken before
// the enrollment lock, and attendance writes hold the latter, so no record is
// created against a status that is being changed.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req dto.UpdateEnrollmentStatusRequest, actor string) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "invalid status payload")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}

	unlockClass := s.locks.Lock(classLockKey(enrollment.ClassID))
	defer unlockClass()
	unlock := s.locks.Lock(enrollmentLockKey(id))
	defer unlock()

	if enrollment, err = s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	if enrollment.Status == req.Status {
		return s.Get(ctx, id)
	}
	if req.Status == models.EnrollmentStatusActive {
		class, err := s.classes.FindByID(ctx, enrollment.ClassID)
		if err != nil {
			return nil, lookupError(err, "class not found", "failed to load class")
		}
		if err := s.ensureCapacity(ctx, &class.Class); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status, actor); err != nil {
		return nil, appErrors.Storage(err, "failed to update enrollment status")
	}
	s.changed(ctx, enrollment.ClassID, id, "status")
	s.logger.Info("enrollment status changed",
		zap.String("enrollment_id", id),
		zap.String("from", string(enrollment.Status)),
		zap.String("to", string(req.Status)),
		zap.String("actor", actor))
	return s.Get(ctx, id)
}

// Delete removes an enrollment. Under the block policy an enrollment with
// attendance history cannot be deleted; under cascade its records go with it.
func (s *EnrollmentService) Delete(ctx context.Context, id, actor string) (*dto.DeleteEnrollmentResponse, error) {
	unlock := s.locks.Lock(enrollmentLockKey(id))
	defer unlock()

	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment not found", "failed to load enrollment")
	}
	cascade := s.cfg.DeletePolicy == config.DeletePolicyCascade
	if !cascade {
		hasHistory, err := s.attendance.ExistsForEnrollment(ctx, id)
		if err != nil {
			return nil, appErrors.Storage(err, "failed to check attendance history")
		}
		if hasHistory {
			return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment has attendance records")
		}
	}
	removed, err := s.repo.Delete(ctx, id, cascade)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment has attendance records")
		}
		return nil, lookupError(err, "enrollment not found", "failed to delete enrollment")
	}
	s.changed(ctx, enrollment.ClassID, id, "deleted")
	if removed > 0 {
		notify(ctx, s.events, s.logger, realtime.Event{Topic: realtime.TopicAttendance, ClassID: enrollment.ClassID, EntityID: id, Action: "deleted"})
	}
	s.logger.Info("enrollment deleted",
		zap.String("enrollment_id", id),
		zap.Int64("attendance_removed", removed),
		zap.String("actor", actor))
	return &dto.DeleteEnrollmentResponse{ID: id, AttendanceRemoved: removed}, nil
}

func (s *EnrollmentService) ensureCapacity(ctx context.Context, class *models.Class) error {
	if class.MaxStudents <= 0 {
		return nil
	}
	active, err := s.repo.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return appErrors.Storage(err, "failed to count class enrollments")
	}
	if active >= class.MaxStudents {
		return appErrors.Clone(appErrors.ErrConflict, "class is full")
	}
	return nil
}

func (s *EnrollmentService) changed(ctx context.Context, classID, id, action string) {
	_ = s.cache.InvalidateClass(ctx, classID)
	notify(ctx, s.events, s.logger, realtime.Event{Topic: realtime.TopicEnrollments, ClassID: classID, EntityID: id, Action: action})
}

func withBalance(detail *models.EnrollmentDetail) {
	detail.Balance = rules.OutstandingBalance(detail.TotalAmount, detail.Discount, detail.PaidAmount)
}
