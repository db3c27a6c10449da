package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type enrollmentServiceMock struct {
	filter    models.EnrollmentFilter
	actor     string
	deleteErr error
	created   dto.CreateEnrollmentRequest
	payment   dto.UpdatePaymentRequest
	status    dto.UpdateEnrollmentStatusRequest
}

func (m *enrollmentServiceMock) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	m.filter = filter
	return []models.EnrollmentDetail{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 0}, nil
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
}

func (m *enrollmentServiceMock) Create(ctx context.Context, req dto.CreateEnrollmentRequest, actor string) (*models.EnrollmentDetail, error) {
	m.created = req
	m.actor = actor
	return &models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) UpdatePayment(ctx context.Context, id string, req dto.UpdatePaymentRequest, actor string) (*models.EnrollmentDetail, error) {
	m.payment = req
	m.actor = actor
	return &models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) UpdateStatus(ctx context.Context, id string, req dto.UpdateEnrollmentStatusRequest, actor string) (*models.EnrollmentDetail, error) {
	m.status = req
	m.actor = actor
	return &models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) Delete(ctx context.Context, id, actor string) (*dto.DeleteEnrollmentResponse, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &dto.DeleteEnrollmentResponse{ID: id, AttendanceRemoved: 4}, nil
}

func TestEnrollmentHandlerListFilters(t *testing.T) {
	svc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(svc)
	c, w := newGinContext(http.MethodGet, "/enrollments?studentId=stu-1&classId=class-2&status=Hold&page=2&limit=5", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", svc.filter.StudentID)
	assert.Equal(t, "class-2", svc.filter.ClassID)
	assert.Equal(t, models.EnrollmentStatusHold, svc.filter.Status)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 5, svc.filter.PageSize)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
}

func TestEnrollmentHandlerCreateUsesCallerIdentity(t *testing.T) {
	svc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(svc)
	body := []byte(`{"student_id":"stu-1","class_id":"class-1","start_session":1,"total_amount":"1500000","paid_amount":"500000","payment_type":"Cash"}`)
	c, w := newGinContext(http.MethodPost, "/enrollments", body)
	withClaims(c, teacherClaims)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Rina Teacher", svc.actor)
	require.NotNil(t, svc.created.PaidAmount)
	assert.Equal(t, "500000", svc.created.PaidAmount.String())
}

func TestEnrollmentHandlerAcceptsNumericAmounts(t *testing.T) {
	svc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(svc)
	body := []byte(`{"student_id":"stu-1","class_id":"class-1","start_session":1,"total_amount":100,"discount":0,"paid_amount":99.5,"payment_type":"Cash"}`)
	c, w := newGinContext(http.MethodPost, "/enrollments", body)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created.TotalAmount)
	assert.Equal(t, "100", svc.created.TotalAmount.String())
	assert.True(t, svc.created.Discount.IsZero())
	assert.Equal(t, "99.5", svc.created.PaidAmount.String())

	c, w = newGinContext(http.MethodPatch, "/enrollments/enr-1/payment", []byte(`{"paid_amount":150}`))
	c.AddParam("id", "enr-1")

	h.UpdatePayment(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.payment.PaidAmount)
	assert.Equal(t, "150", svc.payment.PaidAmount.String())
	assert.Nil(t, svc.payment.TotalAmount)
}

func TestEnrollmentHandlerUpdateStatusBindsField(t *testing.T) {
	svc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(svc)
	c, w := newGinContext(http.MethodPatch, "/enrollments/enr-1/status", []byte(`{"enrollment_status":"Hold"}`))
	c.AddParam("id", "enr-1")

	h.UpdateStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentStatusHold, svc.status.Status)
}

func TestEnrollmentHandlerDelete(t *testing.T) {
	t.Run("cascade summary", func(t *testing.T) {
		h := NewEnrollmentHandler(&enrollmentServiceMock{})
		c, w := newGinContext(http.MethodDelete, "/enrollments/enr-1", nil)
		c.AddParam("id", "enr-1")

		h.Delete(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"attendance_removed":4`)
	})

	t.Run("blocked", func(t *testing.T) {
		h := NewEnrollmentHandler(&enrollmentServiceMock{deleteErr: appErrors.Clone(appErrors.ErrConflict, "enrollment has attendance records")})
		c, w := newGinContext(http.MethodDelete, "/enrollments/enr-1", nil)
		c.AddParam("id", "enr-1")

		h.Delete(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEnrollmentHandlerGetNotFound(t *testing.T) {
	h := NewEnrollmentHandler(&enrollmentServiceMock{})
	c, w := newGinContext(http.MethodGet, "/enrollments/x", nil)
	c.AddParam("id", "x")

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decodeEnvelope(t, w).Error.Code)
}
