package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
)

type attendanceFixture struct {
	svc         *AttendanceService
	records     *fakeAttendanceStore
	enrollments *fakeEnrollmentStore
	events      *fakePublisher
}

func newAttendanceFixture(items ...models.Enrollment) attendanceFixture {
	records := newFakeAttendanceStore()
	enrollments := newFakeEnrollmentStore(items...)
	events := &fakePublisher{}
	svc := NewAttendanceService(AttendanceServiceParams{
		Repo:        records,
		Enrollments: enrollments,
		Events:      events,
	})
	return attendanceFixture{svc: svc, records: records, enrollments: enrollments, events: events}
}

func activeEnrollment(id string, startSession int) models.Enrollment {
	return models.Enrollment{
		ID:           id,
		StudentID:    "stu-" + id,
		ClassID:      "class-1",
		StartSession: startSession,
		Status:       models.EnrollmentStatusActive,
	}
}

func createReq(e models.Enrollment, session int) dto.CreateAttendanceRequest {
	return dto.CreateAttendanceRequest{
		EnrollmentID:  e.ID,
		ClassID:       e.ClassID,
		StudentID:     e.StudentID,
		SessionNumber: session,
		SessionDate:   "2024-03-04",
		Status:        models.AttendanceStatusPresent,
	}
}

func requireAppError(t *testing.T, err error, status int, rule string) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, rule, appErr.Rule)
	return appErr
}

func TestAttendanceCreateGuardOrder(t *testing.T) {
	held := activeEnrollment("held", 3)
	held.Status = models.EnrollmentStatusHold
	fx := newAttendanceFixture(activeEnrollment("e1", 3), held)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, dto.CreateAttendanceRequest{
		EnrollmentID: "missing", ClassID: "c", StudentID: "s", SessionNumber: 1,
		SessionDate: "2024-03-04", Status: models.AttendanceStatusPresent,
	}, "Rina")
	requireAppError(t, err, http.StatusNotFound, "")

	// before-start wins over hold
	_, err = fx.svc.Create(ctx, createReq(held, 1), "Rina")
	requireAppError(t, err, http.StatusBadRequest, "BEFORE_START_SESSION")

	_, err = fx.svc.Create(ctx, createReq(held, 3), "Rina")
	requireAppError(t, err, http.StatusBadRequest, "ENROLLMENT_ON_HOLD")

	e1 := activeEnrollment("e1", 3)
	record, err := fx.svc.Create(ctx, createReq(e1, 3), "Rina")
	require.NoError(t, err)
	assert.Equal(t, "Rina", record.RecordedBy)
	assert.Equal(t, "class-1", record.ClassID)

	_, err = fx.svc.Create(ctx, createReq(e1, 3), "Rina")
	appErr := requireAppError(t, err, http.StatusConflict, "")
	assert.Equal(t, "Attendance already recorded for this session", appErr.Message)

	assert.Equal(t, []string{realtime.TopicAttendance}, fx.events.topics())
}

func TestAttendanceCreateRejectsMismatchedIdentity(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)
	req := createReq(e, 1)
	req.StudentID = "someone-else"

	_, err := fx.svc.Create(context.Background(), req, "Rina")
	requireAppError(t, err, http.StatusBadRequest, "")
	assert.Zero(t, fx.records.count())
}

func TestAttendanceCreateValidatesPayload(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)
	req := createReq(e, 1)
	req.SessionDate = "04/03/2024"

	_, err := fx.svc.Create(context.Background(), req, "Rina")
	appErr := requireAppError(t, err, http.StatusBadRequest, "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceConcurrentCreateSingleWinner(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.Create(context.Background(), createReq(e, 2), "Rina")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if appErrors.FromError(err).Status == http.StatusConflict {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 19, conflicts)
	assert.Equal(t, 1, fx.records.count())
}

func TestAttendanceUpdateBypassesGuard(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)
	ctx := context.Background()
	record, err := fx.svc.Create(ctx, createReq(e, 1), "Rina")
	require.NoError(t, err)

	held := e
	held.Status = models.EnrollmentStatusHold
	fx.enrollments.enrollments[e.ID] = held

	updated, err := fx.svc.Update(ctx, record.ID, dto.UpdateAttendanceRequest{
		Status: models.AttendanceStatusAbsent,
		Reason: " sick ",
	}, "Dara")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusAbsent, updated.Status)
	assert.Equal(t, "sick", updated.Reason)
	assert.Equal(t, "Dara", updated.RecordedBy)

	_, err = fx.svc.Update(ctx, "nope", dto.UpdateAttendanceRequest{Status: models.AttendanceStatusAbsent}, "Dara")
	requireAppError(t, err, http.StatusNotFound, "")

	_, err = fx.svc.Update(ctx, "", dto.UpdateAttendanceRequest{Status: models.AttendanceStatusAbsent}, "Dara")
	requireAppError(t, err, http.StatusBadRequest, "")
}

func TestAttendanceListUnfilteredIsPaged(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)
	ctx := context.Background()
	_, err := fx.svc.Create(ctx, createReq(e, 1), "Rina")
	require.NoError(t, err)

	records, err := fx.svc.List(ctx, models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, fx.records.lastFilter.Page)

	_, err = fx.svc.List(ctx, models.AttendanceFilter{ClassID: "class-1"})
	require.NoError(t, err)
	assert.False(t, fx.records.lastFilter.Paged())
}

func quickReq(enrollmentID string, session int, token, note string) dto.QuickMarkRequest {
	return dto.QuickMarkRequest{
		EnrollmentID:  enrollmentID,
		SessionNumber: session,
		SessionDate:   "2024-03-04",
		Token:         token,
		Note:          note,
	}
}

func TestAttendanceQuickMark(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)
	ctx := context.Background()

	resp, err := fx.svc.QuickMark(ctx, quickReq("e1", 1, "p", ""), "Rina")
	require.NoError(t, err)
	assert.Equal(t, dto.QuickMarkCreated, resp.Outcome)
	assert.Equal(t, "P", resp.Display)
	assert.Equal(t, models.AttendanceStatusPresent, resp.Record.Status)

	resp, err = fx.svc.QuickMark(ctx, quickReq("e1", 1, "P", ""), "Rina")
	require.NoError(t, err)
	assert.Equal(t, dto.QuickMarkUnchanged, resp.Outcome)

	resp, err = fx.svc.QuickMark(ctx, quickReq("e1", 1, "A", ""), "Rina")
	require.NoError(t, err)
	assert.Equal(t, dto.QuickMarkUpdated, resp.Outcome)
	assert.Equal(t, models.AttendanceStatusAbsent, resp.Record.Status)

	t.Run("make-up requires note", func(t *testing.T) {
		_, err := fx.svc.QuickMark(ctx, quickReq("e1", 2, "M", "  "), "Rina")
		appErr := requireAppError(t, err, http.StatusBadRequest, "")
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		assert.Equal(t, 1, fx.records.count())
	})

	t.Run("make-up with note", func(t *testing.T) {
		resp, err := fx.svc.QuickMark(ctx, quickReq("e1", 2, "m", "Sat 10am"), "Rina")
		require.NoError(t, err)
		assert.Equal(t, dto.QuickMarkCreated, resp.Outcome)
		assert.Equal(t, "M", resp.Display)
		assert.Equal(t, models.MakeUpReasonPrefix+"Sat 10am", resp.Record.Reason)

		// an empty note keeps the saved make-up note
		resp, err = fx.svc.QuickMark(ctx, quickReq("e1", 2, "M", ""), "Rina")
		require.NoError(t, err)
		assert.Equal(t, dto.QuickMarkUnchanged, resp.Outcome)

		resp, err = fx.svc.QuickMark(ctx, quickReq("e1", 2, "M", "Sun 9am"), "Rina")
		require.NoError(t, err)
		assert.Equal(t, dto.QuickMarkUpdated, resp.Outcome)
		assert.Equal(t, models.MakeUpReasonPrefix+"Sun 9am", resp.Record.Reason)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := fx.svc.QuickMark(ctx, quickReq("e1", 3, "X", ""), "Rina")
		requireAppError(t, err, http.StatusBadRequest, "")
	})
}

func TestAttendanceQuickMarkGuardOnlyOnCreate(t *testing.T) {
	e := activeEnrollment("e1", 1)
	fx := newAttendanceFixture(e)
	ctx := context.Background()
	_, err := fx.svc.QuickMark(ctx, quickReq("e1", 1, "P", ""), "Rina")
	require.NoError(t, err)

	held := e
	held.Status = models.EnrollmentStatusHold
	fx.enrollments.enrollments[e.ID] = held

	_, err = fx.svc.QuickMark(ctx, quickReq("e1", 2, "P", ""), "Rina")
	requireAppError(t, err, http.StatusBadRequest, "ENROLLMENT_ON_HOLD")

	resp, err := fx.svc.QuickMark(ctx, quickReq("e1", 1, "L", ""), "Rina")
	require.NoError(t, err)
	assert.Equal(t, dto.QuickMarkUpdated, resp.Outcome)
	assert.Equal(t, models.AttendanceStatusPermission, resp.Record.Status)

	_, err = fx.svc.QuickMark(ctx, quickReq("missing", 1, "P", ""), "Rina")
	requireAppError(t, err, http.StatusNotFound, "")
}
