package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func TestAttendanceRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").
		WillReturnError(&pq.Error{Code: "23505", Constraint: AttendanceSessionKey})

	err := repo.Create(context.Background(), &models.Attendance{
		EnrollmentID:  "enr-1",
		ClassID:       "class-1",
		StudentID:     "stu-1",
		SessionNumber: 4,
		SessionDate:   models.NewDate(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
		Status:        models.AttendanceStatusPresent,
		RecordedBy:    "Admin",
	})
	assert.ErrorIs(t, err, ErrDuplicateSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.Attendance{EnrollmentID: "enr-1", SessionNumber: 1, Status: models.AttendanceStatusAbsent}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.RecordedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM attendance WHERE enrollment_id = $1 AND session_number = $2 LIMIT 1")).
		WithArgs("enr-1", 2).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.Exists(context.Background(), "enr-1", 2)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListOrdering(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := models.NewDate(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	rows := sqlmock.NewRows([]string{"id", "enrollment_id", "session_number", "session_date", "status", "reason"}).
		AddRow("att-1", "enr-1", 1, "2024-03-04", "Present", "").
		AddRow("att-2", "enr-2", 1, "2024-03-04", "Present", "Make up: Mar 1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE class_id = $1 AND session_date = $2 ORDER BY session_number ASC, recorded_at ASC")).
		WithArgs("class-1", "2024-03-04").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.AttendanceFilter{ClassID: "class-1", SessionDate: &day})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-04", records[1].SessionDate.String())
	assert.Equal(t, "Make up: Mar 1", records[1].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListUnfilteredPage(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "enrollment_id", "session_number", "session_date", "status", "reason"}).
		AddRow("att-3", "enr-1", 3, "2024-03-11", "Absent", "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE 1=1 ORDER BY session_number ASC, recorded_at ASC LIMIT 20 OFFSET 20")).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.AttendanceFilter{Page: 2})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "att-3", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpdateMarkMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMark(context.Background(), &models.Attendance{ID: "gone", Status: models.AttendanceStatusAbsent})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySplit(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE session_date = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"present", "absent", "permission"}).AddRow(7, 2, 1))

	split, err := repo.Split(context.Background(), models.Today())
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceSplit{Present: 7, Absent: 2, Permission: 1}, *split)
	assert.NoError(t, mock.ExpectationsWereMet())
}
