package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/pkg/config"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert attendance: %w", &pq.Error{Code: UniqueViolation, Constraint: "attendance_enrollment_session_key"})
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "attendance_enrollment_session_key"))
	assert.False(t, IsUniqueViolation(err, "students_student_code_key"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "school", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=school sslmode=disable", dsn)
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete: %w", &pq.Error{Code: ForeignKeyViolation})))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: UniqueViolation}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE enrollments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE enrollments SET paid_amount = 0")
		return err
	}))

	boom := errors.New("class full")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = WithTx(context.Background(), db, func(*sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
