package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
)

type fakeStudentRepo struct {
	students map[string]models.Student
	nextID   int
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]models.Student{}}
}

func (f *fakeStudentRepo) List(context.Context, models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeStudentRepo) ListInsured(context.Context) ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if s.Insurance != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStudentRepo) ExistsByCode(_ context.Context, code, excludeID string) (bool, error) {
	for id, s := range f.students {
		if s.StudentCode == code && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, s *models.Student) error {
	f.nextID++
	s.ID = fmt.Sprintf("stu-%d", f.nextID)
	f.students[s.ID] = *s
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, s *models.Student) error {
	f.students[s.ID] = *s
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id string) error {
	delete(f.students, id)
	return nil
}

func studentReq() dto.StudentRequest {
	return dto.StudentRequest{
		FirstName: "Sokha",
		LastName:  "Chan",
		Gender:    "Female",
		BranchID:  "branch-1",
	}
}

func newTestStudentService(repo *fakeStudentRepo, enrollments *fakeEnrollmentStore) *StudentService {
	svc := NewStudentService(repo, enrollments, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 8, 0, 0, 42_000_000, time.UTC) }
	return svc
}

func TestStudentCreateGeneratesCode(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo, newFakeEnrollmentStore())
	ctx := context.Background()

	seed := svc.now().UnixMilli() % 1000000
	expected := fmt.Sprintf("STU-%06d", seed)

	student, err := svc.Create(ctx, studentReq(), "Rina")
	require.NoError(t, err)
	assert.Equal(t, expected, student.StudentCode)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.Equal(t, "Rina", student.CreatedBy)
	assert.Equal(t, "Rina", student.ModifiedBy)
	require.NotNil(t, student.AdmissionDate)
	assert.Equal(t, "2024-03-04", student.AdmissionDate.String())

	second, err := svc.Create(ctx, studentReq(), "Rina")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("STU-%06d", seed+1), second.StudentCode)
}

func TestStudentCreateRejectsTakenCode(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo, newFakeEnrollmentStore())
	req := studentReq()
	req.StudentCode = "STU-000777"

	_, err := svc.Create(context.Background(), req, "Rina")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), req, "Rina")
	requireAppError(t, err, http.StatusConflict, "")
}

func TestStudentInsuranceDatesValidated(t *testing.T) {
	svc := newTestStudentService(newFakeStudentRepo(), newFakeEnrollmentStore())
	req := studentReq()
	req.Insurance = &dto.InsuranceRequest{
		Provider:     "Forte",
		PolicyNumber: "POL-1",
		StartDate:    "2024-05-01",
		EndDate:      "2024-01-01",
	}
	_, err := svc.Create(context.Background(), req, "Rina")
	requireAppError(t, err, http.StatusBadRequest, "")

	req.Insurance.EndDate = "2024-12-31"
	req.Insurance.CoverageAmount = amt("-1")
	_, err = svc.Create(context.Background(), req, "Rina")
	requireAppError(t, err, http.StatusBadRequest, "")
}

func TestStudentUpdateKeepsCodeAndCreator(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo, newFakeEnrollmentStore())
	ctx := context.Background()
	created, err := svc.Create(ctx, studentReq(), "Rina")
	require.NoError(t, err)

	req := studentReq()
	req.FirstName = "Sophea"
	req.Status = models.StudentStatusHold
	updated, err := svc.Update(ctx, created.ID, req, "Dara")
	require.NoError(t, err)
	assert.Equal(t, created.StudentCode, updated.StudentCode)
	assert.Equal(t, "Rina", updated.CreatedBy)
	assert.Equal(t, "Dara", updated.ModifiedBy)
	assert.Equal(t, models.StudentStatusHold, updated.Status)

	_, err = svc.Update(ctx, "missing", req, "Dara")
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestStudentDeleteBlockedByEnrollments(t *testing.T) {
	repo := newFakeStudentRepo()
	enrollments := newFakeEnrollmentStore()
	svc := newTestStudentService(repo, enrollments)
	ctx := context.Background()
	student, err := svc.Create(ctx, studentReq(), "Rina")
	require.NoError(t, err)

	enrollments.enrollments["e1"] = models.Enrollment{ID: "e1", StudentID: student.ID, ClassID: "class-1"}
	err = svc.Delete(ctx, student.ID)
	requireAppError(t, err, http.StatusConflict, "")

	delete(enrollments.enrollments, "e1")
	require.NoError(t, svc.Delete(ctx, student.ID))
	assert.Empty(t, repo.students)
}
