package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

type fakeExportRepo struct {
	mu     sync.Mutex
	jobs   map[string]*models.ExportJob
	nextID int
}

func newFakeExportRepo() *fakeExportRepo {
	return &fakeExportRepo{jobs: map[string]*models.ExportJob{}}
}

func (f *fakeExportRepo) Create(_ context.Context, job *models.ExportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	job.ID = fmt.Sprintf("job-%d", f.nextID)
	job.CreatedAt = time.Now()
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeExportRepo) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *job
	return &cp, nil
}

func (f *fakeExportRepo) Update(_ context.Context, id string, p repository.UpdateExportJobParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.Progress != nil {
		job.Progress = *p.Progress
	}
	if p.ResultURL != nil {
		url := *p.ResultURL
		job.ResultURL = &url
	}
	if p.ErrorMessage != nil {
		msg := *p.ErrorMessage
		job.ErrorMessage = &msg
	}
	if p.FinishedAt != nil {
		at := *p.FinishedAt
		job.FinishedAt = &at
	}
	return nil
}

func (f *fakeExportRepo) ListQueued(context.Context, int) ([]models.ExportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ExportJob
	for _, job := range f.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeExportRepo) ListFinishedBefore(_ context.Context, cutoff time.Time, _ int) ([]models.ExportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ExportJob
	for _, job := range f.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeExportRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, id)
	return nil
}

type fakeDispatcher struct {
	jobs []jobs.Job
	err  error
}

func (f *fakeDispatcher) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type exportFixture struct {
	svc    *ExportService
	repo   *fakeExportRepo
	queue  *fakeDispatcher
	store  *storage.DiskStore
	signer *storage.URLSigner
}

func newExportFixture(t *testing.T) exportFixture {
	t.Helper()
	reports := newReportFixture(t)
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewURLSigner("export-secret", time.Hour)
	repo := newFakeExportRepo()
	svc := NewExportService(ExportServiceParams{
		Repo:    repo,
		Classes: fakeClassFinder{"class-1": {Class: models.Class{ID: "class-1", ClassName: "English A1"}}},
		Reports: reports.svc,
		Store:   store,
		Signer:  signer,
		Config:  ExportServiceConfig{APIPrefix: "/api/v1/"},
	})
	queue := &fakeDispatcher{}
	svc.SetQueue(queue)
	return exportFixture{svc: svc, repo: repo, queue: queue, store: store, signer: signer}
}

func TestExportLifecycleCSV(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	job, err := fx.svc.CreateJob(ctx, "class-1", dto.ExportRequest{Format: models.ExportFormatCSV}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	require.Len(t, fx.queue.jobs, 1)
	assert.Equal(t, ExportJobKind, fx.queue.jobs[0].Kind)

	require.NoError(t, fx.svc.Handle(ctx, fx.queue.jobs[0]))

	status, err := fx.svc.GetStatus(ctx, job.ID, &models.JWTClaims{UserID: "user-1", Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.ResultURL)
	assert.True(t, strings.HasPrefix(*status.ResultURL, "/api/v1/exports/download?token="))

	_, err = fx.svc.GetStatus(ctx, job.ID, &models.JWTClaims{UserID: "user-2", Role: models.RoleStaff})
	requireAppError(t, err, http.StatusForbidden, "")
	_, err = fx.svc.GetStatus(ctx, job.ID, &models.JWTClaims{UserID: "boss", Role: models.RoleAdmin})
	require.NoError(t, err)

	download, err := fx.svc.ResolveDownload(ctx, tokenFromURL(*status.ResultURL))
	require.NoError(t, err)
	defer download.Body.Close()
	body, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", download.ContentType)
	assert.True(t, strings.HasSuffix(download.Filename, ".csv"))
	assert.Contains(t, string(body), "Sokha Chan")
	assert.Contains(t, string(body), "Grade")
}

func TestExportRejectsBadRequests(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateJob(ctx, "class-1", dto.ExportRequest{Format: "xlsx"}, "user-1")
	requireAppError(t, err, http.StatusBadRequest, "")

	_, err = fx.svc.CreateJob(ctx, "nope", dto.ExportRequest{Format: models.ExportFormatPDF}, "user-1")
	requireAppError(t, err, http.StatusNotFound, "")

	_, err = fx.svc.ResolveDownload(ctx, "garbage")
	requireAppError(t, err, http.StatusForbidden, "")
}

func TestExportEnqueueFailureMarksJobFailed(t *testing.T) {
	fx := newExportFixture(t)
	fx.queue.err = errors.New("queue full")

	_, err := fx.svc.CreateJob(context.Background(), "class-1", dto.ExportRequest{Format: models.ExportFormatCSV}, "user-1")
	requireAppError(t, err, http.StatusServiceUnavailable, "")
	job := fx.repo.jobs["job-1"]
	require.NotNil(t, job)
	assert.Equal(t, models.ExportStatusFailed, job.Status)
}

func TestExportDownloadRequiresFinishedJob(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()
	job, err := fx.svc.CreateJob(ctx, "class-1", dto.ExportRequest{Format: models.ExportFormatCSV}, "user-1")
	require.NoError(t, err)

	token, _, err := fx.signer.Sign(job.ID, "attendance.csv")
	require.NoError(t, err)
	_, err = fx.svc.ResolveDownload(ctx, token)
	requireAppError(t, err, http.StatusForbidden, "")
}

func TestExportGiveUpAndCleanup(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	failing, err := fx.svc.CreateJob(ctx, "class-1", dto.ExportRequest{Format: models.ExportFormatCSV}, "user-1")
	require.NoError(t, err)
	fx.svc.GiveUp(jobs.Job{ID: failing.ID}, errors.New("render exploded"))
	status, err := fx.svc.GetStatus(ctx, failing.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, status.Status)
	require.NotNil(t, status.Error)
	assert.Equal(t, "render exploded", *status.Error)

	done, err := fx.svc.CreateJob(ctx, "class-1", dto.ExportRequest{Format: models.ExportFormatPDF}, "user-1")
	require.NoError(t, err)
	require.NoError(t, fx.svc.Handle(ctx, jobs.Job{ID: done.ID}))

	fx.svc.cfg.ResultTTL = time.Nanosecond
	time.Sleep(time.Millisecond)
	fx.svc.Cleanup(ctx)
	assert.Empty(t, fx.repo.jobs)
}

func TestExportRecoverPending(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.repo.Create(ctx, &models.ExportJob{ClassID: "class-1", Status: models.ExportStatusQueued}))

	fx.svc.RecoverPending(ctx)
	require.Len(t, fx.queue.jobs, 1)
	assert.Equal(t, "job-1", fx.queue.jobs[0].ID)
}

func TestShadeGrade(t *testing.T) {
	_, _, _, ok := shadeGrade(0, 0, "Good")
	assert.False(t, ok)
	r, g, b, ok := shadeGrade(0, gradeColumn, string(models.AttendanceGradeCritical))
	assert.True(t, ok)
	assert.Equal(t, []int{254, 226, 226}, []int{r, g, b})
	assert.Equal(t, "english_a1", sanitizeName("English A1!"))
}
