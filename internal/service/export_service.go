package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/export"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
	"github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

// ExportJobKind tags attendance report exports on the worker queue.
const ExportJobKind = "attendance_report"

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error)
	Delete(ctx context.Context, id string) error
}

type fileStore interface {
	Put(name string, data []byte) error
	Open(name string) (io.ReadCloser, int64, error)
	Remove(name string) error
	Sweep(ttl time.Duration) ([]string, error)
}

type reportBuilder interface {
	AttendanceReport(ctx context.Context, classID, denominator string) (*models.AttendanceReport, bool, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Repo      exportJobStore
	Classes   classFinder
	Reports   reportBuilder
	Store     fileStore
	Signer    *storage.URLSigner
	Renderers map[models.ExportFormat]export.Renderer
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    ExportServiceConfig
}

// ExportDownload is a resolved, open export file.
type ExportDownload struct {
	Body        io.ReadCloser
	Size        int64
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// ExportService runs attendance report exports on the background queue and
// serves the results through signed download tokens.
type ExportService struct {
	repo      exportJobStore
	classes   classFinder
	reports   reportBuilder
	store     fileStore
	signer    *storage.URLSigner
	renderers map[models.ExportFormat]export.Renderer
	queue     jobDispatcher
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportServiceConfig
}

// NewExportService constructs an ExportService. The queue is attached with
// SetQueue once it has been built around Handle.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	cfg.APIPrefix = strings.TrimRight(cfg.APIPrefix, "/")
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	renderers := params.Renderers
	if renderers == nil {
		renderers = DefaultRenderers()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:      params.Repo,
		classes:   params.Classes,
		reports:   params.Reports,
		store:     params.Store,
		signer:    params.Signer,
		renderers: renderers,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// DefaultRenderers returns the CSV and PDF renderers, the PDF one shading
// the grade column.
func DefaultRenderers() map[models.ExportFormat]export.Renderer {
	pdf := export.NewPDFRenderer()
	pdf.Shade = shadeGrade
	return map[models.ExportFormat]export.Renderer{
		models.ExportFormatCSV: export.NewCSVRenderer(),
		models.ExportFormatPDF: pdf,
	}
}

// SetQueue attaches the dispatcher jobs are enqueued on.
func (s *ExportService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateJob validates the request, persists the job and enqueues it.
func (s *ExportService) CreateJob(ctx context.Context, classID string, req dto.ExportRequest, actor string) (*dto.ExportJobResponse, error) {
	if _, ok := s.renderers[req.Format]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		return nil, lookupError(err, "class not found", "failed to load class")
	}
	job := &models.ExportJob{
		ClassID:   classID,
		Params: models.ExportJobParams{
			Format:      req.Format,
			Denominator: req.Denominator,
			RequestID:   requestid.FromContext(ctx),
		},
		Status:    models.ExportStatusQueued,
		CreatedBy: actor,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Storage(err, "failed to create export job")
	}
	if s.queue == nil {
		s.markFailed(ctx, job.ID, "export queue unavailable")
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "export queue unavailable")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Kind: ExportJobKind}); err != nil {
		s.markFailed(ctx, job.ID, "failed to enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to enqueue export job")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job progress; staff only see their own exports.
func (s *ExportService) GetStatus(ctx context.Context, id string, claims *models.JWTClaims) (*dto.ExportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "export not found", "failed to load export job")
	}
	if claims != nil && !claims.Role.IsAdmin() && job.CreatedBy != claims.UserID {
		return nil, appErrors.ErrForbidden
	}
	resp := &dto.ExportStatusResponse{
		ID:        job.ID,
		ClassID:   job.ClassID,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates the token and opens the stored file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	grant, err := s.signer.Verify(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, grant.ExportID)
	if err != nil {
		return nil, lookupError(err, "export not found", "failed to load export job")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	body, size, err := s.store.Open(grant.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file no longer available")
	}
	contentType := "application/octet-stream"
	if r, ok := s.renderers[job.Params.Format]; ok {
		contentType = r.ContentType()
	}
	return &ExportDownload{
		Body:        body,
		Size:        size,
		Filename:    grant.Path,
		ContentType: contentType,
		ExpiresAt:   grant.ExpiresAt,
	}, nil
}

// Handle processes one queued export.
func (s *ExportService) Handle(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("export job vanished", zap.String("job_id", job.ID))
			return nil
		}
		return err
	}
	processing := models.ExportStatusProcessing
	progress := 10
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing, Progress: &progress}); err != nil {
		return err
	}

	url, err := s.generate(ctx, record)
	if err != nil {
		queued := models.ExportStatusQueued
		reset := 0
		msg := err.Error()
		if updateErr := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &queued, Progress: &reset, ErrorMessage: &msg}); updateErr != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	finished := models.ExportStatusFinished
	progress = 100
	now := time.Now().UTC()
	clear := ""
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		return err
	}
	s.metrics.ExportFinished(string(finished))
	s.logger.Info("export finished",
		zap.String("job_id", job.ID),
		zap.String("class_id", record.ClassID),
		zap.String("request_id", record.Params.RequestID))
	return nil
}

// GiveUp marks a job failed once the queue stops retrying it.
func (s *ExportService) GiveUp(job jobs.Job, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.markFailed(ctx, job.ID, cause.Error())
}

// RecoverPending re-enqueues jobs left queued by a previous process.
func (s *ExportService) RecoverPending(ctx context.Context) {
	if s.queue == nil {
		return
	}
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued exports", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Kind: ExportJobKind}); err != nil {
			s.logger.Warn("failed to requeue pending export", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// Cleanup deletes finished exports older than the result TTL together with
// their files, then sweeps orphaned files.
func (s *ExportService) Cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	removed := 0
	for {
		expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
		if err != nil {
			s.logger.Warn("export cleanup list failed", zap.Error(err))
			return
		}
		for _, job := range expired {
			if job.ResultURL != nil {
				if grant, err := s.signer.Verify(tokenFromURL(*job.ResultURL), true); err == nil {
					if err := s.store.Remove(grant.Path); err != nil {
						s.logger.Warn("export cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
					}
				}
			}
			if err := s.repo.Delete(ctx, job.ID); err != nil {
				s.logger.Warn("export cleanup row delete failed", zap.String("job_id", job.ID), zap.Error(err))
				return
			}
			removed++
		}
		if len(expired) < 100 {
			break
		}
	}
	swept, err := s.store.Sweep(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("export filesystem sweep failed", zap.Error(err))
	}
	if removed > 0 || len(swept) > 0 {
		s.logger.Info("export cleanup", zap.Int("jobs", removed), zap.Int("files", len(swept)))
	}
}

func (s *ExportService) generate(ctx context.Context, job *models.ExportJob) (string, error) {
	renderer, ok := s.renderers[job.Params.Format]
	if !ok {
		return "", fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	report, _, err := s.reports.AttendanceReport(ctx, job.ClassID, job.Params.Denominator)
	if err != nil {
		return "", err
	}
	payload, err := renderer.Render(reportTable(report))
	if err != nil {
		return "", fmt.Errorf("render export: %w", err)
	}
	name := fmt.Sprintf("attendance_%s_%s.%s", sanitizeName(report.ClassName), job.ID, renderer.Extension())
	if err := s.store.Put(name, payload); err != nil {
		return "", fmt.Errorf("store export: %w", err)
	}
	token, _, err := s.signer.Sign(job.ID, name)
	if err != nil {
		return "", fmt.Errorf("sign export: %w", err)
	}
	return fmt.Sprintf("%s/exports/download?token=%s", s.cfg.APIPrefix, token), nil
}

func (s *ExportService) markFailed(ctx context.Context, id, message string) {
	failed := models.ExportStatusFailed
	progress := 100
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark export failed", zap.String("job_id", id), zap.Error(err))
	}
	s.metrics.ExportFinished(string(failed))
}

func reportTable(report *models.AttendanceReport) export.Table {
	table := export.Table{
		Title: "Attendance Report: " + report.ClassName,
		Meta: []string{
			fmt.Sprintf("Sessions: %d (%s)", report.Sessions, report.Denominator),
			"Generated: " + report.GeneratedAt.Format("2006-01-02 15:04 MST"),
		},
		Columns: []export.Column{
			{Title: "Student", Weight: 3},
			{Title: "Code", Weight: 1.5},
			{Title: "Present", Align: export.AlignCenter},
			{Title: "Make-up", Align: export.AlignCenter},
			{Title: "Absent", Align: export.AlignCenter},
			{Title: "Leave", Align: export.AlignCenter},
			{Title: "Recorded", Align: export.AlignCenter},
			{Title: "%", Align: export.AlignRight},
			{Title: "Grade", Weight: 1.2, Align: export.AlignCenter},
		},
	}
	for _, st := range report.Students {
		table.Rows = append(table.Rows, []string{
			st.StudentName,
			st.StudentCode,
			strconv.Itoa(st.Presents),
			strconv.Itoa(st.MakeUps),
			strconv.Itoa(st.Absents),
			strconv.Itoa(st.Permissions),
			strconv.Itoa(st.TotalRecorded),
			strconv.Itoa(st.Percentage),
			string(st.Grade),
		})
	}
	return table
}

const gradeColumn = 8

func shadeGrade(_, col int, value string) (int, int, int, bool) {
	if col != gradeColumn {
		return 0, 0, 0, false
	}
	switch models.AttendanceGrade(value) {
	case models.AttendanceGradeGood:
		return 209, 250, 229, true
	case models.AttendanceGradeWarning:
		return 254, 243, 199, true
	case models.AttendanceGradeCritical:
		return 254, 226, 226, true
	}
	return 0, 0, 0, false
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "class"
	}
	return b.String()
}

func tokenFromURL(url string) string {
	if i := strings.LastIndex(url, "token="); i >= 0 {
		return url[i+len("token="):]
	}
	return ""
}
