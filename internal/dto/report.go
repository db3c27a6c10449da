package dto

import "github.com/noah-isme/school-portal-api/internal/models"

// ExportRequest captures POST /classes/:id/attendance-report/exports.
type ExportRequest struct {
	Format      models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Denominator string              `json:"denominator" validate:"omitempty,oneof=recorded configured"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	ClassID   string              `json:"class_id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
