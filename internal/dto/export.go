package dto

import (
	"time"

	"github.com/noah-isme/mcu-dashboard-api/internal/models"
)

// CreateExportRequest starts a background export job.
type CreateExportRequest struct {
	Mode     string `json:"mode" validate:"required,oneof=link detail"`
	Format   string `json:"format" validate:"required,oneof=csv pdf"`
	Position string `json:"position"`
	Status   string `json:"status" validate:"omitempty,oneof=Active 'Will Expire' Expired 'No MCU'"`
}

// ExportJobResponse reports job state to the caller.
type ExportJobResponse struct {
	ID          string              `json:"id"`
	Mode        models.ExportMode   `json:"mode"`
	Format      models.ExportFormat `json:"format"`
	Status      models.ExportStatus `json:"status"`
	Progress    int                 `json:"progress"`
	DownloadURL string              `json:"download_url,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty"`
}

// ExportPreviewResponse returns the first rows of a would-be export so staff
// can check filters before queueing a job.
type ExportPreviewResponse struct {
	Headers   []string            `json:"headers"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"total_rows"`
}
