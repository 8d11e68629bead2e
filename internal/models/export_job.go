package models

import "time"

// ExportMode selects the column shape of the vendor export.
type ExportMode string

const (
	// ExportModeLink emits mirror URLs for the three most recent documents.
	ExportModeLink ExportMode = "link"
	// ExportModeDetail emits composed year/date/expiry/diagnosis strings.
	ExportModeDetail ExportMode = "detail"
)

// ExportFormat enumerates supported artifact formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob is persisted background export metadata.
type ExportJob struct {
	ID             string       `db:"id" json:"id"`
	Mode           ExportMode   `db:"mode" json:"mode"`
	Format         ExportFormat `db:"format" json:"format"`
	PositionFilter string       `db:"position_filter" json:"position_filter"`
	StatusFilter   string       `db:"status_filter" json:"status_filter"`
	Status         ExportStatus `db:"status" json:"status"`
	Progress       int          `db:"progress" json:"progress"`
	FilePath       *string      `db:"file_path" json:"file_path,omitempty"`
	ErrorMessage   *string      `db:"error_message" json:"error_message,omitempty"`
	CreatedBy      string       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	FinishedAt     *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}
