package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	"github.com/noah-isme/mcu-dashboard-api/pkg/export"
	"github.com/noah-isme/mcu-dashboard-api/pkg/storage"
)

// historyDepth is how many recent MCU events are inlined per employee row.
const historyDepth = 3

type exportEmployeeSource interface {
	ListAll(ctx context.Context) ([]models.Employee, error)
}

type exportHistorySource interface {
	ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error)
}

type exportMirror interface {
	Configured() bool
	URL(nik, fileName string) string
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService flattens employee records with their recent MCU history into
// a vendor-facing table and renders it to CSV or PDF.
type ExportService struct {
	employees exportEmployeeSource
	history   exportHistorySource
	mirror    exportMirror
	storage   exportFileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(employees exportEmployeeSource, history exportHistorySource, mirror exportMirror, fileStorage exportFileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		employees: employees,
		history:   history,
		mirror:    mirror,
		storage:   fileStorage,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// BuildDataset produces the export table for the given mode and filters.
// Filters combine conjunctively; rows come out in NIK order so repeated runs
// over the same data yield identical artifacts.
func (s *ExportService) BuildDataset(ctx context.Context, mode models.ExportMode, positionFilter, statusFilter string) (export.Dataset, error) {
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load employees: %w", err)
	}

	headers := []string{
		"NIK", "Employee Name", "Position", "Work Period",
		"MCU Date", "MCU Expired", "Status",
		"Examination Result", "Diagnosis", "Recommendation",
	}
	for i := 1; i <= historyDepth; i++ {
		headers = append(headers, fmt.Sprintf("MCU History %d", i))
	}

	rows := make([]map[string]string, 0, len(employees))
	for _, employee := range employees {
		if positionFilter != "" && employee.Position != positionFilter {
			continue
		}
		if statusFilter != "" && string(employee.Status) != statusFilter {
			continue
		}

		row := map[string]string{
			"NIK":                employee.NIK,
			"Employee Name":      employee.EmployeeName,
			"Position":           employee.Position,
			"Work Period":        employee.WorkPeriod,
			"MCU Date":           formatExportDate(employee.MCUDate),
			"MCU Expired":        formatExportDate(employee.MCUExpired),
			"Status":             string(employee.Status),
			"Examination Result": employee.ExaminationResult,
			"Diagnosis":          employee.Diagnosis,
			"Recommendation":     employee.Recommendation,
		}

		entries, err := s.history.ListByNIK(ctx, employee.NIK)
		if err != nil {
			return export.Dataset{}, fmt.Errorf("load history for %s: %w", employee.NIK, err)
		}
		if len(entries) > historyDepth {
			entries = entries[:historyDepth]
		}
		for i := 0; i < historyDepth; i++ {
			column := fmt.Sprintf("MCU History %d", i+1)
			if i >= len(entries) {
				row[column] = ""
				continue
			}
			row[column] = s.historyCell(mode, employee.NIK, entries[i])
		}

		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}, nil
}

// historyCell renders one inlined history entry. Link mode points at the
// remote mirror when possible and falls back to the bare year label; detail
// mode composes the full summary string.
func (s *ExportService) historyCell(mode models.ExportMode, nik string, entry models.MCUHistory) string {
	if mode == models.ExportModeDetail {
		return fmt.Sprintf("Year: %d, Date: %s, Expiry: %s, Diagnosis: %s",
			entry.MCUYear,
			formatExportDate(entry.MCUDate),
			formatExportDate(entry.ExpiredDate),
			exportValueOr(entry.Diagnosis, "-"))
	}
	if entry.FileName != nil && s.mirror != nil && s.mirror.Configured() {
		return fmt.Sprintf("%d: %s", entry.MCUYear, s.mirror.URL(nik, *entry.FileName))
	}
	return fmt.Sprintf("%d", entry.MCUYear)
}

// Generate builds the dataset for a job and stores the rendered artifact.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, err := s.BuildDataset(ctx, job.Mode, job.PositionFilter, job.StatusFilter)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "MCU Report")
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("mcu_%s_%s.%s", job.Mode, time.Now().UTC().Format("20060102_150405"), job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/download/%s", prefix, token),
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, defaulting to the configured TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func formatExportDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func exportValueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
