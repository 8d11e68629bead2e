package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	"github.com/noah-isme/mcu-dashboard-api/pkg/export"
	"github.com/noah-isme/mcu-dashboard-api/pkg/storage"
)

type mockExportEmployees struct {
	items []models.Employee
}

func (m *mockExportEmployees) ListAll(ctx context.Context) ([]models.Employee, error) {
	return m.items, nil
}

type mockExportHistory struct {
	byNIK map[string][]models.MCUHistory
}

func (m *mockExportHistory) ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error) {
	return m.byNIK[nik], nil
}

type mockExportStorage struct {
	saved map[string][]byte
}

func (m *mockExportStorage) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *mockExportStorage) Open(filename string) (*os.File, error) { return nil, os.ErrNotExist }

func (m *mockExportStorage) Delete(filename string) error { return nil }

func (m *mockExportStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) { return nil, nil }

func datePtr(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	mcuDate := datePtr(2024, 3, 10)
	employees := &mockExportEmployees{items: []models.Employee{
		{
			NIK:          "EMP001",
			EmployeeName: "Budi Santoso",
			Position:     "Operator",
			WorkPeriod:   "3 year(s) 4 month(s)",
			MCUDate:      mcuDate,
			MCUExpired:   datePtr(2025, 3, 10),
			Status:       mcu.StatusActive,
			Diagnosis:    "Fit",
		},
		{
			NIK:          "EMP002",
			EmployeeName: "Siti Rahma",
			Position:     "Technician",
			Status:       mcu.StatusNoMCU,
		},
	}}
	history := &mockExportHistory{byNIK: map[string][]models.MCUHistory{
		"EMP001": {
			{NIK: "EMP001", MCUYear: 2024, MCUDate: datePtr(2024, 3, 10), ExpiredDate: datePtr(2025, 3, 10), FileName: strPtr("2024.pdf"), Diagnosis: "Fit"},
			{NIK: "EMP001", MCUYear: 2023, MCUDate: datePtr(2023, 2, 1), ExpiredDate: datePtr(2024, 1, 31), FileName: strPtr("2023.pdf")},
			{NIK: "EMP001", MCUYear: 2022, MCUDate: datePtr(2022, 4, 5), ExpiredDate: datePtr(2023, 4, 5), FileName: strPtr("2022.pdf"), Diagnosis: "Mild anemia"},
			{NIK: "EMP001", MCUYear: 2021, MCUDate: datePtr(2021, 6, 1), ExpiredDate: datePtr(2022, 6, 1), FileName: strPtr("2021.pdf")},
		},
	}}
	mirror := storage.NewRemoteMirror("acme", "mcu-history", "main")
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	return NewExportService(employees, history, mirror, &mockExportStorage{}, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
}

func TestExportBuildDatasetInlinesThreeMostRecent(t *testing.T) {
	svc := newExportFixture(t)

	dataset, err := svc.BuildDataset(context.Background(), models.ExportModeLink, "", "")
	require.NoError(t, err)

	assert.Len(t, dataset.Headers, 13)
	assert.Equal(t, "MCU History 3", dataset.Headers[12])
	require.Len(t, dataset.Rows, 2)

	row := dataset.Rows[0]
	assert.Equal(t, "EMP001", row["NIK"])
	assert.Equal(t, "2024: https://github.com/acme/mcu-history/blob/main/mcu_files/EMP001/2024.pdf?raw=true", row["MCU History 1"])
	assert.Equal(t, "2023: https://github.com/acme/mcu-history/blob/main/mcu_files/EMP001/2023.pdf?raw=true", row["MCU History 2"])
	assert.Equal(t, "2022: https://github.com/acme/mcu-history/blob/main/mcu_files/EMP001/2022.pdf?raw=true", row["MCU History 3"])
	// The fourth entry (2021) falls off the end.
	assert.NotContains(t, row["MCU History 3"], "2021")
}

func TestExportBuildDatasetDetailMode(t *testing.T) {
	svc := newExportFixture(t)

	dataset, err := svc.BuildDataset(context.Background(), models.ExportModeDetail, "", "")
	require.NoError(t, err)

	row := dataset.Rows[0]
	assert.Equal(t, "Year: 2024, Date: 2024-03-10, Expiry: 2025-03-10, Diagnosis: Fit", row["MCU History 1"])
	assert.Equal(t, "Year: 2023, Date: 2023-02-01, Expiry: 2024-01-31, Diagnosis: -", row["MCU History 2"])
}

func TestExportBuildDatasetEmptyHistoryCells(t *testing.T) {
	svc := newExportFixture(t)

	dataset, err := svc.BuildDataset(context.Background(), models.ExportModeLink, "", "")
	require.NoError(t, err)

	row := dataset.Rows[1]
	assert.Equal(t, "EMP002", row["NIK"])
	assert.Equal(t, "", row["MCU History 1"])
	assert.Equal(t, "-", row["MCU Date"])
	assert.Equal(t, string(mcu.StatusNoMCU), row["Status"])
}

func TestExportBuildDatasetFiltersAreConjunctive(t *testing.T) {
	svc := newExportFixture(t)

	dataset, err := svc.BuildDataset(context.Background(), models.ExportModeLink, "Operator", string(mcu.StatusNoMCU))
	require.NoError(t, err)
	assert.Empty(t, dataset.Rows, "no employee matches both position and status")

	dataset, err = svc.BuildDataset(context.Background(), models.ExportModeLink, "Operator", string(mcu.StatusActive))
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "EMP001", dataset.Rows[0]["NIK"])
}

func TestExportGenerateProducesSignedDownload(t *testing.T) {
	svc := newExportFixture(t)

	result, err := svc.Generate(context.Background(), &models.ExportJob{
		ID:     "job-1",
		Mode:   models.ExportModeLink,
		Format: models.ExportFormatCSV,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Contains(t, result.URL, "/api/v1/export/download/")
	assert.Contains(t, result.RelativePath, "mcu_link_")
	assert.Contains(t, result.RelativePath, ".csv")

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, result.RelativePath, relPath)
}

func TestExportGenerateRejectsUnknownFormat(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Generate(context.Background(), &models.ExportJob{
		ID:     "job-2",
		Mode:   models.ExportModeLink,
		Format: "xlsx",
	})
	require.Error(t, err)
}

func TestExportDatasetDeterministic(t *testing.T) {
	svc := newExportFixture(t)

	first, err := svc.BuildDataset(context.Background(), models.ExportModeLink, "", "")
	require.NoError(t, err)
	second, err := svc.BuildDataset(context.Background(), models.ExportModeLink, "", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	renderer := export.NewCSVExporter()
	firstCSV, err := renderer.Render(first)
	require.NoError(t, err)
	secondCSV, err := renderer.Render(second)
	require.NoError(t, err)
	assert.Equal(t, firstCSV, secondCSV)
}
