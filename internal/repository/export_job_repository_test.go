package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcu-dashboard-api/internal/models"
)

func newExportJobMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExportJobRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	mock.ExpectExec("INSERT INTO export_jobs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ExportJob{Mode: models.ExportModeLink, Format: models.ExportFormatCSV, CreatedBy: "staff@example.com"}
	require.NoError(t, repo.Create(context.Background(), job))

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdateBuildsPartialSet(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	status := models.ExportStatusFinished
	path := "exports/abc.csv"
	finished := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE export_jobs SET status = $1, file_path = $2, finished_at = $3 WHERE id = $4")).
		WithArgs(status, path, finished, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateExportJobParams{
		Status:     &status,
		FilePath:   &path,
		FinishedAt: &finished,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateExportJobParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newExportJobMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "mode", "format", "position_filter", "status_filter", "status", "progress", "file_path", "error_message", "created_by", "created_at", "finished_at"}).
		AddRow("job-1", "link", "csv", "", "", "PROCESSING", 40, nil, nil, "staff@example.com", time.Now(), nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mode, format, position_filter, status_filter, status, progress, file_path, error_message, created_by, created_at, finished_at FROM export_jobs WHERE id = $1")).
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusProcessing, job.Status)
	assert.Equal(t, 40, job.Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}
