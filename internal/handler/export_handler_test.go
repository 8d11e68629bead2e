package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	"github.com/noah-isme/mcu-dashboard-api/internal/repository"
	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	"github.com/noah-isme/mcu-dashboard-api/pkg/jobs"
	"github.com/noah-isme/mcu-dashboard-api/pkg/storage"
)

type exportJobRepoStub struct {
	items map[string]*models.ExportJob
}

func (s *exportJobRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	if s.items == nil {
		s.items = make(map[string]*models.ExportJob)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	job.CreatedAt = time.Now().UTC()
	cp := *job
	s.items[job.ID] = &cp
	return nil
}

func (s *exportJobRepoStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	if j, ok := s.items[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *exportJobRepoStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	return nil
}

func (s *exportJobRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

func (s *exportJobRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type dispatcherStub struct {
	enqueued []jobs.Job
}

func (s *dispatcherStub) Enqueue(job jobs.Job) error {
	s.enqueued = append(s.enqueued, job)
	return nil
}

type exportEmployeesStub struct{}

func (exportEmployeesStub) ListAll(ctx context.Context) ([]models.Employee, error) {
	mcuDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	expiry := mcuDate.Add(mcu.ValidityPeriod)
	return []models.Employee{
		{NIK: "EMP001", EmployeeName: "Budi Santoso", Position: "Operator", MCUDate: &mcuDate, MCUExpired: &expiry, Status: mcu.StatusActive},
		{NIK: "EMP002", EmployeeName: "Siti Rahma", Position: "Technician", Status: mcu.StatusNoMCU},
	}, nil
}

type exportHistoryStub struct{}

func (exportHistoryStub) ListByNIK(ctx context.Context, nik string) ([]models.MCUHistory, error) {
	return nil, nil
}

func buildExportRouter(repo *exportJobRepoStub, dispatcher *dispatcherStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mirror := storage.NewRemoteMirror("acme", "mcu-history", "main")
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	exporter := service.NewExportService(exportEmployeesStub{}, exportHistoryStub{}, mirror, nil, signer, service.ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
	jobsSvc := service.NewExportJobService(repo, dispatcher, exporter, nil, service.ExportJobServiceConfig{})
	h := NewExportHandler(jobsSvc, exporter)

	router := gin.New()
	router.POST("/export", h.Create)
	router.GET("/export/preview", h.Preview)
	router.GET("/export/:id", h.Status)
	return router
}

func TestExportRoutes(t *testing.T) {
	t.Run("create accepted", func(t *testing.T) {
		repo := &exportJobRepoStub{}
		dispatcher := &dispatcherStub{}
		router := buildExportRouter(repo, dispatcher)

		req, _ := http.NewRequest(http.MethodPost, "/export", bytes.NewBufferString(`{"mode":"link","format":"csv"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)

		require.Equal(t, http.StatusAccepted, resp.Code)
		require.Contains(t, resp.Body.String(), `"QUEUED"`)
		require.Len(t, dispatcher.enqueued, 1)
	})

	t.Run("create rejects bad format", func(t *testing.T) {
		router := buildExportRouter(&exportJobRepoStub{}, &dispatcherStub{})

		req, _ := http.NewRequest(http.MethodPost, "/export", bytes.NewBufferString(`{"mode":"link","format":"xlsx"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)

		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("status not found", func(t *testing.T) {
		router := buildExportRouter(&exportJobRepoStub{}, &dispatcherStub{})

		req, _ := http.NewRequest(http.MethodGet, "/export/unknown-id", nil)
		resp := performRequest(router, req)

		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("preview link mode", func(t *testing.T) {
		router := buildExportRouter(&exportJobRepoStub{}, &dispatcherStub{})

		req, _ := http.NewRequest(http.MethodGet, "/export/preview?mode=link&limit=5", nil)
		resp := performRequest(router, req)

		require.Equal(t, http.StatusOK, resp.Code)
		body := resp.Body.String()
		require.Contains(t, body, `"total_rows":2`)
		require.Contains(t, body, `"MCU History 1"`)
	})

	t.Run("preview rejects bad mode", func(t *testing.T) {
		router := buildExportRouter(&exportJobRepoStub{}, &dispatcherStub{})

		req, _ := http.NewRequest(http.MethodGet, "/export/preview?mode=weird", nil)
		resp := performRequest(router, req)

		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("preview conjunctive filters", func(t *testing.T) {
		router := buildExportRouter(&exportJobRepoStub{}, &dispatcherStub{})

		req, _ := http.NewRequest(http.MethodGet, "/export/preview?mode=link&position=Operator&status=No+MCU", nil)
		resp := performRequest(router, req)

		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"total_rows":0`)
	})
}
