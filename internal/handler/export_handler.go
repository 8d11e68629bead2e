package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
	"github.com/noah-isme/mcu-dashboard-api/pkg/response"
)

// ExportHandler exposes the vendor export endpoints.
type ExportHandler struct {
	jobs     *service.ExportJobService
	exporter *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(jobs *service.ExportJobService, exporter *service.ExportService) *ExportHandler {
	return &ExportHandler{jobs: jobs, exporter: exporter}
}

// Create godoc
// @Summary Queue an export job
// @Description Starts background generation of the vendor export artifact
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.CreateExportRequest true "Export parameters"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	createdBy := ""
	if claims := claimsFromContext(c); claims != nil {
		createdBy = claims.Email
	}
	job, err := h.jobs.CreateJob(c.Request.Context(), req, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Export job status
// @Description Reports progress; includes a signed download URL when finished
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /export/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download export artifact
// @Description Streams the generated file for a valid signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /export/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.jobs.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	contentType := "text/csv"
	if download.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}
	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+download.Filename+`"`)
	c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, nil)
}

// Preview godoc
// @Summary Preview export rows
// @Description Returns the first rows of the would-be export for the given filters
// @Tags Exports
// @Produce json
// @Param mode query string true "link or detail"
// @Param position query string false "Filter by position"
// @Param status query string false "Filter by MCU status"
// @Param limit query int false "Max rows, default 10"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /export/preview [get]
func (h *ExportHandler) Preview(c *gin.Context) {
	mode := models.ExportMode(c.DefaultQuery("mode", string(models.ExportModeLink)))
	if mode != models.ExportModeLink && mode != models.ExportModeDetail {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export mode"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	dataset, err := h.exporter.BuildDataset(c.Request.Context(), mode, c.Query("position"), c.Query("status"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export preview"))
		return
	}

	total := len(dataset.Rows)
	rows := dataset.Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}
	response.JSON(c, http.StatusOK, dto.ExportPreviewResponse{
		Headers:   dataset.Headers,
		Rows:      rows,
		TotalRows: total,
	}, nil)
}
