package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/mcu"
	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
	"github.com/noah-isme/mcu-dashboard-api/pkg/response"
)

// uploadFormField is the multipart part carrying the MCU document.
const uploadFormField = "file"

// EmployeeHandler exposes the MCU record endpoints.
type EmployeeHandler struct {
	service *service.EmployeeService
}

// NewEmployeeHandler creates a new handler.
func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: svc}
}

// List godoc
// @Summary List employees
// @Description List MCU records with search, filters and pagination
// @Tags Employees
// @Produce json
// @Param search query string false "Search by NIK or name"
// @Param position query string false "Filter by position"
// @Param status query string false "Filter by MCU status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	filter := models.EmployeeFilter{
		Search:    c.Query("search"),
		Position:  c.Query("position"),
		Status:    mcu.Status(c.Query("status")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	employees, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Positions godoc
// @Summary List distinct positions
// @Tags Employees
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/positions [get]
func (h *EmployeeHandler) Positions(c *gin.Context) {
	positions, err := h.service.Positions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, positions, nil)
}

// Get godoc
// @Summary Get employee detail
// @Description Returns the record with its full MCU history, newest first
// @Tags Employees
// @Produce json
// @Param nik path string true "Employee NIK"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/{nik} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("nik"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create employee record
// @Description Registers a new MCU record, optionally with a document upload
// @Tags Employees
// @Accept mpfd
// @Produce json
// @Param nik formData string true "Employee NIK"
// @Param employee_name formData string true "Employee name"
// @Param file formData file false "MCU document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	upload, closeUpload, err := uploadFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeUpload()

	employee, err := h.service.Create(c.Request.Context(), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update godoc
// @Summary Update employee record
// @Description Edits the record; status and expiry are re-derived server side
// @Tags Employees
// @Accept mpfd
// @Produce json
// @Param nik path string true "Employee NIK"
// @Param file formData file false "Replacement MCU document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/{nik} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	upload, closeUpload, err := uploadFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeUpload()

	employee, err := h.service.Update(c.Request.Context(), c.Param("nik"), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Delete godoc
// @Summary Delete employee record
// @Description Removes the record, its history rows and stored documents
// @Tags Employees
// @Produce json
// @Param nik path string true "Employee NIK"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /employees/{nik} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("nik")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// uploadFromForm extracts the optional document part. The returned closer is
// always safe to defer.
func uploadFromForm(c *gin.Context) (*service.DocumentUpload, func(), error) {
	noop := func() {}
	fileHeader, err := c.FormFile(uploadFormField)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, noop, nil
		}
		return nil, noop, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid file upload")
	}
	return uploadFromHeader(fileHeader)
}

func uploadFromHeader(fileHeader *multipart.FileHeader) (*service.DocumentUpload, func(), error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, appErrors.Wrap(err, appErrors.ErrFileIOFailure.Code, appErrors.ErrFileIOFailure.Status, "failed to read uploaded file")
	}
	upload := &service.DocumentUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  file,
	}
	return upload, func() { _ = file.Close() }, nil
}
