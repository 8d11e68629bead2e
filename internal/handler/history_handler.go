package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcu-dashboard-api/internal/dto"
	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
	"github.com/noah-isme/mcu-dashboard-api/pkg/response"
)

// HistoryHandler exposes the per-employee MCU history endpoints.
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler creates a new handler.
func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// List godoc
// @Summary List MCU history
// @Description Returns the employee's MCU events, most recent year first
// @Tags History
// @Produce json
// @Param nik path string true "Employee NIK"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/{nik}/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Param("nik"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Add MCU history entry
// @Description Records a new MCU event; the document upload is mandatory
// @Tags History
// @Accept mpfd
// @Produce json
// @Param nik path string true "Employee NIK"
// @Param mcu_year formData int true "MCU year"
// @Param file formData file true "MCU document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/{nik}/history [post]
func (h *HistoryHandler) Create(c *gin.Context) {
	var req dto.CreateHistoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid history payload"))
		return
	}
	upload, closeUpload, err := uploadFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeUpload()

	entry, err := h.service.Create(c.Request.Context(), c.Param("nik"), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete godoc
// @Summary Delete MCU history entry
// @Description Removes one MCU event together with its stored document
// @Tags History
// @Produce json
// @Param nik path string true "Employee NIK"
// @Param id path int true "History entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/{nik}/history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid history id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("nik"), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
