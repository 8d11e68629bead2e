package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	"github.com/noah-isme/mcu-dashboard-api/pkg/response"
)

// ReminderHandler triggers expiry reminder sweeps on demand.
type ReminderHandler struct {
	service *service.ReminderService
}

// NewReminderHandler creates a new handler.
func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: svc}
}

// Sweep godoc
// @Summary Run reminder sweep
// @Description Emails employees in the expiry warning window that have not been reminded yet
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reminders/sweep [post]
func (h *ReminderHandler) Sweep(c *gin.Context) {
	sent, err := h.service.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"sent": sent, "enabled": h.service.Enabled()}, nil)
}
