package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcu-dashboard-api/internal/service"
	"github.com/noah-isme/mcu-dashboard-api/pkg/response"
)

// DocumentHandler serves stored MCU documents.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// Download godoc
// @Summary Download MCU document
// @Description Streams the stored file, or redirects to the remote mirror when the local copy is missing
// @Tags Documents
// @Produce octet-stream
// @Param nik path string true "Employee NIK"
// @Param filename path string true "Document file name"
// @Success 200 {file} binary
// @Success 302 "Redirect to mirror"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /employees/{nik}/documents/{filename} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	download, err := h.service.Resolve(c.Param("nik"), c.Param("filename"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if download.MirrorURL != "" {
		c.Redirect(http.StatusFound, download.MirrorURL)
		return
	}
	defer download.File.Close()

	c.Header("Content-Disposition", `attachment; filename="`+download.Filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	http.ServeContent(c.Writer, c.Request, download.Filename, fileModTime(download), download.File)
}

func fileModTime(d *service.DocumentDownload) time.Time {
	if info, err := d.File.Stat(); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
