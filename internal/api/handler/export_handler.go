package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"campus-reservation/backend/internal/service"
	"campus-reservation/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出时间表为 Excel
// GET /api/v1/export/timetable/:id
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	id := c.Param("id")

	buf, filename, err := h.exportSvc.ExportTimetableExcel(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportAllocations 导出分配台账为 iCalendar
// GET /api/v1/export/allocations/:id
func (h *ExportHandler) ExportAllocations(c *gin.Context) {
	id := c.Param("id")

	buf, filename, err := h.exportSvc.ExportAllocationsICS(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 15101, "时间表不存在")
	case errors.Is(err, service.ErrExportEmptyTimetable):
		response.BadRequest(c, 18101, "时间表无课时格可导出")
	case errors.Is(err, service.ErrExportNoAllocations):
		response.BadRequest(c, 18102, "时间表无分配记录可导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
