package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-reservation/backend/internal/dto"
	"campus-reservation/backend/internal/service"
	"campus-reservation/backend/pkg/response"
)

// AvailabilityHandler 空闲资源池模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
	conflictSvc     service.ConflictService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService, conflictSvc service.ConflictService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc, conflictSvc: conflictSvc}
}

// SnapshotRooms 查询空闲房间
// GET /api/v1/availability/rooms?timetable_id=xxx（缺省取最新时间表）
func (h *AvailabilityHandler) SnapshotRooms(c *gin.Context) {
	snapshot, err := h.availabilitySvc.Snapshot(c.Request.Context(), c.Query("timetable_id"))
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	for i := range snapshot.Slots {
		snapshot.Slots[i].Faculty = nil
	}
	response.OK(c, snapshot)
}

// SnapshotFaculty 查询空闲教师
// GET /api/v1/availability/faculty?timetable_id=xxx
func (h *AvailabilityHandler) SnapshotFaculty(c *gin.Context) {
	snapshot, err := h.availabilitySvc.Snapshot(c.Request.Context(), c.Query("timetable_id"))
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	for i := range snapshot.Slots {
		snapshot.Slots[i].Rooms = nil
	}
	response.OK(c, snapshot)
}

// CheckFaculty 教师空闲检测
// GET /api/v1/availability/faculty-check?faculty_id=xxx&day_of_week=1&period_index=0
func (h *AvailabilityHandler) CheckFaculty(c *gin.Context) {
	var req dto.FacultyCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.conflictSvc.IsFacultyFree(c.Request.Context(), req.FacultyID, req.DayOfWeek, req.PeriodIndex, req.Duration)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAvailabilityError 统一处理资源池模块业务错误
func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoTimetable):
		response.NotFound(c, 16101, "尚无任何时间表")
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 16102, "时间表不存在")
	default:
		response.InternalError(c)
	}
}
