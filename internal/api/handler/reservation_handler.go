package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-reservation/backend/internal/dto"
	"campus-reservation/backend/internal/service"
	pkgerrors "campus-reservation/backend/pkg/errors"
	"campus-reservation/backend/pkg/response"
)

// ReservationHandler 预约协调模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// AllocateRoom 分配房间
// POST /api/v1/allocations
func (h *ReservationHandler) AllocateRoom(c *gin.Context) {
	var req dto.AllocateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.AllocateRoom(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.Created(c, result)
}

// DeallocateRoom 释放分配
// DELETE /api/v1/allocations/:id
func (h *ReservationHandler) DeallocateRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.reservationSvc.DeallocateRoom(c.Request.Context(), userID, id); err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListAllocations 查询分配台账
// GET /api/v1/allocations?timetable_id=xxx
func (h *ReservationHandler) ListAllocations(c *gin.Context) {
	timetableID := c.Query("timetable_id")
	if timetableID == "" {
		response.BadRequest(c, 10001, "timetable_id不能为空")
		return
	}

	list, err := h.reservationSvc.ListAllocations(c.Request.Context(), timetableID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AllocateFaculty 将教师指派到课时格
// POST /api/v1/allocations/faculty
func (h *ReservationHandler) AllocateFaculty(c *gin.Context) {
	var req dto.AllocateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.AllocateFacultyToSlot(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, result)
}

// ListUpdateLogs 查询变更审计日志
// GET /api/v1/update-logs?timetable_id=xxx&page=1&page_size=20
func (h *ReservationHandler) ListUpdateLogs(c *gin.Context) {
	var req dto.UpdateLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.reservationSvc.ListUpdateLogs(c.Request.Context(), &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// handleReservationError 统一处理预约模块业务错误
func (h *ReservationHandler) handleReservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotAvailable):
		response.BadRequest(c, 14101, "房间在该槽位不可用")
	case errors.Is(err, service.ErrRoomAlreadyAllocated):
		response.Conflict(c, 14102, "房间在该槽位已有分配")
	case errors.Is(err, service.ErrFacultyNotAvailable):
		response.BadRequest(c, 14103, "教师在该槽位不可用")
	case errors.Is(err, service.ErrFacultyConflict):
		response.Conflict(c, 14104, "教师在该槽位已有安排")
	case errors.Is(err, service.ErrAllocationNotFound):
		response.NotFound(c, 14105, "分配记录不存在")
	case errors.Is(err, service.ErrInvalidDuration):
		response.BadRequest(c, 14106, "占用节次数非法")
	case errors.Is(err, service.ErrInvalidDetails):
		response.BadRequest(c, 14107, "分配明细与类型不符")
	case errors.Is(err, service.ErrSameSlot):
		response.BadRequest(c, 14108, "源槽位与目标槽位相同")
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 15101, "时间表不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 15102, "班级分组不存在")
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 15103, "课时格不存在")
	case errors.Is(err, service.ErrSlotLocked):
		response.BadRequest(c, 15104, "课时格已锁定，不可修改")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15106, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/reservation_handler.go
