package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-reservation/backend/internal/dto"
	"campus-reservation/backend/internal/service"
	"campus-reservation/backend/pkg/response"
)

// UnavailabilityHandler 教师不可用申请 HTTP 处理器
type UnavailabilityHandler struct {
	unavailabilitySvc service.UnavailabilityService
}

// NewUnavailabilityHandler 创建 UnavailabilityHandler
func NewUnavailabilityHandler(unavailabilitySvc service.UnavailabilityService) *UnavailabilityHandler {
	return &UnavailabilityHandler{unavailabilitySvc: unavailabilitySvc}
}

// Create 提交不可用申请
// POST /api/v1/unavailabilities
func (h *UnavailabilityHandler) Create(c *gin.Context) {
	var req dto.CreateUnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.unavailabilitySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUnavailabilityError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateStatus 审批申请
// PUT /api/v1/unavailabilities/:id/status
func (h *UnavailabilityHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.UpdateUnavailabilityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.unavailabilitySvc.UpdateStatus(c.Request.Context(), id, req.Status, userID)
	if err != nil {
		h.handleUnavailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// List 查询申请列表
// GET /api/v1/unavailabilities?faculty_id=xxx&status=pending&page=1&page_size=20
func (h *UnavailabilityHandler) List(c *gin.Context) {
	var req dto.UnavailabilityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.unavailabilitySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUnavailabilityError(c, err)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// handleUnavailabilityError 统一处理不可用申请模块业务错误
func (h *UnavailabilityHandler) handleUnavailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnavailabilityNotFound):
		response.NotFound(c, 17101, "不可用申请不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 17102, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.BadRequest(c, 17103, "申请已审批，不可重复操作")
	default:
		response.InternalError(c)
	}
}
