package dto

import "time"

// CreateUnavailabilityRequest 教师提交不可用申请
type CreateUnavailabilityRequest struct {
	FacultyID string `json:"faculty_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason    string `json:"reason" binding:"omitempty,max=200"`
}

// UpdateUnavailabilityStatusRequest 审批不可用申请
type UpdateUnavailabilityStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// UnavailabilityResponse 不可用申请响应
type UnavailabilityResponse struct {
	UnavailabilityID string    `json:"unavailability_id"`
	FacultyID        string    `json:"faculty_id"`
	Date             string    `json:"date"`
	DayOfWeek        int       `json:"day_of_week"`
	Day              string    `json:"day"`
	Reason           string    `json:"reason,omitempty"`
	Status           string    `json:"status"`
	ApprovedBy       string    `json:"approved_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UnavailabilityListRequest 查询不可用申请
type UnavailabilityListRequest struct {
	FacultyID string `form:"faculty_id"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
}
