package dto

import "time"

// UpdateLogListRequest 审计日志查询
type UpdateLogListRequest struct {
	TimetableID string `form:"timetable_id" binding:"required,uuid"`
	Page        int    `form:"page,default=1" binding:"min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// UpdateLogResponse 审计日志条目
type UpdateLogResponse struct {
	UpdateLogID string                 `json:"update_log_id"`
	TimetableID string                 `json:"timetable_id"`
	DayOfWeek   *int                   `json:"day_of_week,omitempty"`
	PeriodIndex *int                   `json:"period_index,omitempty"`
	Action      string                 `json:"action"`
	Type        string                 `json:"type,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	CreatedBy   string                 `json:"created_by,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
