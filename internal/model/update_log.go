package model

import "time"

// 审计动作
const (
	UpdateActionAllocated   = "allocated"
	UpdateActionDeallocated = "deallocated"
	UpdateActionMoved       = "moved"
	UpdateActionAssigned    = "assigned"
	UpdateActionLocked      = "locked"
)

// UpdateLog 引擎变更审计日志 — 对应 update_logs（纯追加）
type UpdateLog struct {
	UpdateLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"update_log_id"`
	TimetableID string    `gorm:"type:uuid;not null"                             json:"timetable_id"`
	DayOfWeek   *int      `gorm:"type:smallint"                                  json:"day_of_week,omitempty"`
	PeriodIndex *int      `gorm:"type:smallint"                                  json:"period_index,omitempty"`
	Action      string    `gorm:"type:varchar(20);not null"                      json:"action"`
	Type        string    `gorm:"type:varchar(10)"                               json:"type,omitempty"`
	Details     JSONMap   `gorm:"type:jsonb"                                     json:"details,omitempty"`
	CreatedBy   string    `gorm:"type:varchar(100)"                              json:"created_by,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (UpdateLog) TableName() string { return "update_logs" }
