package dto

// ── 空闲资源快照 ──

// PoolSlotResponse 单个槽位的空闲资源
type PoolSlotResponse struct {
	DayOfWeek   int      `json:"day_of_week"`
	Day         string   `json:"day"`
	PeriodIndex int      `json:"period_index"`
	Rooms       []string `json:"rooms,omitempty"`
	Faculty     []string `json:"faculty,omitempty"`
}

// AvailabilitySnapshotResponse 时间表全部槽位的空闲资源
type AvailabilitySnapshotResponse struct {
	TimetableID string             `json:"timetable_id"`
	Slots       []PoolSlotResponse `json:"slots"`
}

// ── 教师空闲检测 ──

// FacultyCheckRequest isFacultyFree 查询参数
type FacultyCheckRequest struct {
	FacultyID   string `form:"faculty_id" binding:"required"`
	DayOfWeek   int    `form:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int    `form:"period_index" binding:"min=0"`
	Duration    int    `form:"duration"` // 分钟，缺省按单节处理
}

// FacultyCheckResponse isFacultyFree 结果
// Reason 为固定的英文字符串，属于对外契约，前端据此展示
type FacultyCheckResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
