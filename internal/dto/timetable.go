package dto

import "time"

// ── 时间表导入（外部求解器输出） ──

// SlotPayload 求解器输出的单个课时格
type SlotPayload struct {
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int    `json:"period_index" binding:"min=0"`
	CourseID    string `json:"course_id"`
	FacultyID   string `json:"faculty_id"`
	RoomID      string `json:"room_id"`
	Kind        string `json:"kind"`
}

// SectionPayload 求解器输出的班级分组
type SectionPayload struct {
	Name     string        `json:"name" binding:"required"`
	Schedule []SlotPayload `json:"schedule"`
}

// PoolSlotPayload 求解器输出的单个槽位空闲资源
type PoolSlotPayload struct {
	DayOfWeek   int      `json:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int      `json:"period_index" binding:"min=0"`
	Rooms       []string `json:"rooms"`
	Faculty     []string `json:"faculty"`
}

// ImportTimetableRequest 导入时间表请求
// 时间表本体与两个资源池在同一事务内落库
type ImportTimetableRequest struct {
	GeneratedBy    string            `json:"generated_by"`
	SourceDataset  string            `json:"source_dataset"`
	Year           int               `json:"year"`
	Department     string            `json:"department"`
	ObjectiveValue float64           `json:"objective_value"`
	Warnings       []string          `json:"warnings"`
	Sections       []SectionPayload  `json:"sections" binding:"required,min=1"`
	Availability   []PoolSlotPayload `json:"availability"`
}

// ── 时间表响应 ──

// SlotResponse 课时格响应
type SlotResponse struct {
	DayOfWeek   int    `json:"day_of_week"`
	Day         string `json:"day"` // 展示名，由 day_of_week 派生
	PeriodIndex int    `json:"period_index"`
	CourseID    string `json:"course_id,omitempty"`
	FacultyID   string `json:"faculty_id,omitempty"`
	RoomID      string `json:"room_id,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Locked      bool   `json:"locked"`
}

// SectionResponse 班级分组响应
type SectionResponse struct {
	Name     string         `json:"name"`
	Schedule []SlotResponse `json:"schedule"`
}

// TimetableResponse 时间表详情响应
type TimetableResponse struct {
	TimetableID    string            `json:"timetable_id"`
	Status         string            `json:"status"`
	GeneratedBy    string            `json:"generated_by,omitempty"`
	SourceDataset  string            `json:"source_dataset,omitempty"`
	Year           int               `json:"year,omitempty"`
	Department     string            `json:"department,omitempty"`
	ObjectiveValue float64           `json:"objective_value,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	GeneratedAt    *time.Time        `json:"generated_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Sections       []SectionResponse `json:"sections,omitempty"`
}

// TimetableSummaryResponse 时间表列表项
type TimetableSummaryResponse struct {
	TimetableID  string    `json:"timetable_id"`
	Status       string    `json:"status"`
	Year         int       `json:"year,omitempty"`
	Department   string    `json:"department,omitempty"`
	SectionCount int       `json:"section_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ── 课时格操作 ──

// SlotRef 课时格坐标
type SlotRef struct {
	DayOfWeek   int `json:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int `json:"period_index" binding:"min=0"`
}

// LockSlotRequest 锁定/解锁课时格请求
type LockSlotRequest struct {
	SectionName string `json:"section_name" binding:"required"`
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int    `json:"period_index" binding:"min=0"`
	Locked      *bool  `json:"locked" binding:"required"`
}

// MoveSlotRequest 同一 section 内交换两个课时格的分配
type MoveSlotRequest struct {
	SectionName string  `json:"section_name" binding:"required"`
	From        SlotRef `json:"from" binding:"required"`
	To          SlotRef `json:"to" binding:"required"`
}

// MoveSlotResponse 交换前两格的镜像，供审计与通知使用
type MoveSlotResponse struct {
	SectionName string       `json:"section_name"`
	From        SlotResponse `json:"from"`
	To          SlotResponse `json:"to"`
}
