package dto

import "time"

// ── 房间分配 ──

// AllocationDetails 按类型变化的分配明细
// class: faculty_id + subject + section 必填
// event: description 必填，duration 为占用节次数
// exam : exam_type + sections 必填
type AllocationDetails struct {
	FacultyID   string   `json:"faculty_id,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	Section     string   `json:"section,omitempty"`
	Description string   `json:"description,omitempty"`
	Duration    int      `json:"duration,omitempty"`
	ExamType    string   `json:"exam_type,omitempty"`
	Sections    []string `json:"sections,omitempty"`
}

// AllocateRoomRequest 分配房间请求
type AllocateRoomRequest struct {
	TimetableID string            `json:"timetable_id" binding:"required,uuid"`
	DayOfWeek   int               `json:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int               `json:"period_index" binding:"min=0"`
	RoomID      string            `json:"room_id" binding:"required"`
	Type        string            `json:"type" binding:"required,oneof=class event exam"`
	Details     AllocationDetails `json:"details"`
}

// AllocationResponse 分配台账条目
type AllocationResponse struct {
	AllocationID string   `json:"allocation_id"`
	TimetableID  string   `json:"timetable_id"`
	DayOfWeek    int      `json:"day_of_week"`
	Day          string   `json:"day"`
	PeriodIndex  int      `json:"period_index"`
	RoomID       string   `json:"room_id"`
	Type         string   `json:"type"`
	FacultyID    string   `json:"faculty_id,omitempty"`
	Subject      string   `json:"subject,omitempty"`
	SectionName  string   `json:"section_name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Duration     int      `json:"duration"`
	ExamType     string   `json:"exam_type,omitempty"`
	Sections     []string `json:"sections,omitempty"`
	CreatedBy    string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ── 教师指派 ──

// AllocateFacultyRequest 将教师指派到时间表课时格
type AllocateFacultyRequest struct {
	TimetableID string `json:"timetable_id" binding:"required,uuid"`
	SectionName string `json:"section_name" binding:"required"`
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	PeriodIndex int    `json:"period_index" binding:"min=0"`
	FacultyID   string `json:"faculty_id" binding:"required"`
	RoomID      string `json:"room_id"`
	Subject     string `json:"subject"`
}

// AllocateFacultyResponse 指派结果（含旧值，纯替换语义）
type AllocateFacultyResponse struct {
	SectionName  string `json:"section_name"`
	DayOfWeek    int    `json:"day_of_week"`
	PeriodIndex  int    `json:"period_index"`
	FacultyID    string `json:"faculty_id"`
	RoomID       string `json:"room_id,omitempty"`
	OldFacultyID string `json:"old_faculty_id,omitempty"`
	OldRoomID    string `json:"old_room_id,omitempty"`
}
