package model

import "time"

// 分配类型
const (
	AllocationTypeClass = "class"
	AllocationTypeEvent = "event"
	AllocationTypeExam  = "exam"
)

// Allocation 分配台账条目 — 对应 allocations
// (timetable_id, day_of_week, period_index, room_id) 唯一。
// 原实现将类型明细放在自由结构 details 中，这里展平为固定列：
//   class: faculty_id + subject + section_name
//   event: description + duration
//   exam : exam_type + sections + duration
type Allocation struct {
	AllocationID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	TimetableID  string      `gorm:"type:uuid;not null"                             json:"timetable_id"`
	DayOfWeek    int         `gorm:"type:smallint;not null"                         json:"day_of_week"`
	PeriodIndex  int         `gorm:"type:smallint;not null"                         json:"period_index"`
	RoomID       string      `gorm:"type:varchar(50);not null"                      json:"room_id"`
	Type         string      `gorm:"type:varchar(10);not null"                      json:"type"` // class | event | exam
	FacultyID    string      `gorm:"type:varchar(50)"                               json:"faculty_id,omitempty"`
	Subject      string      `gorm:"type:varchar(100)"                              json:"subject,omitempty"`
	SectionName  string      `gorm:"type:varchar(50)"                               json:"section_name,omitempty"`
	Description  string      `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	Duration     int         `gorm:"type:smallint;not null;default:1"               json:"duration"` // 占用节次数
	ExamType     string      `gorm:"type:varchar(30)"                               json:"exam_type,omitempty"`
	Sections     StringArray `gorm:"type:text[]"                                    json:"sections,omitempty"`
	CreatedBy    string      `gorm:"type:varchar(100)"                              json:"created_by,omitempty"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (Allocation) TableName() string { return "allocations" }
