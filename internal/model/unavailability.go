package model

import "time"

// 请假审批状态
const (
	UnavailabilityStatusPending  = "pending"
	UnavailabilityStatusApproved = "approved"
	UnavailabilityStatusRejected = "rejected"
)

// FacultyUnavailability 教师不可用申请 — 对应 faculty_unavailabilities
// 引擎的只读输入：冲突检测只看 approved 状态的记录。
// day_of_week 由 date 派生并冗余存储，供按槽位查询使用。
type FacultyUnavailability struct {
	UnavailabilityID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unavailability_id"`
	FacultyID        string    `gorm:"type:varchar(50);not null"                      json:"faculty_id"`
	Date             time.Time `gorm:"type:date;not null"                             json:"date"`
	DayOfWeek        int       `gorm:"type:smallint;not null"                         json:"day_of_week"`
	Reason           string    `gorm:"type:varchar(200);not null;default:''"          json:"reason,omitempty"`
	Status           string    `gorm:"type:varchar(10);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	ApprovedBy       string    `gorm:"type:varchar(100)"                              json:"approved_by,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (FacultyUnavailability) TableName() string { return "faculty_unavailabilities" }
