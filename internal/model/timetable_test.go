package model

import "testing"

func TestAssignment_ApplyRoundTrip(t *testing.T) {
	src := &Slot{
		CourseID:  "CS101",
		FacultyID: "F1",
		RoomID:    "R101",
		Kind:      "lab",
		Locked:    true,
		Version:   3,
	}
	dst := &Slot{Locked: false, Version: 7}

	AssignmentOf(src).Apply(dst)

	if dst.CourseID != "CS101" || dst.FacultyID != "F1" || dst.RoomID != "R101" || dst.Kind != "lab" {
		t.Errorf("分配内容未完整写入: %+v", dst)
	}
	// locked 与 version 不随分配迁移
	if dst.Locked || dst.Version != 7 {
		t.Errorf("locked/version 不应被改写: locked=%v version=%d", dst.Locked, dst.Version)
	}
}

func TestDayName(t *testing.T) {
	if got := DayName(0); got != "Sunday" {
		t.Errorf("DayName(0) = %q", got)
	}
	if got := DayName(6); got != "Saturday" {
		t.Errorf("DayName(6) = %q", got)
	}
	if got := DayName(7); got != "" {
		t.Errorf("越界应返回空串, got %q", got)
	}
}
