package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestAvailabilitySnapshot(t *testing.T) {
	env := newTestEnv()
	tt := seedTimetable(t, env)
	svc := NewAvailabilityService(env.repo, zap.NewNop())

	resp, err := svc.Snapshot(context.Background(), tt.TimetableID)
	if err != nil {
		t.Fatalf("Snapshot 失败: %v", err)
	}
	if resp.TimetableID != tt.TimetableID {
		t.Errorf("timetable_id 不符: %s", resp.TimetableID)
	}
	if len(resp.Slots) != 3 {
		t.Fatalf("槽位期望 3 个, 实际 %d", len(resp.Slots))
	}
	// 按 (day, period) 排序
	if resp.Slots[0].DayOfWeek != 1 || resp.Slots[0].PeriodIndex != 0 {
		t.Errorf("首个槽位期望 (1,0), 实际 (%d,%d)", resp.Slots[0].DayOfWeek, resp.Slots[0].PeriodIndex)
	}
	if resp.Slots[0].Day != "Monday" {
		t.Errorf("Day 期望 Monday, 实际 %s", resp.Slots[0].Day)
	}
}

func TestAvailabilitySnapshot_DefaultsToLatest(t *testing.T) {
	env := newTestEnv()
	tt := seedTimetable(t, env)
	svc := NewAvailabilityService(env.repo, zap.NewNop())

	resp, err := svc.Snapshot(context.Background(), "")
	if err != nil {
		t.Fatalf("Snapshot 失败: %v", err)
	}
	if resp.TimetableID != tt.TimetableID {
		t.Errorf("缺省应取最新时间表 %s, 实际 %s", tt.TimetableID, resp.TimetableID)
	}
}

func TestAvailabilitySnapshot_NoTimetable(t *testing.T) {
	env := newTestEnv()
	svc := NewAvailabilityService(env.repo, zap.NewNop())

	_, err := svc.Snapshot(context.Background(), "")
	if !errors.Is(err, ErrNoTimetable) {
		t.Errorf("期望 ErrNoTimetable, 实际 %v", err)
	}
}
