package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campus-reservation/backend/internal/model"
)

func TestExportTimetableExcel(t *testing.T) {
	env := newTestEnv()
	tt := seedTimetable(t, env)
	svc := NewExportService(env.repo, zap.NewNop())

	buf, filename, err := svc.ExportTimetableExcel(context.Background(), tt.TimetableID)
	if err != nil {
		t.Fatalf("ExportTimetableExcel 失败: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("导出内容为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名期望 .xlsx 后缀, 实际 %s", filename)
	}

	// 回读校验 Sheet 与单元格
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("回读 Excel 失败: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex("CS-A"); idx < 0 {
		t.Fatal("缺少 CS-A Sheet")
	}
	cell, _ := f.GetCellValue("CS-A", "B2")
	if !strings.Contains(cell, "CS101") {
		t.Errorf("B2 期望包含 CS101, 实际 %q", cell)
	}
}

func TestExportTimetableExcel_NotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewExportService(env.repo, zap.NewNop())

	_, _, err := svc.ExportTimetableExcel(context.Background(), "tt-missing")
	if !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望 ErrTimetableNotFound, 实际 %v", err)
	}
}

func TestExportAllocationsICS(t *testing.T) {
	env := newTestEnv()
	tt := seedTimetable(t, env)
	env.alloc.allocs["alloc-1"] = &model.Allocation{
		AllocationID: "alloc-1",
		TimetableID:  tt.TimetableID,
		DayOfWeek:    1,
		PeriodIndex:  0,
		RoomID:       "R102",
		Type:         model.AllocationTypeEvent,
		Description:  "Open Day",
		Duration:     2,
	}
	svc := NewExportService(env.repo, zap.NewNop())

	buf, filename, err := svc.ExportAllocationsICS(context.Background(), tt.TimetableID)
	if err != nil {
		t.Fatalf("ExportAllocationsICS 失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名期望 .ics 后缀, 实际 %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("输出不是合法的 iCalendar 结构")
	}
	if !strings.Contains(content, "SUMMARY:Open Day") {
		t.Error("缺少事件 SUMMARY")
	}
	if !strings.Contains(content, "LOCATION:R102") {
		t.Error("缺少事件 LOCATION")
	}
}

func TestExportAllocationsICS_Empty(t *testing.T) {
	env := newTestEnv()
	tt := seedTimetable(t, env)
	svc := NewExportService(env.repo, zap.NewNop())

	_, _, err := svc.ExportAllocationsICS(context.Background(), tt.TimetableID)
	if !errors.Is(err, ErrExportNoAllocations) {
		t.Errorf("期望 ErrExportNoAllocations, 实际 %v", err)
	}
}
