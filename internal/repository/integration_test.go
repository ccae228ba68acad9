//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "campus-reservation/backend/pkg/errors"

	"campus-reservation/backend/internal/model"
	"campus-reservation/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=campus password=campus_password dbname=campus_reservation_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Timetable{},
		&model.Section{},
		&model.Slot{},
		&model.AvailabilitySlot{},
		&model.Allocation{},
		&model.FacultyUnavailability{},
		&model.UpdateLog{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTimetable 创建一张带单个班级、单个课时格与资源池的时间表，返回清理函数
func setupTimetable(t *testing.T) (tt *model.Timetable, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	tt = &model.Timetable{
		Status: model.TimetableStatusDraft,
		Sections: []model.Section{
			{
				Name:     "CS-A",
				Position: 0,
				Slots: []model.Slot{
					{DayOfWeek: 1, PeriodIndex: 0, CourseID: "CS101", FacultyID: "F1", RoomID: "R101", Kind: "lecture"},
				},
			},
		},
	}
	if err := testDB.WithContext(ctx).Create(tt).Error; err != nil {
		t.Fatalf("创建时间表失败: %v", err)
	}
	// 级联写入的 Slots 需要回填 TimetableID
	if err := testDB.WithContext(ctx).
		Model(&model.Slot{}).
		Where("section_id = ?", tt.Sections[0].SectionID).
		Update("timetable_id", tt.TimetableID).Error; err != nil {
		t.Fatalf("回填 Slot.TimetableID 失败: %v", err)
	}

	pool := &model.AvailabilitySlot{
		TimetableID: tt.TimetableID,
		DayOfWeek:   1,
		PeriodIndex: 0,
		Rooms:       model.StringArray{"R102", "R103"},
		Faculty:     model.StringArray{"F2", "F3"},
	}
	if err := testDB.WithContext(ctx).Create(pool).Error; err != nil {
		t.Fatalf("创建资源池失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("timetable_id = ?", tt.TimetableID).Delete(&model.UpdateLog{})
		testDB.Where("timetable_id = ?", tt.TimetableID).Delete(&model.Allocation{})
		testDB.Where("timetable_id = ?", tt.TimetableID).Delete(&model.AvailabilitySlot{})
		testDB.Where("timetable_id = ?", tt.TimetableID).Delete(&model.Slot{})
		testDB.Where("timetable_id = ?", tt.TimetableID).Delete(&model.Section{})
		testDB.Where("timetable_id = ?", tt.TimetableID).Delete(&model.Timetable{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: TEXT[] 编解码经数据库往返
// ═══════════════════════════════════════════════════════════

func TestAvailabilityPool_ArrayRoundTrip(t *testing.T) {
	tt, cleanup := setupTimetable(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 含逗号、引号、反斜杠的资源 ID 必须原样往返
	rooms := model.StringArray{"R101", "Lab \"A\", annex", `Block\West-2`}
	faculty := model.StringArray{"F1,F2"}
	pool := &model.AvailabilitySlot{
		TimetableID: tt.TimetableID,
		DayOfWeek:   2,
		PeriodIndex: 0,
		Rooms:       rooms,
		Faculty:     faculty,
	}
	if err := testDB.WithContext(ctx).Create(pool).Error; err != nil {
		t.Fatalf("创建资源池失败: %v", err)
	}

	got, err := repo.Availability.GetSlot(ctx, tt.TimetableID, 2, 0)
	if err != nil {
		t.Fatalf("GetSlot 失败: %v", err)
	}
	if !reflect.DeepEqual(got.Rooms, rooms) {
		t.Errorf("Rooms 往返不一致: got %q, want %q", got.Rooms, rooms)
	}
	if !reflect.DeepEqual(got.Faculty, faculty) {
		t.Errorf("Faculty 往返不一致: got %q, want %q", got.Faculty, faculty)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 资源池预留/归还
// ═══════════════════════════════════════════════════════════

func TestAvailabilityPool_ReserveRelease(t *testing.T) {
	tt, cleanup := setupTimetable(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Availability.ReserveRoom(ctx, tt.TimetableID, 1, 0, "R102"); err != nil {
		t.Fatalf("首次预留应成功: %v", err)
	}

	// 已预留的房间不在池中，二次预留失败
	err := repo.Availability.ReserveRoom(ctx, tt.TimetableID, 1, 0, "R102")
	if !errors.Is(err, repository.ErrRoomNotInPool) {
		t.Errorf("期望 ErrRoomNotInPool，得到: %v", err)
	}

	// 归还幂等：重复归还不产生重复元素
	if err := repo.Availability.ReleaseRoom(ctx, tt.TimetableID, 1, 0, "R102"); err != nil {
		t.Fatalf("归还失败: %v", err)
	}
	if err := repo.Availability.ReleaseRoom(ctx, tt.TimetableID, 1, 0, "R102"); err != nil {
		t.Fatalf("重复归还失败: %v", err)
	}

	slot, err := repo.Availability.GetSlot(ctx, tt.TimetableID, 1, 0)
	if err != nil {
		t.Fatalf("GetSlot 失败: %v", err)
	}
	count := 0
	for _, r := range slot.Rooms {
		if r == "R102" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("R102 在池中应恰好出现一次，得到 %d 次", count)
	}
}

func TestAvailabilityPool_ConcurrentReserve(t *testing.T) {
	tt, cleanup := setupTimetable(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// FOR UPDATE 行锁下并发预留同一房间，恰好一个成功
	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Transaction(ctx, func(txRepo *repository.Repository) error {
				return txRepo.Availability.ReserveRoom(ctx, tt.TimetableID, 1, 0, "R103")
			})
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
		} else if !errors.Is(err, repository.ErrRoomNotInPool) {
			t.Errorf("意外错误: %v", err)
		}
	}
	if success != 1 {
		t.Errorf("并发预留应恰好一个成功，得到 %d", success)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 课时格乐观锁
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_SlotConflictDetected(t *testing.T) {
	tt, cleanup := setupTimetable(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	// 模拟并发：取两份副本
	copy1, err := repo.Timetable.GetByID(ctx, tt.TimetableID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	copy2, err := repo.Timetable.GetByID(ctx, tt.TimetableID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	slot1 := &copy1.Sections[0].Slots[0]
	slot2 := &copy2.Sections[0].Slots[0]

	slot1.RoomID = "R102"
	if err := repo.Timetable.UpdateSlotAssignment(ctx, slot1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	// 第二次更新版本已过期
	slot2.RoomID = "R103"
	err = repo.Timetable.UpdateSlotAssignment(ctx, slot2)
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 事务回滚
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	tt, cleanup := setupTimetable(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	boom := errors.New("boom")
	var allocID string
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		alloc := &model.Allocation{
			TimetableID: tt.TimetableID,
			DayOfWeek:   1,
			PeriodIndex: 0,
			RoomID:      "R102",
			Type:        "event",
			Description: "Open Day",
			Duration:    1,
		}
		if err := txRepo.Allocation.Create(ctx, alloc); err != nil {
			return err
		}
		allocID = alloc.AllocationID
		if err := txRepo.Availability.ReserveRoom(ctx, tt.TimetableID, 1, 0, "R102"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("事务应返回注入的错误: %v", err)
	}

	// 台账与资源池均应回到原状
	if _, err := repo.Allocation.GetByID(ctx, allocID); err == nil {
		t.Error("回滚后不应查到分配记录")
	}
	slot, err := repo.Availability.GetSlot(ctx, tt.TimetableID, 1, 0)
	if err != nil {
		t.Fatalf("GetSlot 失败: %v", err)
	}
	if !slot.Rooms.Contains("R102") {
		t.Error("回滚后 R102 应仍在池中")
	}
}
