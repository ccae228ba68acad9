package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campus-reservation/backend/internal/model"
)

// AllocationRepository 分配台账数据访问接口
type AllocationRepository interface {
	Create(ctx context.Context, alloc *model.Allocation) error
	GetByID(ctx context.Context, id string) (*model.Allocation, error)
	Delete(ctx context.Context, id string) error
	// FindConflicting 查找同 (timetable, day, period, room) 的现存条目；无冲突返回 (nil, nil)
	FindConflicting(ctx context.Context, timetableID string, dayOfWeek, periodIndex int, roomID string) (*model.Allocation, error)
	// ListByFacultyAtSlot 某教师在 (day, period) 上的 class 类型条目，跨时间表
	ListByFacultyAtSlot(ctx context.Context, facultyID string, dayOfWeek, periodIndex int) ([]model.Allocation, error)
	ListByTimetable(ctx context.Context, timetableID string) ([]model.Allocation, error)
}

type allocationRepo struct {
	db *gorm.DB
}

// NewAllocationRepo 创建 AllocationRepository 实例
func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) Create(ctx context.Context, alloc *model.Allocation) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

func (r *allocationRepo) GetByID(ctx context.Context, id string) (*model.Allocation, error) {
	var alloc model.Allocation
	err := r.db.WithContext(ctx).
		Where("allocation_id = ?", id).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (r *allocationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("allocation_id = ?", id).
		Delete(&model.Allocation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *allocationRepo) FindConflicting(ctx context.Context, timetableID string, dayOfWeek, periodIndex int, roomID string) (*model.Allocation, error) {
	var alloc model.Allocation
	err := r.db.WithContext(ctx).
		Where("timetable_id = ? AND day_of_week = ? AND period_index = ? AND room_id = ?",
			timetableID, dayOfWeek, periodIndex, roomID).
		First(&alloc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alloc, nil
}

func (r *allocationRepo) ListByFacultyAtSlot(ctx context.Context, facultyID string, dayOfWeek, periodIndex int) ([]model.Allocation, error) {
	var allocs []model.Allocation
	err := r.db.WithContext(ctx).
		Where("type = ? AND faculty_id = ? AND day_of_week = ? AND period_index = ?",
			model.AllocationTypeClass, facultyID, dayOfWeek, periodIndex).
		Find(&allocs).Error
	return allocs, err
}

func (r *allocationRepo) ListByTimetable(ctx context.Context, timetableID string) ([]model.Allocation, error) {
	var allocs []model.Allocation
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", timetableID).
		Order("created_at DESC").
		Find(&allocs).Error
	return allocs, err
}
