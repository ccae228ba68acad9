package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-reservation/backend/internal/model"
)

// UnavailabilityRepository 教师不可用申请数据访问接口
type UnavailabilityRepository interface {
	Create(ctx context.Context, u *model.FacultyUnavailability) error
	GetByID(ctx context.Context, id string) (*model.FacultyUnavailability, error)
	UpdateStatus(ctx context.Context, id, status, approvedBy string) error
	List(ctx context.Context, facultyID, status string, offset, limit int) ([]model.FacultyUnavailability, int64, error)
	// HasApproved 某教师在某星期几是否存在已批准的不可用申请
	HasApproved(ctx context.Context, facultyID string, dayOfWeek int) (bool, error)
}

type unavailabilityRepo struct {
	db *gorm.DB
}

// NewUnavailabilityRepo 创建 UnavailabilityRepository 实例
func NewUnavailabilityRepo(db *gorm.DB) UnavailabilityRepository {
	return &unavailabilityRepo{db: db}
}

func (r *unavailabilityRepo) Create(ctx context.Context, u *model.FacultyUnavailability) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *unavailabilityRepo) GetByID(ctx context.Context, id string) (*model.FacultyUnavailability, error) {
	var u model.FacultyUnavailability
	err := r.db.WithContext(ctx).
		Where("unavailability_id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unavailabilityRepo) UpdateStatus(ctx context.Context, id, status, approvedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.FacultyUnavailability{}).
		Where("unavailability_id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": approvedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *unavailabilityRepo) List(ctx context.Context, facultyID, status string, offset, limit int) ([]model.FacultyUnavailability, int64, error) {
	var list []model.FacultyUnavailability
	var total int64

	db := r.db.WithContext(ctx).Model(&model.FacultyUnavailability{})
	if facultyID != "" {
		db = db.Where("faculty_id = ?", facultyID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

func (r *unavailabilityRepo) HasApproved(ctx context.Context, facultyID string, dayOfWeek int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FacultyUnavailability{}).
		Where("faculty_id = ? AND status = ? AND day_of_week = ?",
			facultyID, model.UnavailabilityStatusApproved, dayOfWeek).
		Count(&count).Error
	return count > 0, err
}
