package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-reservation/backend/internal/model"
)

// UpdateLogRepository 审计日志数据访问接口（纯追加）
type UpdateLogRepository interface {
	Create(ctx context.Context, log *model.UpdateLog) error
	ListByTimetable(ctx context.Context, timetableID string, offset, limit int) ([]model.UpdateLog, int64, error)
	DeleteByTimetable(ctx context.Context, timetableID string) error
}

type updateLogRepo struct {
	db *gorm.DB
}

// NewUpdateLogRepo 创建 UpdateLogRepository 实例
func NewUpdateLogRepo(db *gorm.DB) UpdateLogRepository {
	return &updateLogRepo{db: db}
}

func (r *updateLogRepo) Create(ctx context.Context, log *model.UpdateLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *updateLogRepo) ListByTimetable(ctx context.Context, timetableID string, offset, limit int) ([]model.UpdateLog, int64, error) {
	var logs []model.UpdateLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.UpdateLog{}).
		Where("timetable_id = ?", timetableID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}

func (r *updateLogRepo) DeleteByTimetable(ctx context.Context, timetableID string) error {
	// update_logs 无外键约束，时间表删除时显式清理
	return r.db.WithContext(ctx).
		Where("timetable_id = ?", timetableID).
		Delete(&model.UpdateLog{}).Error
}
