package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-reservation/backend/internal/dto"
	"campus-reservation/backend/internal/model"
	"campus-reservation/backend/internal/repository"
)

// AvailabilityService 空闲资源池查询接口
// 只读入口；池的变更全部经由 ReservationService 的事务
type AvailabilityService interface {
	Snapshot(ctx context.Context, timetableID string) (*dto.AvailabilitySnapshotResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

// Snapshot 查询时间表全部槽位的空闲资源
// timetableID 为空时取最新时间表
func (s *availabilityService) Snapshot(ctx context.Context, timetableID string) (*dto.AvailabilitySnapshotResponse, error) {
	if timetableID == "" {
		tt, err := s.repo.Timetable.GetLatest(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoTimetable
			}
			return nil, err
		}
		timetableID = tt.TimetableID
	}

	slots, err := s.repo.Availability.Snapshot(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AvailabilitySnapshotResponse{
		TimetableID: timetableID,
		Slots:       make([]dto.PoolSlotResponse, 0, len(slots)),
	}
	for i := range slots {
		sl := &slots[i]
		resp.Slots = append(resp.Slots, dto.PoolSlotResponse{
			DayOfWeek:   sl.DayOfWeek,
			Day:         model.DayName(sl.DayOfWeek),
			PeriodIndex: sl.PeriodIndex,
			Rooms:       sl.Rooms,
			Faculty:     sl.Faculty,
		})
	}
	return resp, nil
}
