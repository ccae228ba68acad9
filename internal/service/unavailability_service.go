package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-reservation/backend/internal/dto"
	"campus-reservation/backend/internal/model"
	"campus-reservation/backend/internal/repository"
)

// 不可用申请相关错误
var (
	ErrUnavailabilityNotFound = errors.New("不可用申请不存在")
	ErrInvalidDate            = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrAlreadyReviewed        = errors.New("申请已审批，不可重复操作")
)

// UnavailabilityService 教师不可用申请业务接口
// 申请经审批后成为冲突检测的输入之一
type UnavailabilityService interface {
	Create(ctx context.Context, req *dto.CreateUnavailabilityRequest) (*dto.UnavailabilityResponse, error)
	UpdateStatus(ctx context.Context, id, status, approvedBy string) (*dto.UnavailabilityResponse, error)
	List(ctx context.Context, req *dto.UnavailabilityListRequest) ([]dto.UnavailabilityResponse, int64, error)
}

type unavailabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUnavailabilityService 创建 UnavailabilityService 实例
func NewUnavailabilityService(repo *repository.Repository, logger *zap.Logger) UnavailabilityService {
	return &unavailabilityService{repo: repo, logger: logger}
}

// Create 提交不可用申请，day_of_week 由日期派生后冗余存储
func (s *unavailabilityService) Create(ctx context.Context, req *dto.CreateUnavailabilityRequest) (*dto.UnavailabilityResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	u := &model.FacultyUnavailability{
		FacultyID: req.FacultyID,
		Date:      date,
		DayOfWeek: int(date.Weekday()),
		Reason:    req.Reason,
		Status:    model.UnavailabilityStatusPending,
	}
	if err := s.repo.Unavailability.Create(ctx, u); err != nil {
		s.logger.Error("创建不可用申请失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("不可用申请已提交",
		zap.String("faculty_id", u.FacultyID),
		zap.String("date", req.Date),
	)
	return unavailabilityToResponse(u), nil
}

// UpdateStatus 审批申请（pending → approved/rejected，单次）
func (s *unavailabilityService) UpdateStatus(ctx context.Context, id, status, approvedBy string) (*dto.UnavailabilityResponse, error) {
	u, err := s.repo.Unavailability.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnavailabilityNotFound
		}
		return nil, err
	}
	if u.Status != model.UnavailabilityStatusPending {
		return nil, ErrAlreadyReviewed
	}

	if err := s.repo.Unavailability.UpdateStatus(ctx, id, status, approvedBy); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnavailabilityNotFound
		}
		return nil, err
	}
	u.Status = status
	u.ApprovedBy = approvedBy
	s.logger.Info("不可用申请已审批",
		zap.String("unavailability_id", id),
		zap.String("status", status),
	)
	return unavailabilityToResponse(u), nil
}

// List 分页查询申请
func (s *unavailabilityService) List(ctx context.Context, req *dto.UnavailabilityListRequest) ([]dto.UnavailabilityResponse, int64, error) {
	offset := (req.Page - 1) * req.PageSize
	list, total, err := s.repo.Unavailability.List(ctx, req.FacultyID, req.Status, offset, req.PageSize)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.UnavailabilityResponse, 0, len(list))
	for i := range list {
		resp = append(resp, *unavailabilityToResponse(&list[i]))
	}
	return resp, total, nil
}

func unavailabilityToResponse(u *model.FacultyUnavailability) *dto.UnavailabilityResponse {
	return &dto.UnavailabilityResponse{
		UnavailabilityID: u.UnavailabilityID,
		FacultyID:        u.FacultyID,
		Date:             u.Date.Format("2006-01-02"),
		DayOfWeek:        u.DayOfWeek,
		Day:              model.DayName(u.DayOfWeek),
		Reason:           u.Reason,
		Status:           u.Status,
		ApprovedBy:       u.ApprovedBy,
		CreatedAt:        u.CreatedAt,
	}
}
