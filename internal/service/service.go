package service

import (
	"go.uber.org/zap"

	"campus-reservation/backend/config"
	"campus-reservation/backend/internal/repository"
	"campus-reservation/backend/pkg/events"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Timetable      TimetableService
	Reservation    ReservationService
	Conflict       ConflictService
	Availability   AvailabilityService
	Unavailability UnavailabilityService
	Export         ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	sink events.Sink,
	logger *zap.Logger,
) *Service {
	conflict := NewConflictService(repo, logger)
	return &Service{
		Timetable:      NewTimetableService(repo, logger),
		Reservation:    NewReservationService(cfg, repo, conflict, sink, logger),
		Conflict:       conflict,
		Availability:   NewAvailabilityService(repo, logger),
		Unavailability: NewUnavailabilityService(repo, logger),
		Export:         NewExportService(repo, logger),
	}
}
