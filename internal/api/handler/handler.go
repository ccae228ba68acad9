package handler

import "campus-reservation/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Timetable      *TimetableHandler
	Reservation    *ReservationHandler
	Availability   *AvailabilityHandler
	Unavailability *UnavailabilityHandler
	Export         *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Timetable:      NewTimetableHandler(svc.Timetable, svc.Reservation),
		Reservation:    NewReservationHandler(svc.Reservation),
		Availability:   NewAvailabilityHandler(svc.Availability, svc.Conflict),
		Unavailability: NewUnavailabilityHandler(svc.Unavailability),
		Export:         NewExportHandler(svc.Export),
	}
}
