package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"campus-reservation/backend/internal/model"
	"campus-reservation/backend/internal/repository"
	"campus-reservation/backend/pkg/events"
	pkgerrors "campus-reservation/backend/pkg/errors"
)

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	timetables map[string]*model.Timetable
	seq        int
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{timetables: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, tt *model.Timetable) error {
	m.seq++
	if tt.TimetableID == "" {
		tt.TimetableID = fmt.Sprintf("tt-%d", m.seq)
	}
	tt.CreatedAt = time.Unix(int64(m.seq), 0)
	for i := range tt.Sections {
		sec := &tt.Sections[i]
		sec.SectionID = fmt.Sprintf("%s-sec-%d", tt.TimetableID, i)
		sec.TimetableID = tt.TimetableID
		for j := range sec.Slots {
			sl := &sec.Slots[j]
			sl.SlotID = fmt.Sprintf("%s-slot-%d", sec.SectionID, j)
			sl.SectionID = sec.SectionID
			sl.TimetableID = tt.TimetableID
			if sl.Version == 0 {
				sl.Version = 1
			}
		}
	}
	m.timetables[tt.TimetableID] = tt
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.Timetable, error) {
	if tt, ok := m.timetables[id]; ok {
		return tt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) GetLatest(_ context.Context) (*model.Timetable, error) {
	var latest *model.Timetable
	for _, tt := range m.timetables {
		if latest == nil || tt.CreatedAt.After(latest.CreatedAt) {
			latest = tt
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockTimetableRepo) List(_ context.Context) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, tt := range m.timetables {
		result = append(result, *tt)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockTimetableRepo) UpdateStatus(_ context.Context, id, status string) error {
	tt, ok := m.timetables[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	tt.Status = status
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.timetables[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.timetables, id)
	return nil
}

func (m *mockTimetableRepo) UpdateSlotAssignment(_ context.Context, slot *model.Slot) error {
	for _, tt := range m.timetables {
		for i := range tt.Sections {
			sec := &tt.Sections[i]
			for j := range sec.Slots {
				stored := &sec.Slots[j]
				if stored.SlotID != slot.SlotID {
					continue
				}
				if stored.Version != slot.Version {
					return pkgerrors.ErrOptimisticLock
				}
				*stored = *slot
				stored.Version++
				slot.Version = stored.Version
				return nil
			}
		}
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockTimetableRepo) CountSlotsByFacultyAtSlot(_ context.Context, timetableID, facultyID string, dayOfWeek, periodIndex int) (int64, error) {
	tt, ok := m.timetables[timetableID]
	if !ok {
		return 0, nil
	}
	var count int64
	for i := range tt.Sections {
		for _, sl := range tt.Sections[i].Slots {
			if sl.FacultyID == facultyID && sl.DayOfWeek == dayOfWeek && sl.PeriodIndex == periodIndex {
				count++
			}
		}
	}
	return count, nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	slots map[string]*model.AvailabilitySlot
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{slots: make(map[string]*model.AvailabilitySlot)}
}

func poolKey(timetableID string, dayOfWeek, periodIndex int) string {
	return fmt.Sprintf("%s:%d:%d", timetableID, dayOfWeek, periodIndex)
}

func (m *mockAvailabilityRepo) BatchCreate(_ context.Context, slots []model.AvailabilitySlot) error {
	for i := range slots {
		sl := slots[i]
		m.slots[poolKey(sl.TimetableID, sl.DayOfWeek, sl.PeriodIndex)] = &sl
	}
	return nil
}

func (m *mockAvailabilityRepo) GetSlot(_ context.Context, timetableID string, dayOfWeek, periodIndex int) (*model.AvailabilitySlot, error) {
	if sl, ok := m.slots[poolKey(timetableID, dayOfWeek, periodIndex)]; ok {
		return sl, nil
	}
	return nil, repository.ErrPoolSlotNotFound
}

func (m *mockAvailabilityRepo) ReserveRoom(_ context.Context, timetableID string, dayOfWeek, periodIndex int, roomID string) error {
	sl, ok := m.slots[poolKey(timetableID, dayOfWeek, periodIndex)]
	if !ok {
		return repository.ErrPoolSlotNotFound
	}
	if !sl.Rooms.Contains(roomID) {
		return repository.ErrRoomNotInPool
	}
	sl.Rooms = sl.Rooms.Remove(roomID)
	return nil
}

func (m *mockAvailabilityRepo) ReleaseRoom(_ context.Context, timetableID string, dayOfWeek, periodIndex int, roomID string) error {
	sl, ok := m.slots[poolKey(timetableID, dayOfWeek, periodIndex)]
	if !ok {
		return repository.ErrPoolSlotNotFound
	}
	sl.Rooms = sl.Rooms.Add(roomID)
	return nil
}

func (m *mockAvailabilityRepo) ReserveFaculty(_ context.Context, timetableID string, dayOfWeek, periodIndex int, facultyID string) error {
	sl, ok := m.slots[poolKey(timetableID, dayOfWeek, periodIndex)]
	if !ok {
		return repository.ErrPoolSlotNotFound
	}
	if !sl.Faculty.Contains(facultyID) {
		return repository.ErrFacultyNotInPool
	}
	sl.Faculty = sl.Faculty.Remove(facultyID)
	return nil
}

func (m *mockAvailabilityRepo) ReleaseFaculty(_ context.Context, timetableID string, dayOfWeek, periodIndex int, facultyID string) error {
	sl, ok := m.slots[poolKey(timetableID, dayOfWeek, periodIndex)]
	if !ok {
		return repository.ErrPoolSlotNotFound
	}
	sl.Faculty = sl.Faculty.Add(facultyID)
	return nil
}

func (m *mockAvailabilityRepo) Snapshot(_ context.Context, timetableID string) ([]model.AvailabilitySlot, error) {
	var result []model.AvailabilitySlot
	for _, sl := range m.slots {
		if sl.TimetableID == timetableID {
			result = append(result, *sl)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].PeriodIndex < result[j].PeriodIndex
	})
	return result, nil
}

// ── Mock AllocationRepository ──

type mockAllocationRepo struct {
	allocs map[string]*model.Allocation
	seq    int
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{allocs: make(map[string]*model.Allocation)}
}

func (m *mockAllocationRepo) Create(_ context.Context, alloc *model.Allocation) error {
	m.seq++
	if alloc.AllocationID == "" {
		alloc.AllocationID = fmt.Sprintf("alloc-%d", m.seq)
	}
	alloc.CreatedAt = time.Unix(int64(m.seq), 0)
	m.allocs[alloc.AllocationID] = alloc
	return nil
}

func (m *mockAllocationRepo) GetByID(_ context.Context, id string) (*model.Allocation, error) {
	if a, ok := m.allocs[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.allocs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.allocs, id)
	return nil
}

func (m *mockAllocationRepo) FindConflicting(_ context.Context, timetableID string, dayOfWeek, periodIndex int, roomID string) (*model.Allocation, error) {
	for _, a := range m.allocs {
		if a.TimetableID == timetableID && a.DayOfWeek == dayOfWeek && a.PeriodIndex == periodIndex && a.RoomID == roomID {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAllocationRepo) ListByFacultyAtSlot(_ context.Context, facultyID string, dayOfWeek, periodIndex int) ([]model.Allocation, error) {
	var result []model.Allocation
	for _, a := range m.allocs {
		if a.Type == model.AllocationTypeClass && a.FacultyID == facultyID && a.DayOfWeek == dayOfWeek && a.PeriodIndex == periodIndex {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAllocationRepo) ListByTimetable(_ context.Context, timetableID string) ([]model.Allocation, error) {
	var result []model.Allocation
	for _, a := range m.allocs {
		if a.TimetableID == timetableID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// ── Mock UnavailabilityRepository ──

type mockUnavailabilityRepo struct {
	items map[string]*model.FacultyUnavailability
	seq   int
}

func newMockUnavailabilityRepo() *mockUnavailabilityRepo {
	return &mockUnavailabilityRepo{items: make(map[string]*model.FacultyUnavailability)}
}

func (m *mockUnavailabilityRepo) Create(_ context.Context, u *model.FacultyUnavailability) error {
	m.seq++
	if u.UnavailabilityID == "" {
		u.UnavailabilityID = fmt.Sprintf("unav-%d", m.seq)
	}
	m.items[u.UnavailabilityID] = u
	return nil
}

func (m *mockUnavailabilityRepo) GetByID(_ context.Context, id string) (*model.FacultyUnavailability, error) {
	if u, ok := m.items[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnavailabilityRepo) UpdateStatus(_ context.Context, id, status, approvedBy string) error {
	u, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	u.ApprovedBy = approvedBy
	return nil
}

func (m *mockUnavailabilityRepo) List(_ context.Context, facultyID, status string, offset, limit int) ([]model.FacultyUnavailability, int64, error) {
	var all []model.FacultyUnavailability
	for _, u := range m.items {
		if facultyID != "" && u.FacultyID != facultyID {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUnavailabilityRepo) HasApproved(_ context.Context, facultyID string, dayOfWeek int) (bool, error) {
	for _, u := range m.items {
		if u.FacultyID == facultyID && u.DayOfWeek == dayOfWeek && u.Status == model.UnavailabilityStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock UpdateLogRepository ──

type mockUpdateLogRepo struct {
	logs []model.UpdateLog
}

func newMockUpdateLogRepo() *mockUpdateLogRepo {
	return &mockUpdateLogRepo{}
}

func (m *mockUpdateLogRepo) Create(_ context.Context, log *model.UpdateLog) error {
	log.UpdateLogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockUpdateLogRepo) ListByTimetable(_ context.Context, timetableID string, offset, limit int) ([]model.UpdateLog, int64, error) {
	var all []model.UpdateLog
	for _, l := range m.logs {
		if l.TimetableID == timetableID {
			all = append(all, l)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUpdateLogRepo) DeleteByTimetable(_ context.Context, timetableID string) error {
	var kept []model.UpdateLog
	for _, l := range m.logs {
		if l.TimetableID != timetableID {
			kept = append(kept, l)
		}
	}
	m.logs = kept
	return nil
}

// ── 事件收集 Sink ──

type captureSink struct {
	events []events.Event
}

func (s *captureSink) Emit(_ context.Context, e events.Event) error {
	s.events = append(s.events, e)
	return nil
}

// ── 测试环境 ──

type testEnv struct {
	repo  *repository.Repository
	tt    *mockTimetableRepo
	pool  *mockAvailabilityRepo
	alloc *mockAllocationRepo
	unav  *mockUnavailabilityRepo
	logs  *mockUpdateLogRepo
	sink  *captureSink
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tt:    newMockTimetableRepo(),
		pool:  newMockAvailabilityRepo(),
		alloc: newMockAllocationRepo(),
		unav:  newMockUnavailabilityRepo(),
		logs:  newMockUpdateLogRepo(),
		sink:  &captureSink{},
	}
	env.repo = &repository.Repository{
		Timetable:      env.tt,
		Availability:   env.pool,
		Allocation:     env.alloc,
		Unavailability: env.unav,
		UpdateLog:      env.logs,
	}
	return env
}
