package update_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/featureflags"
	menuRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/menu"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// --- фейки зависимостей ---

type fakeReservationRepo struct {
	byID    map[int64]*domain.Reservation
	updated *domain.Reservation
}

func newFakeReservationRepo(reservations ...*domain.Reservation) *fakeReservationRepo {
	byID := make(map[int64]*domain.Reservation, len(reservations))
	for _, r := range reservations {
		byID[r.ID] = r
	}
	return &fakeReservationRepo{byID: byID}
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReservationRepo) ListActiveByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range f.byID {
		if r.UserID == userID && r.ReservedDate.Equal(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range f.byID {
		id, ok := r.Staff.StaffID()
		if ok && id == staffID && r.ReservedDate.Equal(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListActivePoolByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range f.byID {
		if !r.Staff.IsAssigned() && r.ReservedDate.Equal(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateSchedule(ctx context.Context, res *domain.Reservation) error {
	copied := *res
	f.byID[res.ID] = &copied
	f.updated = &copied
	return nil
}

type fakeSettingsRepo struct {
	settings *domain.StoreSettings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*domain.StoreSettings, error) {
	return f.settings, nil
}

type fakeMenuRepo struct {
	byID map[int64]*domain.Menu
}

func (f *fakeMenuRepo) GetByID(ctx context.Context, id int64) (*domain.Menu, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, menuRepo.ErrMenuNotFound
	}
	return m, nil
}

type fakeStaffRepo struct {
	byID      map[int64]*domain.Staff
	rules     []*domain.ShiftRule
	vacations []*domain.Vacation
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeStaffRepo) ListActiveShiftRules(ctx context.Context, staffIDs []int64) ([]*domain.ShiftRule, error) {
	return f.rules, nil
}

func (f *fakeStaffRepo) ListVacationsCovering(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Vacation, error) {
	var out []*domain.Vacation
	for _, v := range f.vacations {
		if v.Covers(date) {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeBlockedRepo struct {
	blocks []*domain.BlockedTimeSlot
}

func (f *fakeBlockedRepo) ListForDate(ctx context.Context, date time.Time) ([]*domain.BlockedTimeSlot, error) {
	return f.blocks, nil
}

type fakeFlags struct {
	flags featureflags.Flags
}

func (f *fakeFlags) GetFlagsWithGracefulDegradation(ctx context.Context) *featureflags.Flags {
	flags := f.flags
	return &flags
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// --- фикстуры ---

// Понедельник
var testDate = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func mustTime(t *testing.T, s string) types.TimeOfDay {
	t.Helper()
	v, err := types.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func existingReservation(t *testing.T) *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		UserID:          100,
		Staff:           domain.PoolAssignment(),
		MenuID:          5,
		ReservedDate:    testDate,
		ReservedTime:    mustTime(t, "10:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		MenuName:        "Стрижка",
		MenuPrice:       1500,
	}
}

type useCaseDeps struct {
	reservations *fakeReservationRepo
	settings     *fakeSettingsRepo
	menu         *fakeMenuRepo
	staff        *fakeStaffRepo
	blocked      *fakeBlockedRepo
	flags        *fakeFlags
}

func defaultDeps(t *testing.T) *useCaseDeps {
	return &useCaseDeps{
		reservations: newFakeReservationRepo(existingReservation(t)),
		settings: &fakeSettingsRepo{settings: &domain.StoreSettings{
			ID:                  1,
			OpenTime:            mustTime(t, "09:00"),
			CloseTime:           mustTime(t, "18:00"),
			SlotDurationMinutes: 30,
			ClosedDays:          []string{"sunday"},
		}},
		menu: &fakeMenuRepo{byID: map[int64]*domain.Menu{
			5: {ID: 5, Name: "Стрижка", DurationMinutes: 60, Price: 1500, IsActive: true},
		}},
		staff:   &fakeStaffRepo{byID: map[int64]*domain.Staff{}},
		blocked: &fakeBlockedRepo{},
		flags:   &fakeFlags{flags: featureflags.Flags{EnableStaffSelection: true}},
	}
}

func newTestUseCase(t *testing.T, deps *useCaseDeps) *UseCase {
	t.Helper()

	uc := NewUseCase(
		deps.reservations,
		deps.settings,
		deps.menu,
		deps.staff,
		deps.blocked,
		deps.flags,
		fakeTxManager{},
		noopLogger{},
	)
	uc.timeProvider = &fixedTime{now: testDate.Add(-12 * time.Hour)}
	return uc
}

func rescheduleRequest(t *testing.T, startTime string) *Request {
	return &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          testDate,
		StartTime:     mustTime(t, startTime),
	}
}

// --- тесты ---

func TestExecute_ReschedulesToNewTime(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	resp, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "14:00", resp.ReservedTime.String())
	assert.Nil(t, resp.StaffID)

	require.NotNil(t, deps.reservations.updated)
	assert.Equal(t, "14:00", deps.reservations.updated.ReservedTime.String())
}

func TestExecute_ReservationNotFound(t *testing.T) {
	uc := newTestUseCase(t, defaultDeps(t))

	req := rescheduleRequest(t, "14:00")
	req.ReservationID = 999

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc := newTestUseCase(t, defaultDeps(t))

	req := rescheduleRequest(t, "14:00")
	req.UserID = 200

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotUpdatableStatuses(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			deps := defaultDeps(t)
			res := existingReservation(t)
			res.Status = status
			deps.reservations = newFakeReservationRepo(res)
			uc := newTestUseCase(t, deps)

			_, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:00"))
			assert.ErrorIs(t, err, ErrReservationNotUpdatable)
		})
	}
}

func TestExecute_ExcludesSelfFromConflictChecks(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	// Перенос на то же время не конфликтует сам с собой
	resp, err := uc.Execute(context.Background(), rescheduleRequest(t, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.ReservedTime.String())

	// Сдвиг на полслота пересекается только с самой записью - тоже проходит
	resp, err = uc.Execute(context.Background(), rescheduleRequest(t, "10:30"))
	require.NoError(t, err)
	assert.Equal(t, "10:30", resp.ReservedTime.String())
}

func TestExecute_UserConflictWithOtherReservation(t *testing.T) {
	deps := defaultDeps(t)
	other := existingReservation(t)
	other.ID = 2
	other.ReservedTime = mustTime(t, "14:00")
	deps.reservations = newFakeReservationRepo(existingReservation(t), other)
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:30"))
	assert.ErrorIs(t, err, ErrUserTimeSlotConflict)

	// Смежный интервал не конфликтует: чужая запись до 15:00
	_, err = uc.Execute(context.Background(), rescheduleRequest(t, "15:00"))
	assert.NoError(t, err)
}

func TestExecute_PoolConflictWithOtherUser(t *testing.T) {
	deps := defaultDeps(t)
	other := existingReservation(t)
	other.ID = 2
	other.UserID = 200
	other.ReservedTime = mustTime(t, "14:00")
	deps.reservations = newFakeReservationRepo(existingReservation(t), other)
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:30"))
	assert.ErrorIs(t, err, ErrPoolTimeSlotConflict)
}

func TestExecute_ChangeStaff(t *testing.T) {
	deps := defaultDeps(t)
	deps.staff.byID[1] = &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	uc := newTestUseCase(t, deps)

	staffID := int64(1)
	req := rescheduleRequest(t, "14:00")
	req.StaffID = &staffID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(1), *resp.StaffID)
}

func TestExecute_StaffConflictOnNewStaff(t *testing.T) {
	deps := defaultDeps(t)
	deps.staff.byID[1] = &domain.Staff{ID: 1, Name: "Анна", IsActive: true}

	id1 := int64(1)
	busy := existingReservation(t)
	busy.ID = 2
	busy.UserID = 200
	busy.Staff = domain.AssignStaff(id1)
	busy.ReservedTime = mustTime(t, "14:00")
	deps.reservations = newFakeReservationRepo(existingReservation(t), busy)
	uc := newTestUseCase(t, deps)

	req := rescheduleRequest(t, "14:30")
	req.StaffID = &id1

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffTimeSlotConflict)
}

func TestExecute_KeepsExistingAssignmentWhenStaffOmitted(t *testing.T) {
	deps := defaultDeps(t)
	res := existingReservation(t)
	res.Staff = domain.AssignStaff(7)
	deps.reservations = newFakeReservationRepo(res)
	uc := newTestUseCase(t, deps)

	resp, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:00"))
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(7), *resp.StaffID)
}

func TestExecute_ChangeMenu(t *testing.T) {
	deps := defaultDeps(t)
	deps.menu.byID[6] = &domain.Menu{ID: 6, Name: "Окрашивание", DurationMinutes: 120, Price: 4000, IsActive: true}
	uc := newTestUseCase(t, deps)

	menuID := int64(6)
	req := rescheduleRequest(t, "14:00")
	req.MenuID = &menuID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.MenuID)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, "Окрашивание", resp.MenuName)
	assert.Equal(t, float64(4000), resp.MenuPrice)
}

func TestExecute_InactiveMenuRules(t *testing.T) {
	deps := defaultDeps(t)
	// Текущая услуга записи стала неактивной
	deps.menu.byID[5].IsActive = false
	deps.menu.byID[6] = &domain.Menu{ID: 6, Name: "Окрашивание", DurationMinutes: 120, Price: 4000, IsActive: false}
	uc := newTestUseCase(t, deps)

	// Перенос с сохранением текущей (неактивной) услуги допустим
	_, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:00"))
	assert.NoError(t, err)

	// Смена услуги на неактивную запрещена
	menuID := int64(6)
	req := rescheduleRequest(t, "15:00")
	req.MenuID = &menuID
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestExecute_ShiftChecksOnNewDate(t *testing.T) {
	deps := defaultDeps(t)
	deps.staff.byID[1] = &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	deps.staff.rules = []*domain.ShiftRule{
		{ID: 10, StaffID: 1, DayOfWeek: time.Monday, StartTime: mustTime(t, "12:00"), EndTime: mustTime(t, "15:00"), IsActive: true},
	}
	deps.flags.flags.EnableStaffShiftManagement = true
	uc := newTestUseCase(t, deps)

	staffID := int64(1)

	req := rescheduleRequest(t, "10:00")
	req.StaffID = &staffID
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotAvailable)

	req = rescheduleRequest(t, "13:00")
	req.StaffID = &staffID
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_BlockedNewTime(t *testing.T) {
	deps := defaultDeps(t)
	deps.blocked.blocks = []*domain.BlockedTimeSlot{
		{
			StartDateTime: time.Date(2025, 6, 16, 14, 0, 0, 0, time.UTC),
			EndDateTime:   time.Date(2025, 6, 16, 15, 0, 0, 0, time.UTC),
		},
	}
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), rescheduleRequest(t, "14:00"))
	assert.ErrorIs(t, err, ErrTimeSlotBlocked)
}

func TestExecute_StoreClosedOnNewDate(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)
	uc.timeProvider = &fixedTime{now: testDate.AddDate(0, 0, -2)}

	req := rescheduleRequest(t, "14:00")
	req.Date = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStoreClosed)
}
