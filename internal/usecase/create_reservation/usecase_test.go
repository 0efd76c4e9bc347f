package create_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/featureflags"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifier"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// --- фейки зависимостей ---

// fakeReservationRepo хранит созданные записи в памяти: повторный вызов
// Execute видит записи, созданные предыдущим, как и реальная БД
type fakeReservationRepo struct {
	mu           sync.Mutex
	nextID       int64
	reservations []*domain.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{nextID: 1}
}

func (f *fakeReservationRepo) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *res
	created.ID = f.nextID
	f.nextID++
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.reservations = append(f.reservations, &created)
	return &created, nil
}

func (f *fakeReservationRepo) ListActiveByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Reservation
	for _, r := range f.reservations {
		if r.UserID == userID && r.ReservedDate.Equal(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Reservation
	for _, r := range f.reservations {
		id, ok := r.Staff.StaffID()
		if ok && id == staffID && r.ReservedDate.Equal(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListActivePoolByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Reservation
	for _, r := range f.reservations {
		if !r.Staff.IsAssigned() && r.ReservedDate.Equal(date) && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings *domain.StoreSettings
	err      error
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*domain.StoreSettings, error) {
	return f.settings, f.err
}

type fakeMenuRepo struct {
	menu *domain.Menu
	err  error
}

func (f *fakeMenuRepo) GetByID(ctx context.Context, id int64) (*domain.Menu, error) {
	return f.menu, f.err
}

type fakeStaffRepo struct {
	byID      map[int64]*domain.Staff
	active    []*domain.Staff
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

func (f *fakeStaffRepo) ListActive(ctx context.Context) ([]*domain.Staff, error) {
	return f.active, nil
}

func (f *fakeStaffRepo) ListActiveShiftRules(ctx context.Context, staffIDs []int64) ([]*domain.ShiftRule, error) {
	return f.rules, nil
}

func (f *fakeStaffRepo) ListVacationsCovering(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Vacation, error) {
	return f.vacations, nil
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

type fakeNotifier struct {
	sent chan notifier.ReservationCreatedNotification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan notifier.ReservationCreatedNotification, 8)}
}

func (f *fakeNotifier) SendReservationCreated(ctx context.Context, n notifier.ReservationCreatedNotification) error {
	f.sent <- n
	return nil
}

// fakeTxManager выполняет функцию транзакции под общим мьютексом,
// моделируя сериализуемую изоляцию: конкурирующие транзакции
// выполняются строго по очереди
type fakeTxManager struct {
	mu *sync.Mutex
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{mu: &sync.Mutex{}}
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

type useCaseDeps struct {
	reservations *fakeReservationRepo
	settings     *fakeSettingsRepo
	menu         *fakeMenuRepo
	staff        *fakeStaffRepo
	blocked      *fakeBlockedRepo
	flags        *fakeFlags
	notifier     *fakeNotifier
}

func defaultDeps(t *testing.T) *useCaseDeps {
	return &useCaseDeps{
		reservations: newFakeReservationRepo(),
		settings: &fakeSettingsRepo{settings: &domain.StoreSettings{
			ID:                  1,
			OpenTime:            mustTime(t, "09:00"),
			CloseTime:           mustTime(t, "18:00"),
			SlotDurationMinutes: 30,
			ClosedDays:          []string{"sunday"},
		}},
		menu: &fakeMenuRepo{menu: &domain.Menu{
			ID:              5,
			Name:            "Стрижка",
			DurationMinutes: 60,
			Price:           1500,
			IsActive:        true,
		}},
		staff:    &fakeStaffRepo{byID: map[int64]*domain.Staff{}},
		blocked:  &fakeBlockedRepo{},
		flags:    &fakeFlags{flags: featureflags.Flags{EnableStaffSelection: true}},
		notifier: newFakeNotifier(),
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
		deps.notifier,
		newFakeTxManager(),
		noopLogger{},
	)
	uc.timeProvider = &fixedTime{now: testDate.Add(-12 * time.Hour)}
	return uc
}

func validRequest(startTime types.TimeOfDay) *Request {
	return &Request{
		UserID:    100,
		MenuID:    5,
		Date:      testDate,
		StartTime: startTime,
	}
}

func awaitNotification(t *testing.T, n *fakeNotifier) notifier.ReservationCreatedNotification {
	t.Helper()
	select {
	case msg := <-n.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
		return notifier.ReservationCreatedNotification{}
	}
}

// --- тесты ---

func TestExecute_CreatesPoolReservation(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	resp, err := uc.Execute(context.Background(), validRequest(mustTime(t, "10:00")))
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.UserID)
	assert.Nil(t, resp.StaffID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Стрижка", resp.MenuName)
	assert.Equal(t, float64(1500), resp.MenuPrice)
	assert.Equal(t, 60, resp.DurationMinutes)

	msg := awaitNotification(t, deps.notifier)
	assert.Equal(t, resp.ID, msg.ReservationID)
	assert.Equal(t, "2025-06-16", msg.ReservedDate)
	assert.Equal(t, "10:00", msg.ReservedTime)
}

func TestExecute_TimeSlotValidation(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	t.Run("вне рабочего дня", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "08:00")))
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)

		// Услуга 60 минут с началом в 17:30 закончится после закрытия
		_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "17:30")))
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("последний помещающийся слот проходит", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "17:00")))
		assert.NoError(t, err)
	})

	t.Run("мимо сетки слотов", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "10:15")))
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("время в прошлом", func(t *testing.T) {
		uc := newTestUseCase(t, defaultDeps(t))
		uc.timeProvider = &fixedTime{now: testDate.Add(14 * time.Hour)} // 14:00 того же дня

		_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "12:00")))
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)

		// Момент "сейчас" не бронируется, только строго будущее
		_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "14:00")))
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)

		_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "14:30")))
		assert.NoError(t, err)
	})
}

func TestExecute_StoreClosed(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)
	uc.timeProvider = &fixedTime{now: testDate.AddDate(0, 0, -2)}

	sunday := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	req := validRequest(mustTime(t, "10:00"))
	req.Date = sunday

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestExecute_BlockedTimeSlot(t *testing.T) {
	deps := defaultDeps(t)
	deps.blocked.blocks = []*domain.BlockedTimeSlot{
		{
			StartDateTime: time.Date(2025, 6, 16, 14, 0, 0, 0, time.UTC),
			EndDateTime:   time.Date(2025, 6, 16, 15, 0, 0, 0, time.UTC),
		},
	}
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "14:00")))
	assert.ErrorIs(t, err, ErrTimeSlotBlocked)

	_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "14:30")))
	assert.ErrorIs(t, err, ErrTimeSlotBlocked)

	// Проверяется только момент начала: слот 13:30 заходит внутрь блока,
	// но создается успешно
	_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "13:30")))
	assert.NoError(t, err)
}

func TestExecute_UserConflict(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "10:00")))
	require.NoError(t, err)

	// Пересекающийся интервал того же пользователя
	_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "10:30")))
	assert.ErrorIs(t, err, ErrUserTimeSlotConflict)

	// Смежный интервал не конфликтует: запись до 11:00, начало в 11:00
	_, err = uc.Execute(context.Background(), validRequest(mustTime(t, "11:00")))
	assert.NoError(t, err)
}

func TestExecute_PoolConflict(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), validRequest(mustTime(t, "10:00")))
	require.NoError(t, err)

	// Другой пользователь на пересекающийся интервал пула
	req := validRequest(mustTime(t, "10:30"))
	req.UserID = 200
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPoolTimeSlotConflict)
}

func TestExecute_AssignedStaffConflict(t *testing.T) {
	deps := defaultDeps(t)
	staff1 := &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	deps.staff.byID[1] = staff1
	deps.staff.active = []*domain.Staff{staff1}
	uc := newTestUseCase(t, deps)

	staffID := int64(1)
	req := validRequest(mustTime(t, "10:00"))
	req.StaffID = &staffID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(1), *resp.StaffID)

	// Другой пользователь к тому же сотруднику на пересекающийся интервал
	req2 := validRequest(mustTime(t, "10:30"))
	req2.UserID = 200
	req2.StaffID = &staffID
	_, err = uc.Execute(context.Background(), req2)
	assert.ErrorIs(t, err, ErrStaffTimeSlotConflict)

	// Запись, заканчивающаяся в 11:00, не конфликтует с началом в 11:00
	req3 := validRequest(mustTime(t, "11:00"))
	req3.UserID = 200
	req3.StaffID = &staffID
	_, err = uc.Execute(context.Background(), req3)
	assert.NoError(t, err)
}

func TestExecute_AutoAssignPicksFirstFreeByID(t *testing.T) {
	deps := defaultDeps(t)
	staff1 := &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	staff2 := &domain.Staff{ID: 2, Name: "Борис", IsActive: true}
	deps.staff.byID[1] = staff1
	deps.staff.byID[2] = staff2
	deps.staff.active = []*domain.Staff{staff1, staff2}
	uc := newTestUseCase(t, deps)

	resp1, err := uc.Execute(context.Background(), validRequest(mustTime(t, "10:00")))
	require.NoError(t, err)
	require.NotNil(t, resp1.StaffID)
	assert.Equal(t, int64(1), *resp1.StaffID)

	// Первый занят - второй пользователь получает следующего по ID
	req2 := validRequest(mustTime(t, "10:00"))
	req2.UserID = 200
	resp2, err := uc.Execute(context.Background(), req2)
	require.NoError(t, err)
	require.NotNil(t, resp2.StaffID)
	assert.Equal(t, int64(2), *resp2.StaffID)

	// Оба заняты - конфликт
	req3 := validRequest(mustTime(t, "10:00"))
	req3.UserID = 300
	_, err = uc.Execute(context.Background(), req3)
	assert.ErrorIs(t, err, ErrNoStaffAvailable)
}

func TestExecute_StaffShiftChecks(t *testing.T) {
	deps := defaultDeps(t)
	staff1 := &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	deps.staff.byID[1] = staff1
	deps.staff.active = []*domain.Staff{staff1}
	deps.staff.rules = []*domain.ShiftRule{
		{ID: 10, StaffID: 1, DayOfWeek: time.Monday, StartTime: mustTime(t, "12:00"), EndTime: mustTime(t, "15:00"), IsActive: true},
	}
	deps.flags.flags.EnableStaffShiftManagement = true
	uc := newTestUseCase(t, deps)

	staffID := int64(1)

	t.Run("вне смены - сотрудник недоступен", func(t *testing.T) {
		req := validRequest(mustTime(t, "10:00"))
		req.StaffID = &staffID
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrStaffNotAvailable)
	})

	t.Run("услуга должна целиком уложиться в смену", func(t *testing.T) {
		req := validRequest(mustTime(t, "14:30"))
		req.StaffID = &staffID
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrStaffNotAvailable)
	})

	t.Run("внутри смены - запись создается", func(t *testing.T) {
		req := validRequest(mustTime(t, "12:00"))
		req.StaffID = &staffID
		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, resp.StaffID)
		assert.Equal(t, int64(1), *resp.StaffID)
	})

	t.Run("автоназначение без сотрудников на смене", func(t *testing.T) {
		req := validRequest(mustTime(t, "16:00"))
		req.UserID = 200
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoStaffAvailable)
	})
}

func TestExecute_StaffSelectionDisabledIgnoresChoice(t *testing.T) {
	deps := defaultDeps(t)
	staff1 := &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	staff2 := &domain.Staff{ID: 2, Name: "Борис", IsActive: true}
	deps.staff.byID[1] = staff1
	deps.staff.byID[2] = staff2
	deps.staff.active = []*domain.Staff{staff1, staff2}
	deps.flags.flags.EnableStaffSelection = false
	uc := newTestUseCase(t, deps)

	// Клиент просит второго мастера, но выбор выключен -
	// автоназначение отдаёт первого свободного по ID
	staffID := int64(2)
	req := validRequest(mustTime(t, "10:00"))
	req.StaffID = &staffID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(1), *resp.StaffID)
}

func TestExecute_VacationBlocksStaff(t *testing.T) {
	deps := defaultDeps(t)
	staff1 := &domain.Staff{ID: 1, Name: "Анна", IsActive: true}
	deps.staff.byID[1] = staff1
	deps.staff.active = []*domain.Staff{staff1}
	deps.staff.rules = []*domain.ShiftRule{
		{ID: 10, StaffID: 1, DayOfWeek: time.Monday, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "18:00"), IsActive: true},
	}
	deps.staff.vacations = []*domain.Vacation{
		{ID: 20, StaffID: 1, StartDate: testDate.AddDate(0, 0, -1), EndDate: testDate.AddDate(0, 0, 3)},
	}
	deps.flags.flags.EnableStaffShiftManagement = true
	uc := newTestUseCase(t, deps)

	staffID := int64(1)
	req := validRequest(mustTime(t, "10:00"))
	req.StaffID = &staffID

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotAvailable)
}

func TestExecute_InactiveStaffNotFound(t *testing.T) {
	deps := defaultDeps(t)
	deps.staff.byID[1] = &domain.Staff{ID: 1, Name: "Анна", IsActive: false}
	uc := newTestUseCase(t, deps)

	staffID := int64(1)
	req := validRequest(mustTime(t, "10:00"))
	req.StaffID = &staffID

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_ConcurrentRequestsExactlyOneSucceeds(t *testing.T) {
	deps := defaultDeps(t)
	uc := newTestUseCase(t, deps)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	// Разные пользователи ломятся на один и тот же интервал пула.
	// Фейковый репозиторий сериализует доступ мьютексом, как СУБД -
	// сериализуемой транзакцией: успешным должен быть ровно один.
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest(mustTime(t, "10:00"))
			req.UserID = int64(100 + i)
			_, errs[i] = uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrPoolTimeSlotConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}
