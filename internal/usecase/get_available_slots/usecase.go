package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	menuRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/menu"
	settingsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	reservationRepo ReservationRepository
	settingsRepo    SettingsRepository
	menuRepo        MenuRepository
	staffRepo       StaffRepository
	blockedRepo     BlockedSlotRepository
	flags           FeatureFlagsProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	settingsRepo SettingsRepository,
	menuRepo MenuRepository,
	staffRepo StaffRepository,
	blockedRepo BlockedSlotRepository,
	flags FeatureFlagsProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settingsRepo:    settingsRepo,
		menuRepo:        menuRepo,
		staffRepo:       staffRepo,
		blockedRepo:     blockedRepo,
		flags:           flags,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Возвращает ВСЕ кандидаты слотов дня, включая занятые (available=false),
// чтобы клиент мог отрисовать полную сетку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: menu=%d, staff=%v, date=%s",
		req.MenuID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки салона
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Warn("GetAvailableSlots: store settings not configured")
			return nil, ErrSettingsNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 4. Выходной день или дата в прошлом - весь день без слотов
	if settings.IsClosedOn(req.Date) {
		uc.logger.Info("GetAvailableSlots: store is closed on %s", req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 5. Получаем услугу
	menu, err := uc.menuRepo.GetByID(ctx, req.MenuID)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("GetAvailableSlots: menu id=%d not found", req.MenuID)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get menu id=%d: %v", req.MenuID, err)
		return nil, fmt.Errorf("%w: failed to get menu: %v", ErrInternal, err)
	}
	if !menu.IsActive {
		uc.logger.Warn("GetAvailableSlots: menu id=%d is inactive", req.MenuID)
		return nil, ErrMenuNotFound
	}

	// 6. Получаем фич-флаги (graceful degradation на дефолты из конфига)
	flags := uc.flags.GetFlagsWithGracefulDegradation(ctx)

	// 7. Получаем заблокированные окна и активные записи на дату
	blocks, err := uc.blockedRepo.ListForDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked slots: %v", ErrInternal, err)
	}

	reservations, err := uc.reservationRepo.ListActiveByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}
	byStaff, pool := groupReservations(reservations)

	// 8. Генерируем кандидаты слотов
	candidates := generateCandidateSlots(
		settings.OpenTime,
		settings.CloseTime,
		settings.SlotDurationMinutes,
		menu.DurationMinutes,
	)

	// 9. Вычисляем доступность каждого кандидата
	var slots []Slot
	switch {
	case req.StaffID != nil:
		slots, err = uc.resolveForStaff(ctx, req, *req.StaffID, menu, candidates, byStaff, blocks, flags.EnableStaffShiftManagement)
	default:
		slots, err = uc.resolveForAnyResource(ctx, req, menu, candidates, byStaff, pool, blocks, flags.EnableStaffShiftManagement)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for menu=%d, date=%s",
		len(slots), req.MenuID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:    req.Date,
		MenuID:  req.MenuID,
		StaffID: req.StaffID,
		Slots:   slots,
	}, nil
}

// resolveForStaff вычисляет доступность слотов для конкретного сотрудника
func (uc *UseCase) resolveForStaff(
	ctx context.Context,
	req *Request,
	staffID int64,
	menu *domain.Menu,
	candidates []types.TimeOfDay,
	byStaff map[int64][]*domain.Reservation,
	blocks []*domain.BlockedTimeSlot,
	shiftManagement bool,
) ([]Slot, error) {
	staff, err := uc.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", staffID)
		return nil, ErrStaffNotFound
	}

	schedules, err := uc.loadSchedules(ctx, []*domain.Staff{staff}, req, shiftManagement)
	if err != nil {
		return nil, err
	}

	sched := schedules[staff.ID]
	slots := make([]Slot, 0, len(candidates))
	for _, start := range candidates {
		available := resolveStaffSlot(start, menu.DurationMinutes, req.Date, sched, byStaff[staff.ID], blocks, shiftManagement)
		slot := Slot{StartTime: start, Available: available}
		if available {
			slot.StaffID = ptr.Ptr(staff.ID)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// resolveForAnyResource вычисляет доступность слотов без указания сотрудника:
// по всем активным сотрудникам, либо по общему пулу, если сотрудники
// в салоне не настроены
func (uc *UseCase) resolveForAnyResource(
	ctx context.Context,
	req *Request,
	menu *domain.Menu,
	candidates []types.TimeOfDay,
	byStaff map[int64][]*domain.Reservation,
	pool []*domain.Reservation,
	blocks []*domain.BlockedTimeSlot,
	shiftManagement bool,
) ([]Slot, error) {
	staffList, err := uc.staffRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(candidates))

	// Режим пула: ни одного настроенного сотрудника
	if len(staffList) == 0 {
		for _, start := range candidates {
			available := resolvePoolSlot(start, menu.DurationMinutes, req.Date, pool, blocks)
			slots = append(slots, Slot{StartTime: start, Available: available})
		}
		return slots, nil
	}

	schedules, err := uc.loadSchedules(ctx, staffList, req, shiftManagement)
	if err != nil {
		return nil, err
	}

	for _, start := range candidates {
		available, staffID := resolveAnyStaffSlot(start, menu.DurationMinutes, req.Date, staffList, schedules, byStaff, blocks, shiftManagement)
		slots = append(slots, Slot{StartTime: start, Available: available, StaffID: staffID})
	}

	return slots, nil
}

// loadSchedules загружает смены и отпуска сотрудников и строит их расписания.
// При выключенном управлении сменами запросы в БД не выполняются.
func (uc *UseCase) loadSchedules(ctx context.Context, staffList []*domain.Staff, req *Request, shiftManagement bool) (map[int64]*staffSchedule, error) {
	if !shiftManagement {
		return buildStaffSchedules(staffList, nil, nil, req.Date, false), nil
	}

	staffIDs := make([]int64, 0, len(staffList))
	for _, s := range staffList {
		staffIDs = append(staffIDs, s.ID)
	}

	rules, err := uc.staffRepo.ListActiveShiftRules(ctx, staffIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get shift rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get shift rules: %v", ErrInternal, err)
	}

	vacations, err := uc.staffRepo.ListVacationsCovering(ctx, staffIDs, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get vacations: %v", err)
		return nil, fmt.Errorf("%w: failed to get vacations: %v", ErrInternal, err)
	}

	return buildStaffSchedules(staffList, rules, vacations, req.Date, true), nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:    req.Date,
		MenuID:  req.MenuID,
		StaffID: req.StaffID,
		Slots:   []Slot{},
	}
}
