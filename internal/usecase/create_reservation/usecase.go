package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	menuRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/menu"
	settingsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifier"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

const notifyTimeout = 5 * time.Second

// UseCase use case для создания записи
type UseCase struct {
	reservationRepo ReservationRepository
	settingsRepo    SettingsRepository
	menuRepo        MenuRepository
	staffRepo       StaffRepository
	blockedRepo     BlockedSlotRepository
	flags           FeatureFlagsProvider
	notifierClient  NotifierClient
	txManager       TransactionManager
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
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settingsRepo:    settingsRepo,
		menuRepo:        menuRepo,
		staffRepo:       staffRepo,
		blockedRepo:     blockedRepo,
		flags:           flags,
		notifierClient:  notifierClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверки конфликтов выполняются в сериализуемой транзакции с блокировкой
// строк (FOR UPDATE): конкурирующие запросы на один интервал не могут
// создать двойную запись - ровно один коммитится, остальные получают
// конфликт или сериализационный сбой с повтором.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, menu=%d, staff=%v, date=%s, time=%s",
		req.UserID, req.MenuID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки салона
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Warn("CreateReservation: store settings not configured")
			return nil, ErrSettingsNotFound
		}
		uc.logger.Error("CreateReservation: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 4. Проверяем выходной день
	if settings.IsClosedOn(req.Date) {
		uc.logger.Warn("CreateReservation: store is closed on %s", req.Date.Format(domain.DateFormat))
		return nil, ErrStoreClosed
	}

	// 5. Получаем услугу
	menu, err := uc.menuRepo.GetByID(ctx, req.MenuID)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("CreateReservation: menu id=%d not found", req.MenuID)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("CreateReservation: failed to get menu id=%d: %v", req.MenuID, err)
		return nil, fmt.Errorf("%w: failed to get menu: %v", ErrInternal, err)
	}
	if !menu.IsActive {
		uc.logger.Warn("CreateReservation: menu id=%d is inactive", req.MenuID)
		return nil, ErrMenuNotFound
	}

	// 6. Валидация времени записи (рабочие часы, сетка слотов, не в прошлом)
	if err := validateTimeSlot(req, settings, menu.DurationMinutes, now); err != nil {
		uc.logger.Warn("CreateReservation: time slot validation failed: %v", err)
		return nil, err
	}

	// 7. Проверяем заблокированные окна
	blocks, err := uc.blockedRepo.ListForDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get blocked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked slots: %v", ErrInternal, err)
	}
	if isBlockedAt(req.Date, req.StartTime, blocks) {
		uc.logger.Warn("CreateReservation: time %s on %s is blocked", req.StartTime, req.Date.Format(domain.DateFormat))
		return nil, ErrTimeSlotBlocked
	}

	// 8. Получаем фич-флаги (graceful degradation на дефолты из конфига)
	flags := uc.flags.GetFlagsWithGracefulDegradation(ctx)

	// 9. Определяем способ назначения сотрудника.
	// При выключенном выборе мастера клиентом указанный staff_id игнорируется -
	// сотрудник назначается автоматически.
	staffChoice := req.StaffID
	if !flags.EnableStaffSelection && staffChoice != nil {
		uc.logger.Info("CreateReservation: staff selection is disabled, ignoring staff id=%d", *staffChoice)
		staffChoice = nil
	}

	intent, err := uc.resolveStaffingIntent(ctx, req, staffChoice, menu, flags.EnableStaffShiftManagement)
	if err != nil {
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Reservation

	// 10. Проверки конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		start := req.StartTime
		end := start.AddMinutes(menu.DurationMinutes)

		// 10.1. Проверяем записи пользователя с блокировкой (FOR UPDATE)
		userReservations, err := uc.reservationRepo.ListActiveByUserAndDate(txCtx, req.UserID, req.Date)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get user reservations: %v", err)
			return fmt.Errorf("%w: failed to get user reservations: %v", ErrInternal, err)
		}
		if hasOverlap(start, end, userReservations) {
			uc.logger.Warn("CreateReservation: user id=%d already has a reservation overlapping %s-%s",
				req.UserID, start, end)
			return ErrUserTimeSlotConflict
		}

		// 10.2. Проверяем занятость ресурса (сотрудник или пул)
		assignment, err := uc.resolveAssignmentInTx(txCtx, intent, req.Date, start, end)
		if err != nil {
			return err
		}

		// 10.3. Создаем запись с денормализацией данных услуги
		reservation := &domain.Reservation{
			UserID:          req.UserID,
			Staff:           assignment,
			MenuID:          req.MenuID,
			ReservedDate:    req.Date,
			ReservedTime:    req.StartTime,
			DurationMinutes: menu.DurationMinutes,
			Status:          domain.StatusPending,
			MenuName:        menu.Name,
			MenuPrice:       menu.Price,
			Notes:           req.Notes,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, staff=%v",
		result.ID, result.Staff.StaffIDPtr())

	// 11. Уведомление отправляется после коммита в режиме fire-and-forget:
	// ошибка рассылки не влияет на созданную запись
	uc.notifyCreated(result)

	return toResponse(result), nil
}

// staffingIntent выбранный до транзакции способ назначения ресурса
type staffingIntent struct {
	assignment  domain.StaffAssignment // точный ресурс: сотрудник или пул
	autoAssign  bool                   // true - выбрать первого свободного сотрудника в транзакции
	candidates  []*domain.Staff        // кандидаты автоназначения (по возрастанию ID)
	eligibility *staffEligibility
}

// resolveStaffingIntent определяет, кто будет обслуживать запись:
//   - указан staff_id - проверяем сотрудника и его смены, назначаем его;
//   - staff_id не указан, выбор мастера клиентом выключен и сотрудники
//     настроены - автоназначение первого свободного (по возрастанию ID);
//   - иначе - запись в общий пул.
//
// Занятость ресурса здесь не проверяется: это делает транзакция.
func (uc *UseCase) resolveStaffingIntent(ctx context.Context, req *Request, staffChoice *int64, menu *domain.Menu, shiftManagement bool) (*staffingIntent, error) {
	start := req.StartTime
	end := start.AddMinutes(menu.DurationMinutes)

	// Явно выбранный сотрудник
	if staffChoice != nil {
		staff, err := uc.staffRepo.GetByID(ctx, *staffChoice)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateReservation: staff id=%d not found", *staffChoice)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateReservation: failed to get staff id=%d: %v", *staffChoice, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.IsActive {
			uc.logger.Warn("CreateReservation: staff id=%d is inactive", *staffChoice)
			return nil, ErrStaffNotFound
		}

		eligibility, err := loadStaffEligibility(ctx, uc.staffRepo, []int64{staff.ID}, req.Date, shiftManagement)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to load staff eligibility: %v", err)
			return nil, err
		}
		if !eligibility.canServe(staff.ID, start, end) {
			uc.logger.Warn("CreateReservation: staff id=%d is not available at %s-%s", staff.ID, start, end)
			return nil, ErrStaffNotAvailable
		}

		return &staffingIntent{assignment: domain.AssignStaff(staff.ID)}, nil
	}

	staffList, err := uc.staffRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}

	// Сотрудники не настроены - запись в общий пул
	if len(staffList) == 0 {
		return &staffingIntent{assignment: domain.PoolAssignment()}, nil
	}

	// Автоназначение: сотрудники есть, но клиент мастера не выбирает
	staffIDs := make([]int64, 0, len(staffList))
	for _, s := range staffList {
		staffIDs = append(staffIDs, s.ID)
	}

	eligibility, err := loadStaffEligibility(ctx, uc.staffRepo, staffIDs, req.Date, shiftManagement)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load staff eligibility: %v", err)
		return nil, err
	}

	// Кандидаты - только сотрудники, работающие в этот интервал.
	// Порядок по возрастанию ID сохраняется из репозитория, чтобы
	// автоназначение было детерминированным.
	candidates := make([]*domain.Staff, 0, len(staffList))
	for _, s := range staffList {
		if eligibility.canServe(s.ID, start, end) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		uc.logger.Warn("CreateReservation: no staff on shift for %s-%s", start, end)
		return nil, ErrNoStaffAvailable
	}

	return &staffingIntent{autoAssign: true, candidates: candidates, eligibility: eligibility}, nil
}

// resolveAssignmentInTx авторитетно проверяет занятость ресурса внутри
// транзакции и возвращает итоговое назначение.
// Выборки внутри транзакции блокируют строки (FOR UPDATE).
func (uc *UseCase) resolveAssignmentInTx(txCtx context.Context, intent *staffingIntent, date time.Time, start, end types.TimeOfDay) (domain.StaffAssignment, error) {
	// Автоназначение: первый свободный кандидат по возрастанию ID
	if intent.autoAssign {
		for _, s := range intent.candidates {
			staffReservations, err := uc.reservationRepo.ListActiveByStaffAndDate(txCtx, s.ID, date)
			if err != nil {
				uc.logger.Error("CreateReservation: failed to get staff id=%d reservations: %v", s.ID, err)
				return domain.PoolAssignment(), fmt.Errorf("%w: failed to get staff reservations: %v", ErrInternal, err)
			}
			if !hasOverlap(start, end, staffReservations) {
				uc.logger.Info("CreateReservation: auto-assigned staff id=%d", s.ID)
				return domain.AssignStaff(s.ID), nil
			}
		}
		uc.logger.Warn("CreateReservation: all staff busy at %s-%s", start, end)
		return domain.PoolAssignment(), ErrNoStaffAvailable
	}

	// Конкретный сотрудник
	if staffID, ok := intent.assignment.StaffID(); ok {
		staffReservations, err := uc.reservationRepo.ListActiveByStaffAndDate(txCtx, staffID, date)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get staff id=%d reservations: %v", staffID, err)
			return domain.PoolAssignment(), fmt.Errorf("%w: failed to get staff reservations: %v", ErrInternal, err)
		}
		if hasOverlap(start, end, staffReservations) {
			uc.logger.Warn("CreateReservation: staff id=%d busy at %s-%s", staffID, start, end)
			return domain.PoolAssignment(), ErrStaffTimeSlotConflict
		}
		return intent.assignment, nil
	}

	// Общий пул: весь пул - один ресурс, интервалы не пересекаются
	poolReservations, err := uc.reservationRepo.ListActivePoolByDate(txCtx, date)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get pool reservations: %v", err)
		return domain.PoolAssignment(), fmt.Errorf("%w: failed to get pool reservations: %v", ErrInternal, err)
	}
	if hasOverlap(start, end, poolReservations) {
		uc.logger.Warn("CreateReservation: pool busy at %s-%s", start, end)
		return domain.PoolAssignment(), ErrPoolTimeSlotConflict
	}
	return domain.PoolAssignment(), nil
}

// notifyCreated отправляет уведомление о созданной записи в фоне
func (uc *UseCase) notifyCreated(res *domain.Reservation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		n := notifier.ReservationCreatedNotification{
			ReservationID: res.ID,
			UserID:        res.UserID,
			StaffID:       res.Staff.StaffIDPtr(),
			MenuName:      res.MenuName,
			ReservedDate:  res.ReservedDate.Format(domain.DateFormat),
			ReservedTime:  res.ReservedTime.String(),
		}
		if err := uc.notifierClient.SendReservationCreated(ctx, n); err != nil {
			uc.logger.Error("CreateReservation: failed to send notification for reservation id=%d: %v", res.ID, err)
		}
	}()
}

func toResponse(res *domain.Reservation) *Response {
	return &Response{
		ID:              res.ID,
		UserID:          res.UserID,
		StaffID:         res.Staff.StaffIDPtr(),
		MenuID:          res.MenuID,
		ReservedDate:    res.ReservedDate,
		ReservedTime:    res.ReservedTime,
		DurationMinutes: res.DurationMinutes,
		Status:          string(res.Status),
		MenuName:        res.MenuName,
		MenuPrice:       res.MenuPrice,
		Notes:           res.Notes,
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
}
