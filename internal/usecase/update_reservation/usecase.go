package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	menuRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/menu"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/settings"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// UseCase use case для переноса записи на другое время
type UseCase struct {
	reservationRepo ReservationRepository
	settingsRepo    SettingsRepository
	menuRepo        MenuRepository
	staffRepo       StaffRepository
	blockedRepo     BlockedSlotRepository
	flags           FeatureFlagsProvider
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
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи.
// Перенос проходит те же проверки конфликтов, что и создание, в той же
// сериализуемой транзакции; сама переносимая запись из проверок исключается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: id=%d, user=%d, date=%s, time=%s, staff=%v",
		req.ReservationID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.StaffID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки салона
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Warn("UpdateReservation: store settings not configured")
			return nil, ErrSettingsNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 4. Проверяем выходной день
	if settings.IsClosedOn(req.Date) {
		uc.logger.Warn("UpdateReservation: store is closed on %s", req.Date.Format(domain.DateFormat))
		return nil, ErrStoreClosed
	}

	// 5. Проверяем заблокированные окна
	blocks, err := uc.blockedRepo.ListForDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to get blocked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked slots: %v", ErrInternal, err)
	}
	if isBlockedAt(req.Date, req.StartTime, blocks) {
		uc.logger.Warn("UpdateReservation: time %s on %s is blocked", req.StartTime, req.Date.Format(domain.DateFormat))
		return nil, ErrTimeSlotBlocked
	}

	// 6. Получаем фич-флаги.
	// При выключенном выборе мастера клиентом указанный staff_id игнорируется -
	// запись сохраняет текущее назначение.
	flags := uc.flags.GetFlagsWithGracefulDegradation(ctx)
	staffChoice := req.StaffID
	if !flags.EnableStaffSelection && staffChoice != nil {
		uc.logger.Info("UpdateReservation: staff selection is disabled, ignoring staff id=%d", *staffChoice)
		staffChoice = nil
	}

	// Переменная для хранения результата
	var result *domain.Reservation

	// 7. Проверки и обновление в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем запись с блокировкой (FOR UPDATE)
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 7.2. Проверяем владельца и статус
		if res.UserID != req.UserID {
			uc.logger.Warn("UpdateReservation: user id=%d is not the owner of reservation id=%d",
				req.UserID, req.ReservationID)
			return ErrAccessDenied
		}
		if !res.CanBeUpdated() {
			uc.logger.Warn("UpdateReservation: reservation id=%d has status %s and cannot be updated",
				req.ReservationID, res.Status)
			return ErrReservationNotUpdatable
		}

		// 7.3. Определяем услугу (новую или текущую)
		menu, err := uc.resolveMenu(txCtx, req, res)
		if err != nil {
			return err
		}

		// 7.4. Валидация нового времени
		if err := validateTimeSlot(req, settings, menu.DurationMinutes, now); err != nil {
			uc.logger.Warn("UpdateReservation: time slot validation failed: %v", err)
			return err
		}

		start := req.StartTime
		end := start.AddMinutes(menu.DurationMinutes)

		// 7.5. Определяем назначение (новый сотрудник или текущее)
		assignment, err := uc.resolveAssignment(txCtx, req, staffChoice, res, start, end, flags.EnableStaffShiftManagement)
		if err != nil {
			return err
		}

		// 7.6. Проверяем записи пользователя на новую дату (FOR UPDATE),
		// исключая саму переносимую запись
		userReservations, err := uc.reservationRepo.ListActiveByUserAndDate(txCtx, req.UserID, req.Date)
		if err != nil {
			uc.logger.Error("UpdateReservation: failed to get user reservations: %v", err)
			return fmt.Errorf("%w: failed to get user reservations: %v", ErrInternal, err)
		}
		if hasOverlapExcluding(start, end, res.ID, userReservations) {
			uc.logger.Warn("UpdateReservation: user id=%d already has a reservation overlapping %s-%s",
				req.UserID, start, end)
			return ErrUserTimeSlotConflict
		}

		// 7.7. Проверяем занятость ресурса (сотрудник или пул)
		if staffID, ok := assignment.StaffID(); ok {
			staffReservations, err := uc.reservationRepo.ListActiveByStaffAndDate(txCtx, staffID, req.Date)
			if err != nil {
				uc.logger.Error("UpdateReservation: failed to get staff id=%d reservations: %v", staffID, err)
				return fmt.Errorf("%w: failed to get staff reservations: %v", ErrInternal, err)
			}
			if hasOverlapExcluding(start, end, res.ID, staffReservations) {
				uc.logger.Warn("UpdateReservation: staff id=%d busy at %s-%s", staffID, start, end)
				return ErrStaffTimeSlotConflict
			}
		} else {
			poolReservations, err := uc.reservationRepo.ListActivePoolByDate(txCtx, req.Date)
			if err != nil {
				uc.logger.Error("UpdateReservation: failed to get pool reservations: %v", err)
				return fmt.Errorf("%w: failed to get pool reservations: %v", ErrInternal, err)
			}
			if hasOverlapExcluding(start, end, res.ID, poolReservations) {
				uc.logger.Warn("UpdateReservation: pool busy at %s-%s", start, end)
				return ErrPoolTimeSlotConflict
			}
		}

		// 7.8. Обновляем запись
		res.Staff = assignment
		res.MenuID = menu.ID
		res.ReservedDate = req.Date
		res.ReservedTime = req.StartTime
		res.DurationMinutes = menu.DurationMinutes
		res.MenuName = menu.Name
		res.MenuPrice = menu.Price

		if err := uc.reservationRepo.UpdateSchedule(txCtx, res); err != nil {
			uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
		}

		result = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateReservation: successfully rescheduled reservation id=%d to %s %s",
		result.ID, result.ReservedDate.Format(domain.DateFormat), result.ReservedTime)

	return toResponse(result), nil
}

// resolveMenu возвращает новую услугу, если она указана в запросе,
// иначе услугу текущей записи. Неактивная услуга допустима только
// у существующей записи - сменить услугу на неактивную нельзя.
func (uc *UseCase) resolveMenu(ctx context.Context, req *Request, res *domain.Reservation) (*domain.Menu, error) {
	menuID := res.MenuID
	changingMenu := req.MenuID != nil && *req.MenuID != res.MenuID
	if req.MenuID != nil {
		menuID = *req.MenuID
	}

	menu, err := uc.menuRepo.GetByID(ctx, menuID)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("UpdateReservation: menu id=%d not found", menuID)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get menu id=%d: %v", menuID, err)
		return nil, fmt.Errorf("%w: failed to get menu: %v", ErrInternal, err)
	}
	if changingMenu && !menu.IsActive {
		uc.logger.Warn("UpdateReservation: menu id=%d is inactive", menuID)
		return nil, ErrMenuNotFound
	}

	return menu, nil
}

// resolveAssignment возвращает назначение для перенесённой записи:
// нового сотрудника из запроса либо текущее назначение записи.
// Для сотрудника проверяются смены и отпуска на новую дату.
func (uc *UseCase) resolveAssignment(ctx context.Context, req *Request, staffChoice *int64, res *domain.Reservation, start, end types.TimeOfDay, shiftManagement bool) (domain.StaffAssignment, error) {
	assignment := res.Staff
	if staffChoice != nil {
		staff, err := uc.staffRepo.GetByID(ctx, *staffChoice)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("UpdateReservation: staff id=%d not found", *staffChoice)
				return domain.PoolAssignment(), ErrStaffNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get staff id=%d: %v", *staffChoice, err)
			return domain.PoolAssignment(), fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		if !staff.IsActive {
			uc.logger.Warn("UpdateReservation: staff id=%d is inactive", *staffChoice)
			return domain.PoolAssignment(), ErrStaffNotFound
		}
		assignment = domain.AssignStaff(staff.ID)
	}

	if staffID, ok := assignment.StaffID(); ok && shiftManagement {
		canServe, err := staffCanServe(ctx, uc.staffRepo, staffID, req.Date, start, end)
		if err != nil {
			uc.logger.Error("UpdateReservation: failed to check staff id=%d availability: %v", staffID, err)
			return domain.PoolAssignment(), err
		}
		if !canServe {
			uc.logger.Warn("UpdateReservation: staff id=%d is not available at %s-%s", staffID, start, end)
			return domain.PoolAssignment(), ErrStaffNotAvailable
		}
	}

	return assignment, nil
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
