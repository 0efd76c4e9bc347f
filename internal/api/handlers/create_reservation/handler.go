package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMenuNotFound       = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgSettingsNotFound   = "настройки салона не заданы"
	msgStoreClosed        = "салон закрыт в выбранную дату"
	msgInvalidTimeSlot    = "некорректное время записи"
	msgTimeSlotBlocked    = "выбранное время недоступно"
	msgUserConflict       = "у вас уже есть запись на это время"
	msgStaffConflict      = "сотрудник занят в это время"
	msgPoolConflict       = "выбранное время уже занято"
	msgNoStaffAvailable   = "нет свободных сотрудников на это время"
)

type Handler struct {
	useCase   CreateReservationUseCase
	conflicts ConflictMetrics
	logger    Logger
}

func NewHandler(useCase CreateReservationUseCase, conflicts ConflictMetrics, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		conflicts: conflicts,
		logger:    logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid date or time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createReservation.ErrMenuNotFound):
			h.logger.Warn("POST /reservations - Menu not found: menu_id=%d", req.MenuID)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, createReservation.ErrStaffNotFound):
			h.logger.Warn("POST /reservations - Staff not found: staff_id=%v", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createReservation.ErrSettingsNotFound):
			h.logger.Warn("POST /reservations - Store settings not configured")
			handlers.RespondNotFound(w, msgSettingsNotFound)

		case errors.Is(err, createReservation.ErrStoreClosed):
			h.logger.Warn("POST /reservations - Store closed: date=%s", req.ReservedDate)
			handlers.RespondBadRequest(w, msgStoreClosed)

		case errors.Is(err, createReservation.ErrInvalidTimeSlot):
			h.logger.Warn("POST /reservations - Invalid time slot: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createReservation.ErrTimeSlotBlocked):
			h.logger.Warn("POST /reservations - Time slot blocked: date=%s, time=%s",
				req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeTimeSlotConflict, msgTimeSlotBlocked)

		case errors.Is(err, createReservation.ErrUserTimeSlotConflict):
			h.logger.Warn("POST /reservations - User conflict: user_id=%d, date=%s, time=%s",
				userID, req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeUserTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeUserTimeSlotConflict, msgUserConflict)

		case errors.Is(err, createReservation.ErrStaffTimeSlotConflict):
			h.logger.Warn("POST /reservations - Staff conflict: staff_id=%v, date=%s, time=%s",
				req.StaffID, req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeStaffTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeStaffTimeSlotConflict, msgStaffConflict)

		case errors.Is(err, createReservation.ErrStaffNotAvailable):
			h.logger.Warn("POST /reservations - Staff not available: staff_id=%v, date=%s, time=%s",
				req.StaffID, req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeStaffTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeStaffTimeSlotConflict, msgStaffConflict)

		case errors.Is(err, createReservation.ErrNoStaffAvailable):
			h.logger.Warn("POST /reservations - No staff available: date=%s, time=%s",
				req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeStaffTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeStaffTimeSlotConflict, msgNoStaffAvailable)

		case errors.Is(err, createReservation.ErrPoolTimeSlotConflict):
			h.logger.Warn("POST /reservations - Pool conflict: date=%s, time=%s",
				req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeTimeSlotConflict, msgPoolConflict)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) incConflict(conflictType string) {
	if h.conflicts != nil {
		h.conflicts.IncConflict(conflictType)
	}
}
