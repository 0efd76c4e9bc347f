package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	updateReservation "github.com/m04kA/SMC-SalonService/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgNotUpdatable         = "запись не может быть перенесена"
	msgMenuNotFound         = "услуга не найдена"
	msgStaffNotFound        = "сотрудник не найден"
	msgSettingsNotFound     = "настройки салона не заданы"
	msgStoreClosed          = "салон закрыт в выбранную дату"
	msgInvalidTimeSlot      = "некорректное время записи"
	msgTimeSlotBlocked      = "выбранное время недоступно"
	msgUserConflict         = "у вас уже есть запись на это время"
	msgStaffConflict        = "сотрудник занят в это время"
	msgPoolConflict         = "выбранное время уже занято"
)

type Handler struct {
	useCase   UpdateReservationUseCase
	conflicts ConflictMetrics
	logger    Logger
}

func NewHandler(useCase UpdateReservationUseCase, conflicts ConflictMetrics, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		conflicts: conflicts,
		logger:    logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем reservationId из URL
	vars := mux.Vars(r)
	reservationIDStr := vars["reservationId"]

	reservationID, err := strconv.ParseInt(reservationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /reservations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(reservationID, userID)
	if err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid date or time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PUT /reservations/{id} - Invalid input: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PUT /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrAccessDenied):
			h.logger.Warn("PUT /reservations/{id} - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateReservation.ErrReservationNotUpdatable):
			h.logger.Warn("PUT /reservations/{id} - Not updatable: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgNotUpdatable)

		case errors.Is(err, updateReservation.ErrMenuNotFound):
			h.logger.Warn("PUT /reservations/{id} - Menu not found: menu_id=%v", req.MenuID)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, updateReservation.ErrStaffNotFound):
			h.logger.Warn("PUT /reservations/{id} - Staff not found: staff_id=%v", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, updateReservation.ErrSettingsNotFound):
			h.logger.Warn("PUT /reservations/{id} - Store settings not configured")
			handlers.RespondNotFound(w, msgSettingsNotFound)

		case errors.Is(err, updateReservation.ErrStoreClosed):
			h.logger.Warn("PUT /reservations/{id} - Store closed: date=%s", req.ReservedDate)
			handlers.RespondBadRequest(w, msgStoreClosed)

		case errors.Is(err, updateReservation.ErrInvalidTimeSlot):
			h.logger.Warn("PUT /reservations/{id} - Invalid time slot: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, updateReservation.ErrTimeSlotBlocked):
			h.logger.Warn("PUT /reservations/{id} - Time slot blocked: date=%s, time=%s",
				req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeTimeSlotConflict, msgTimeSlotBlocked)

		case errors.Is(err, updateReservation.ErrUserTimeSlotConflict):
			h.logger.Warn("PUT /reservations/{id} - User conflict: user_id=%d, date=%s, time=%s",
				userID, req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeUserTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeUserTimeSlotConflict, msgUserConflict)

		case errors.Is(err, updateReservation.ErrStaffTimeSlotConflict),
			errors.Is(err, updateReservation.ErrStaffNotAvailable):
			h.logger.Warn("PUT /reservations/{id} - Staff conflict: staff_id=%v, date=%s, time=%s",
				req.StaffID, req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeStaffTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeStaffTimeSlotConflict, msgStaffConflict)

		case errors.Is(err, updateReservation.ErrPoolTimeSlotConflict):
			h.logger.Warn("PUT /reservations/{id} - Pool conflict: date=%s, time=%s",
				req.ReservedDate, req.ReservedTime)
			h.incConflict(handlers.CodeTimeSlotConflict)
			handlers.RespondConflict(w, handlers.CodeTimeSlotConflict, msgPoolConflict)

		default:
			h.logger.Error("PUT /reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("PUT /reservations/{id} - Reservation updated successfully: reservation_id=%d, user_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) incConflict(conflictType string) {
	if h.conflicts != nil {
		h.conflicts.IncConflict(conflictType)
	}
}
