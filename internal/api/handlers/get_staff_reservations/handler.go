package get_staff_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStaffNotFound  = "сотрудник не найден"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/reservations
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем staffId из URL
	vars := mux.Vars(r)
	staffIDStr := vars["staffId"]

	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/reservations - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /staff/{id}/reservations - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/reservations - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Получаем расписание сотрудника на день
	result, err := h.service.GetStaffReservations(r.Context(), &models.GetStaffReservationsRequest{
		StaffID: staffID,
		Date:    date,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/reservations - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("GET /staff/{id}/reservations - Failed to get reservations: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/reservations - Reservations retrieved successfully: staff_id=%d, date=%s, count=%d",
		staffID, dateStr, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
