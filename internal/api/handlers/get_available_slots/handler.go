package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
)

const (
	msgInvalidMenuID    = "некорректный ID услуги"
	msgInvalidStaffID   = "некорректный ID сотрудника"
	msgMissingMenuID    = "ID услуги обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMenuNotFound     = "услуга не найдена"
	msgStaffNotFound    = "сотрудник не найден"
	msgSettingsNotFound = "настройки салона не заданы"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: menuId (required), date (required, YYYY-MM-DD), staffId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем menuId из query параметров
	menuIDStr := r.URL.Query().Get("menuId")
	if menuIDStr == "" {
		h.logger.Warn("GET /available-slots - Missing menu ID")
		handlers.RespondBadRequest(w, msgMissingMenuID)
		return
	}

	menuID, err := strconv.ParseInt(menuIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid menu ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMenuID)
		return
	}

	// Извлекаем staffId из query параметров (опционально)
	var staffID *int64
	if staffIDStr := r.URL.Query().Get("staffId"); staffIDStr != "" {
		id, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /available-slots - Invalid staff ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		staffID = &id
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(menuID, staffID, dateStr)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrMenuNotFound):
			h.logger.Warn("GET /available-slots - Menu not found: menu_id=%d", menuID)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /available-slots - Staff not found: staff_id=%v", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrSettingsNotFound):
			h.logger.Warn("GET /available-slots - Store settings not configured")
			handlers.RespondNotFound(w, msgSettingsNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: menu_id=%d, date=%s, error=%v",
				menuID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /available-slots - Slots retrieved successfully: menu_id=%d, date=%s, slots_count=%d",
		menuID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
