package get_store_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/settings"
)

const (
	msgSettingsNotFound = "настройки салона не заданы"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingsNotFound):
			h.logger.Warn("GET /settings - Store settings not configured")
			handlers.RespondNotFound(w, msgSettingsNotFound)

		default:
			h.logger.Error("GET /settings - Failed to get settings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /settings - Settings retrieved successfully")
	handlers.RespondJSON(w, http.StatusOK, result)
}
