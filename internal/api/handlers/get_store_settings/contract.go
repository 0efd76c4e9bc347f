package get_store_settings

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/settings/models"
)

// SettingsService интерфейс сервиса настроек салона
type SettingsService interface {
	Get(ctx context.Context) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
