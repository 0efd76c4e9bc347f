package update_store_settings

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/settings/models"
)

// SettingsService интерфейс сервиса настроек салона
type SettingsService interface {
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
