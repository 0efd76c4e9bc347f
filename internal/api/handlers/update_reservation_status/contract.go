package update_reservation_status

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса записей
type ReservationService interface {
	UpdateStatus(ctx context.Context, reservationID int64, req *models.UpdateStatusRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
