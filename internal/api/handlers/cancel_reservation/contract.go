package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса записей
type ReservationService interface {
	Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
