package get_user_reservations

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса записей
type ReservationService interface {
	GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
