package get_staff_reservations

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

// ReservationService интерфейс сервиса записей
type ReservationService interface {
	GetStaffReservations(ctx context.Context, req *models.GetStaffReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
