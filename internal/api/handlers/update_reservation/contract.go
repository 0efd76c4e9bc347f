package update_reservation

import (
	"context"

	updateReservation "github.com/m04kA/SMC-SalonService/internal/usecase/update_reservation"
)

// UpdateReservationUseCase интерфейс use case переноса записи
type UpdateReservationUseCase interface {
	Execute(ctx context.Context, req *updateReservation.Request) (*updateReservation.Response, error)
}

// ConflictMetrics интерфейс счётчика конфликтов бронирования
type ConflictMetrics interface {
	IncConflict(conflictType string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
