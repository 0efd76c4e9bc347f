package create_reservation

import (
	"context"

	createReservation "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
)

// CreateReservationUseCase интерфейс use case создания записи
type CreateReservationUseCase interface {
	Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error)
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
