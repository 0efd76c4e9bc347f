package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// ReservationStatus статус записи
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusNoShow    ReservationStatus = "no_show"
)

// Reservation запись клиента в салон
type Reservation struct {
	ID              int64
	UserID          int64
	Staff           StaffAssignment
	MenuID          int64
	ReservedDate    time.Time // дата без компонента времени
	ReservedTime    types.TimeOfDay
	DurationMinutes int // длительность услуги, денормализована из меню на момент создания
	Status          ReservationStatus

	// Денормализованные данные меню для истории
	MenuName  string
	MenuPrice float64

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись учитывается при проверке конфликтов.
// Только pending и confirmed занимают время; cancelled/completed/no_show
// хранятся для истории и инертны для планирования.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если запись можно отменить
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeUpdated возвращает true, если запись можно перенести на другое время
func (r *Reservation) CanBeUpdated() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// Interval возвращает полуоткрытый интервал [начало, конец) записи
func (r *Reservation) Interval() (start, end types.TimeOfDay) {
	return r.ReservedTime, r.ReservedTime.AddMinutes(r.DurationMinutes)
}

// OverlapsInterval проверяет пересечение записи с интервалом [start, end)
func (r *Reservation) OverlapsInterval(start, end types.TimeOfDay) bool {
	rStart, rEnd := r.Interval()
	return types.Overlaps(rStart, rEnd, start, end)
}
