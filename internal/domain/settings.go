package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// StoreSettings настройки работы салона. Одна строка на салон;
// движок планирования читает их, меняет только админский контур.
type StoreSettings struct {
	ID                  int64
	OpenTime            types.TimeOfDay
	CloseTime           types.TimeOfDay
	SlotDurationMinutes int
	ClosedDays          []string // имена дней недели в нижнем регистре: "sunday", "monday", ...
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsClosedOn проверяет, является ли дата выходным днём салона
func (s *StoreSettings) IsClosedOn(date time.Time) bool {
	weekday := strings.ToLower(date.Weekday().String())
	for _, d := range s.ClosedDays {
		if strings.ToLower(d) == weekday {
			return true
		}
	}
	return false
}
