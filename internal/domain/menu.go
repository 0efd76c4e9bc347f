package domain

import "time"

// Menu услуга салона
type Menu struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
