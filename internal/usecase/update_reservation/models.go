package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	ReservationID int64           // ID переносимой записи
	UserID        int64           // ID пользователя (из заголовка аутентификации)
	Date          time.Time       // Новая дата записи (без времени)
	StartTime     types.TimeOfDay // Новое время начала
	StaffID       *int64          // Новый сотрудник; nil - оставить текущее назначение
	MenuID        *int64          // Новая услуга; nil - оставить текущую
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID              int64           // ID записи
	UserID          int64           // ID пользователя
	StaffID         *int64          // ID сотрудника (nil - запись в общий пул)
	MenuID          int64           // ID услуги
	ReservedDate    time.Time       // Дата записи
	ReservedTime    types.TimeOfDay // Время начала
	DurationMinutes int             // Длительность в минутах
	Status          string          // Статус записи

	// Денормализованные данные
	MenuName  string  // Название услуги
	MenuPrice float64 // Цена услуги
	Notes     *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
