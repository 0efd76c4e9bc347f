package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID    int64           // ID пользователя (из заголовка аутентификации)
	MenuID    int64           // ID услуги
	StaffID   *int64          // ID сотрудника; nil - автоназначение или пул
	Date      time.Time       // Дата записи (без времени)
	StartTime types.TimeOfDay // Время начала записи (например, "10:00")
	Notes     *string         // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64           // ID созданной записи
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
