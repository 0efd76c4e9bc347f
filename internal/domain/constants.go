package domain

// Значения настроек по умолчанию (используются при отсутствии строки настроек)
const (
	DefaultOpenTimeMinutes     = 9 * 60  // 09:00
	DefaultCloseTimeMinutes    = 18 * 60 // 18:00
	DefaultSlotDurationMinutes = 30
)

// Бизнес-ограничения для валидации
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 часов
	MinMenuDurationMinutes      = 5
	MaxMenuDurationMinutes      = 480
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Форматы даты и времени на границах сервиса
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих время.
// Используются при выборке записей для проверки конфликтов.
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы записей, инертных для планирования
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// ValidStatuses все допустимые статусы записи
var ValidStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
