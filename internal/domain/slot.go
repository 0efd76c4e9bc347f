package domain

import "github.com/m04kA/SMC-SalonService/pkg/types"

// AvailableSlot кандидат времени начала записи на заданную дату.
// Список слотов перечисляет ВСЕ кандидаты, включая занятые -
// клиент отображает оба состояния.
type AvailableSlot struct {
	StartTime types.TimeOfDay
	Available bool
	StaffID   *int64 // сотрудник, свободный в этот слот (nil для пула или занятого слота)
}
