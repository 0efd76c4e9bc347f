package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date    time.Time // дата, на которую запрашиваются слоты (без времени)
	MenuID  int64     // ID услуги
	StaffID *int64    // ID сотрудника; nil - поиск по всем сотрудникам
}

// Response модель ответа со списком слотов
type Response struct {
	Date    time.Time // дата, на которую запрашивались слоты
	MenuID  int64     // ID услуги
	StaffID *int64    // ID сотрудника из запроса (если был указан)
	Slots   []Slot    // все кандидаты слотов, включая занятые
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeOfDay // время начала слота (например, "10:00")
	Available bool            // доступен ли слот для записи
	StaffID   *int64          // свободный сотрудник для слота (nil для пула или занятого слота)
}
