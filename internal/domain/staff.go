package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Staff сотрудник салона
type Staff struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShiftRule правило еженедельной смены сотрудника: окно доступности
// на один день недели
type ShiftRule struct {
	ID        int64
	StaffID   int64
	DayOfWeek time.Weekday
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
	IsActive  bool
}

// ContainsInterval проверяет, что интервал [start, end) целиком лежит
// внутри смены [StartTime, EndTime)
func (s *ShiftRule) ContainsInterval(start, end types.TimeOfDay) bool {
	return !start.Before(s.StartTime) && !end.After(s.EndTime)
}

// Vacation отпуск сотрудника: включительный диапазон дат с точностью до дня
type Vacation struct {
	ID        int64
	StaffID   int64
	StartDate time.Time
	EndDate   time.Time
}

// Covers проверяет, что дата попадает в отпуск (границы включительно)
func (v *Vacation) Covers(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(v.StartDate)) && !d.After(truncateToDay(v.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StaffAssignment привязка записи к ресурсу: либо конкретный сотрудник,
// либо общий пул (запись без мастера). Тегированный тип вместо nullable ID,
// чтобы код проверки конфликтов не мог перепутать эти два вида ресурсов.
type StaffAssignment struct {
	staffID  int64
	assigned bool
}

// AssignStaff создает привязку к конкретному сотруднику
func AssignStaff(staffID int64) StaffAssignment {
	return StaffAssignment{staffID: staffID, assigned: true}
}

// PoolAssignment создает привязку к общему пулу
func PoolAssignment() StaffAssignment {
	return StaffAssignment{}
}

// IsAssigned возвращает true, если запись привязана к конкретному сотруднику
func (a StaffAssignment) IsAssigned() bool {
	return a.assigned
}

// StaffID возвращает ID сотрудника; ok=false для пула
func (a StaffAssignment) StaffID() (id int64, ok bool) {
	return a.staffID, a.assigned
}

// StaffIDPtr возвращает *int64 для границы хранения (nullable колонка)
func (a StaffAssignment) StaffIDPtr() *int64 {
	if !a.assigned {
		return nil
	}
	id := a.staffID
	return &id
}

// AssignmentFromPtr создает StaffAssignment из nullable значения БД
func AssignmentFromPtr(staffID *int64) StaffAssignment {
	if staffID == nil {
		return PoolAssignment()
	}
	return AssignStaff(*staffID)
}
