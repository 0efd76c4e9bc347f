package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// generateCandidateSlots генерирует все кандидаты времени начала записи.
// Слоты идут от открытия салона с шагом slotDuration; последний кандидат -
// тот, чья услуга ещё помещается до закрытия (start + menuDuration <= close).
// Если услуга длиннее рабочего дня, результат пуст.
// Детерминизм: одинаковые входы всегда дают одинаковый упорядоченный список.
func generateCandidateSlots(openTime, closeTime types.TimeOfDay, slotDuration, menuDuration int) []types.TimeOfDay {
	slots := make([]types.TimeOfDay, 0)

	for start := openTime; !start.AddMinutes(menuDuration).After(closeTime); start = start.AddMinutes(slotDuration) {
		slots = append(slots, start)
	}

	return slots
}

// isBlockedAt проверяет, попадает ли НАЧАЛО слота в какое-либо
// заблокированное окно. Проверяется именно момент начала, а не весь
// интервал услуги: слот, начинающийся за минуту до блока, не отсекается.
func isBlockedAt(date time.Time, slotStart types.TimeOfDay, blocks []*domain.BlockedTimeSlot) bool {
	instant := slotStart.At(date)
	for _, b := range blocks {
		if b.ContainsInstant(instant) {
			return true
		}
	}
	return false
}

// staffSchedule расписание одного сотрудника на конкретную дату
type staffSchedule struct {
	staff      *domain.Staff
	shifts     []*domain.ShiftRule // активные смены на день недели даты
	onVacation bool
}

// canServe проверяет, что сотрудник может обслужить интервал [start, end):
// не в отпуске и интервал целиком лежит внутри хотя бы одной смены.
// Сотрудник без единой смены недоступен всегда (fail-closed),
// а не "доступен всегда".
func (s *staffSchedule) canServe(start, end types.TimeOfDay) bool {
	if s.onVacation {
		return false
	}
	for _, shift := range s.shifts {
		if shift.ContainsInterval(start, end) {
			return true
		}
	}
	return false
}

// buildStaffSchedules собирает расписания сотрудников на дату.
// shiftManagement=false означает, что смены и отпуска не учитываются:
// каждый сотрудник считается доступным в любое время рабочего дня.
func buildStaffSchedules(
	staffList []*domain.Staff,
	rules []*domain.ShiftRule,
	vacations []*domain.Vacation,
	date time.Time,
	shiftManagement bool,
) map[int64]*staffSchedule {
	schedules := make(map[int64]*staffSchedule, len(staffList))
	for _, s := range staffList {
		schedules[s.ID] = &staffSchedule{staff: s}
	}

	if !shiftManagement {
		return schedules
	}

	weekday := date.Weekday()
	for _, rule := range rules {
		sched, ok := schedules[rule.StaffID]
		if !ok || rule.DayOfWeek != weekday {
			continue
		}
		sched.shifts = append(sched.shifts, rule)
	}

	for _, v := range vacations {
		if sched, ok := schedules[v.StaffID]; ok && v.Covers(date) {
			sched.onVacation = true
		}
	}

	return schedules
}

// staffEligible проверяет доступность сотрудника для интервала с учетом
// режима управления сменами
func staffEligible(sched *staffSchedule, start, end types.TimeOfDay, shiftManagement bool) bool {
	if !shiftManagement {
		return true
	}
	return sched.canServe(start, end)
}

// isIntervalFree проверяет, что интервал [start, end) не пересекается
// ни с одной активной записью из набора. Полуоткрытые интервалы:
// запись, заканчивающаяся в 15:00, не конфликтует с началом в 15:00.
func isIntervalFree(start, end types.TimeOfDay, reservations []*domain.Reservation) bool {
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		if res.OverlapsInterval(start, end) {
			return false
		}
	}
	return true
}

// groupReservations раскладывает записи по сотрудникам и пулу
func groupReservations(reservations []*domain.Reservation) (byStaff map[int64][]*domain.Reservation, pool []*domain.Reservation) {
	byStaff = make(map[int64][]*domain.Reservation)
	pool = make([]*domain.Reservation, 0)

	for _, res := range reservations {
		if staffID, ok := res.Staff.StaffID(); ok {
			byStaff[staffID] = append(byStaff[staffID], res)
		} else {
			pool = append(pool, res)
		}
	}

	return byStaff, pool
}

// resolveStaffSlot вычисляет доступность одного кандидата для конкретного
// сотрудника
func resolveStaffSlot(
	start types.TimeOfDay,
	menuDuration int,
	date time.Time,
	sched *staffSchedule,
	staffReservations []*domain.Reservation,
	blocks []*domain.BlockedTimeSlot,
	shiftManagement bool,
) bool {
	end := start.AddMinutes(menuDuration)

	if isBlockedAt(date, start, blocks) {
		return false
	}
	if !staffEligible(sched, start, end, shiftManagement) {
		return false
	}
	return isIntervalFree(start, end, staffReservations)
}

// resolveAnyStaffSlot ищет первого свободного сотрудника для кандидата.
// Сотрудники перебираются в стабильном порядке (по возрастанию ID),
// чтобы выдача была детерминированной.
// Возвращает (true, staffID) или (false, nil).
func resolveAnyStaffSlot(
	start types.TimeOfDay,
	menuDuration int,
	date time.Time,
	staffList []*domain.Staff,
	schedules map[int64]*staffSchedule,
	byStaff map[int64][]*domain.Reservation,
	blocks []*domain.BlockedTimeSlot,
	shiftManagement bool,
) (bool, *int64) {
	if isBlockedAt(date, start, blocks) {
		return false, nil
	}

	end := start.AddMinutes(menuDuration)

	for _, s := range staffList {
		sched := schedules[s.ID]
		if !staffEligible(sched, start, end, shiftManagement) {
			continue
		}
		if isIntervalFree(start, end, byStaff[s.ID]) {
			return true, ptr.Ptr(s.ID)
		}
	}

	return false, nil
}

// resolvePoolSlot вычисляет доступность кандидата в режиме пула:
// салон без настроенных сотрудников, весь пул - один виртуальный ресурс
func resolvePoolSlot(
	start types.TimeOfDay,
	menuDuration int,
	date time.Time,
	poolReservations []*domain.Reservation,
	blocks []*domain.BlockedTimeSlot,
) bool {
	if isBlockedAt(date, start, blocks) {
		return false
	}
	end := start.AddMinutes(menuDuration)
	return isIntervalFree(start, end, poolReservations)
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
