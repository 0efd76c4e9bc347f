package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

func mustTime(t *testing.T, s string) types.TimeOfDay {
	t.Helper()
	v, err := types.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func activeReservation(staffID *int64, start types.TimeOfDay, duration int) *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		UserID:          100,
		Staff:           domain.AssignmentFromPtr(staffID),
		ReservedTime:    start,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

func TestGenerateCandidateSlots(t *testing.T) {
	open := mustTime(t, "09:00")
	close := mustTime(t, "18:00")

	t.Run("последний слот тот, чья услуга помещается до закрытия", func(t *testing.T) {
		slots := generateCandidateSlots(open, close, 30, 60)

		// 09:00 .. 17:00 с шагом 30 минут
		require.Len(t, slots, 17)
		assert.Equal(t, "09:00", slots[0].String())
		assert.Equal(t, "17:00", slots[len(slots)-1].String())
	})

	t.Run("услуга ровно до закрытия входит в сетку", func(t *testing.T) {
		slots := generateCandidateSlots(open, close, 60, 60)

		require.Len(t, slots, 9)
		assert.Equal(t, "17:00", slots[len(slots)-1].String())
	})

	t.Run("услуга длиннее рабочего дня - пустая сетка", func(t *testing.T) {
		slots := generateCandidateSlots(open, close, 30, 600)
		assert.Empty(t, slots)
	})

	t.Run("детерминизм", func(t *testing.T) {
		first := generateCandidateSlots(open, close, 15, 45)
		second := generateCandidateSlots(open, close, 15, 45)
		assert.Equal(t, first, second)
	})
}

func TestIsBlockedAt(t *testing.T) {
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	blocks := []*domain.BlockedTimeSlot{
		{
			StartDateTime: time.Date(2025, 6, 16, 14, 0, 0, 0, time.UTC),
			EndDateTime:   time.Date(2025, 6, 16, 15, 0, 0, 0, time.UTC),
		},
	}

	// Блок [14:00, 15:00) отсекает слоты, НАЧИНАЮЩИЕСЯ внутри него
	assert.True(t, isBlockedAt(date, mustTime(t, "14:00"), blocks))
	assert.True(t, isBlockedAt(date, mustTime(t, "14:30"), blocks))

	// Конец блока не входит (полуоткрытый интервал)
	assert.False(t, isBlockedAt(date, mustTime(t, "15:00"), blocks))

	// Проверяется только момент начала: слот 13:30 длительностью 60 минут
	// заходит внутрь блока, но его начало лежит вне блока - слот не отсекается
	assert.False(t, isBlockedAt(date, mustTime(t, "13:30"), blocks))
}

func TestStaffSchedule_CanServe(t *testing.T) {
	shift := &domain.ShiftRule{
		StaffID:   1,
		DayOfWeek: time.Monday,
		StartTime: mustTime(t, "10:00"),
		EndTime:   mustTime(t, "16:00"),
		IsActive:  true,
	}

	t.Run("интервал внутри смены", func(t *testing.T) {
		sched := &staffSchedule{shifts: []*domain.ShiftRule{shift}}
		assert.True(t, sched.canServe(mustTime(t, "10:00"), mustTime(t, "11:00")))
		assert.True(t, sched.canServe(mustTime(t, "15:00"), mustTime(t, "16:00")))
	})

	t.Run("интервал выходит за границу смены", func(t *testing.T) {
		sched := &staffSchedule{shifts: []*domain.ShiftRule{shift}}
		assert.False(t, sched.canServe(mustTime(t, "09:30"), mustTime(t, "10:30")))
		assert.False(t, sched.canServe(mustTime(t, "15:30"), mustTime(t, "16:30")))
	})

	t.Run("сотрудник без смен недоступен всегда", func(t *testing.T) {
		sched := &staffSchedule{}
		assert.False(t, sched.canServe(mustTime(t, "10:00"), mustTime(t, "11:00")))
	})

	t.Run("отпуск перекрывает смены", func(t *testing.T) {
		sched := &staffSchedule{shifts: []*domain.ShiftRule{shift}, onVacation: true}
		assert.False(t, sched.canServe(mustTime(t, "10:00"), mustTime(t, "11:00")))
	})
}

func TestBuildStaffSchedules(t *testing.T) {
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	staffList := []*domain.Staff{
		{ID: 1, Name: "Анна", IsActive: true},
		{ID: 2, Name: "Борис", IsActive: true},
	}
	rules := []*domain.ShiftRule{
		{ID: 10, StaffID: 1, DayOfWeek: time.Monday, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "18:00")},
		{ID: 11, StaffID: 1, DayOfWeek: time.Tuesday, StartTime: mustTime(t, "12:00"), EndTime: mustTime(t, "20:00")},
	}
	vacations := []*domain.Vacation{
		{ID: 20, StaffID: 2, StartDate: monday.AddDate(0, 0, -1), EndDate: monday.AddDate(0, 0, 3)},
	}

	t.Run("смены фильтруются по дню недели, отпуска по дате", func(t *testing.T) {
		schedules := buildStaffSchedules(staffList, rules, vacations, monday, true)

		require.Len(t, schedules, 2)
		require.Len(t, schedules[1].shifts, 1)
		assert.Equal(t, int64(10), schedules[1].shifts[0].ID)
		assert.False(t, schedules[1].onVacation)

		assert.Empty(t, schedules[2].shifts)
		assert.True(t, schedules[2].onVacation)
	})

	t.Run("при выключенном управлении сменами расписания пустые", func(t *testing.T) {
		schedules := buildStaffSchedules(staffList, nil, nil, monday, false)

		require.Len(t, schedules, 2)
		// Доступность решает staffEligible, а не canServe
		assert.True(t, staffEligible(schedules[1], mustTime(t, "09:00"), mustTime(t, "10:00"), false))
		assert.False(t, staffEligible(schedules[1], mustTime(t, "09:00"), mustTime(t, "10:00"), true))
	})
}

func TestIsIntervalFree(t *testing.T) {
	staffID := int64(1)
	reservations := []*domain.Reservation{
		activeReservation(&staffID, mustTime(t, "14:00"), 60),
	}

	t.Run("пересекающийся интервал занят", func(t *testing.T) {
		assert.False(t, isIntervalFree(mustTime(t, "14:30"), mustTime(t, "15:30"), reservations))
		assert.False(t, isIntervalFree(mustTime(t, "13:30"), mustTime(t, "14:30"), reservations))
	})

	t.Run("запись до 15:00 не конфликтует с началом в 15:00", func(t *testing.T) {
		assert.True(t, isIntervalFree(mustTime(t, "15:00"), mustTime(t, "16:00"), reservations))
	})

	t.Run("интервал до начала записи свободен", func(t *testing.T) {
		assert.True(t, isIntervalFree(mustTime(t, "13:00"), mustTime(t, "14:00"), reservations))
	})

	t.Run("отмененные записи не занимают время", func(t *testing.T) {
		cancelled := activeReservation(&staffID, mustTime(t, "14:00"), 60)
		cancelled.Status = domain.StatusCancelled
		assert.True(t, isIntervalFree(mustTime(t, "14:00"), mustTime(t, "15:00"), []*domain.Reservation{cancelled}))
	})
}

func TestGroupReservations(t *testing.T) {
	staff1 := int64(1)
	staff2 := int64(2)
	reservations := []*domain.Reservation{
		activeReservation(&staff1, mustTime(t, "10:00"), 30),
		activeReservation(&staff2, mustTime(t, "11:00"), 30),
		activeReservation(&staff1, mustTime(t, "12:00"), 30),
		activeReservation(nil, mustTime(t, "13:00"), 30),
	}

	byStaff, pool := groupReservations(reservations)

	assert.Len(t, byStaff[staff1], 2)
	assert.Len(t, byStaff[staff2], 1)
	assert.Len(t, pool, 1)
}

func TestResolveAnyStaffSlot(t *testing.T) {
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	staffList := []*domain.Staff{
		{ID: 1, Name: "Анна", IsActive: true},
		{ID: 2, Name: "Борис", IsActive: true},
	}
	schedules := buildStaffSchedules(staffList, nil, nil, date, false)

	t.Run("возвращает первого свободного сотрудника по возрастанию ID", func(t *testing.T) {
		available, staffID := resolveAnyStaffSlot(
			mustTime(t, "10:00"), 60, date, staffList, schedules,
			map[int64][]*domain.Reservation{}, nil, false,
		)

		require.True(t, available)
		require.NotNil(t, staffID)
		assert.Equal(t, int64(1), *staffID)
	})

	t.Run("занятый первый сотрудник - выбирается следующий", func(t *testing.T) {
		id1 := int64(1)
		byStaff := map[int64][]*domain.Reservation{
			1: {activeReservation(&id1, mustTime(t, "10:00"), 60)},
		}

		available, staffID := resolveAnyStaffSlot(
			mustTime(t, "10:00"), 60, date, staffList, schedules,
			byStaff, nil, false,
		)

		require.True(t, available)
		require.NotNil(t, staffID)
		assert.Equal(t, int64(2), *staffID)
	})

	t.Run("все сотрудники заняты - слот недоступен", func(t *testing.T) {
		id1, id2 := int64(1), int64(2)
		byStaff := map[int64][]*domain.Reservation{
			1: {activeReservation(&id1, mustTime(t, "10:00"), 60)},
			2: {activeReservation(&id2, mustTime(t, "10:30"), 60)},
		}

		available, staffID := resolveAnyStaffSlot(
			mustTime(t, "10:00"), 60, date, staffList, schedules,
			byStaff, nil, false,
		)

		assert.False(t, available)
		assert.Nil(t, staffID)
	})

	t.Run("заблокированное начало отсекает слот для всех", func(t *testing.T) {
		blocks := []*domain.BlockedTimeSlot{
			{
				StartDateTime: time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
				EndDateTime:   time.Date(2025, 6, 16, 11, 0, 0, 0, time.UTC),
			},
		}

		available, staffID := resolveAnyStaffSlot(
			mustTime(t, "10:00"), 60, date, staffList, schedules,
			map[int64][]*domain.Reservation{}, blocks, false,
		)

		assert.False(t, available)
		assert.Nil(t, staffID)
	})
}

func TestResolvePoolSlot(t *testing.T) {
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	pool := []*domain.Reservation{
		activeReservation(nil, mustTime(t, "12:00"), 60),
	}

	assert.False(t, resolvePoolSlot(mustTime(t, "12:30"), 60, date, pool, nil))
	assert.True(t, resolvePoolSlot(mustTime(t, "13:00"), 60, date, pool, nil))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2025, 6, 16, 15, 30, 0, 0, time.UTC)

	assert.True(t, isDateInPast(now.AddDate(0, 0, -1), now))
	// Сегодняшний день не считается прошлым независимо от времени суток
	assert.False(t, isDateInPast(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, isDateInPast(now.AddDate(0, 0, 1), now))
}
