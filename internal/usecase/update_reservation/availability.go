package update_reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// hasOverlapExcluding проверяет пересечение интервала [start, end)
// с активными записями, не считая саму переносимую запись
func hasOverlapExcluding(start, end types.TimeOfDay, excludeID int64, reservations []*domain.Reservation) bool {
	for _, res := range reservations {
		if res.ID == excludeID || !res.IsActive() {
			continue
		}
		if res.OverlapsInterval(start, end) {
			return true
		}
	}
	return false
}

// isBlockedAt проверяет, попадает ли момент начала записи в заблокированное
// окно. Проверяется только начало, а не весь интервал услуги.
func isBlockedAt(date time.Time, start types.TimeOfDay, blocks []*domain.BlockedTimeSlot) bool {
	instant := start.At(date)
	for _, b := range blocks {
		if b.ContainsInstant(instant) {
			return true
		}
	}
	return false
}

// staffCanServe проверяет смены и отпуска сотрудника для интервала.
// Сотрудник без единой смены недоступен всегда (fail-closed).
func staffCanServe(ctx context.Context, repo StaffRepository, staffID int64, date time.Time, start, end types.TimeOfDay) (bool, error) {
	vacations, err := repo.ListVacationsCovering(ctx, []int64{staffID}, date)
	if err != nil {
		return false, fmt.Errorf("%w: failed to get vacations: %v", ErrInternal, err)
	}
	if len(vacations) > 0 {
		return false, nil
	}

	rules, err := repo.ListActiveShiftRules(ctx, []int64{staffID})
	if err != nil {
		return false, fmt.Errorf("%w: failed to get shift rules: %v", ErrInternal, err)
	}

	weekday := date.Weekday()
	for _, rule := range rules {
		if rule.DayOfWeek == weekday && rule.ContainsInterval(start, end) {
			return true, nil
		}
	}
	return false, nil
}
