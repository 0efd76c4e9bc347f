package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}

	if req.MenuID <= 0 {
		return fmt.Errorf("%w: menu_id must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long (max %d characters)", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateTimeSlot проверяет, что интервал записи лежит внутри рабочего дня,
// начало попадает в сетку слотов и момент начала ещё не прошёл
func validateTimeSlot(req *Request, settings *domain.StoreSettings, menuDuration int, now time.Time) error {
	start := req.StartTime
	end := start.AddMinutes(menuDuration)

	if start.Before(settings.OpenTime) || end.After(settings.CloseTime) {
		return fmt.Errorf("%w: time %s is outside working hours %s-%s",
			ErrInvalidTimeSlot, start, settings.OpenTime, settings.CloseTime)
	}

	if (start.Minutes()-settings.OpenTime.Minutes())%settings.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: time %s is not aligned to %d-minute slot grid",
			ErrInvalidTimeSlot, start, settings.SlotDurationMinutes)
	}

	if !start.At(req.Date).After(now) {
		return fmt.Errorf("%w: time %s on %s is in the past",
			ErrInvalidTimeSlot, start, req.Date.Format(domain.DateFormat))
	}

	return nil
}
