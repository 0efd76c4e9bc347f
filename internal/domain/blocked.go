package domain

import "time"

// BlockedTimeSlot вручную заблокированное окно времени всего салона.
// Абсолютные метки времени, не привязано к сотруднику.
type BlockedTimeSlot struct {
	ID            int64
	StartDateTime time.Time
	EndDateTime   time.Time
	Reason        *string
	CreatedAt     time.Time
}

// ContainsInstant проверяет попадание момента времени в блок [start, end).
// Проверяется именно точка, а не интервал: слот, начинающийся до блока,
// этим методом не отсекается (см. фильтр блоков в usecase).
func (b *BlockedTimeSlot) ContainsInstant(t time.Time) bool {
	return !t.Before(b.StartDateTime) && t.Before(b.EndDateTime)
}
