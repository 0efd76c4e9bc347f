package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay время суток в минутах от полуночи.
// Вся арифметика и сравнения выполняются над целыми минутами,
// строковый формат "HH:MM" используется только на границах (JSON, SQL).
type TimeOfDay int

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// ParseTimeOfDay парсит строку формата "HH:MM" (24-часовой формат)
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return TimeOfDay(hh*60 + mm), nil
}

// NewTimeOfDay создает TimeOfDay из time.Time (берёт только часы и минуты)
func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// FromMinutes создает TimeOfDay из количества минут от полуночи
func FromMinutes(m int) TimeOfDay {
	return TimeOfDay(m)
}

// Minutes возвращает количество минут от полуночи
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// AddMinutes возвращает время, сдвинутое на m минут вперед.
// Результат может выходить за границу суток (например, 23:30 + 60 = 1470 минут) -
// это корректно для сравнения интервалов внутри одного дня.
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	return TimeOfDay(int(t) + m)
}

// Before возвращает true, если t строго раньше other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// After возвращает true, если t строго позже other
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t > other
}

// String возвращает время в формате "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// At привязывает время суток к конкретной дате
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [startA, endA) и [startB, endB).
// Смежные интервалы (endA == startB) НЕ пересекаются - используются строгие неравенства.
// Это единственный примитив проверки пересечений во всём сервисе.
func Overlaps(startA, endA, startB, endB TimeOfDay) bool {
	return startA.Before(endB) && endA.After(startB)
}

// MarshalJSON сериализует время как строку "HH:MM"
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON десериализует время из строки "HH:MM"
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer - в БД время хранится как TIME (строка "HH:MM:SS")
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60), nil
}

// Scan реализует sql.Scanner - принимает строку "HH:MM[:SS]", []byte или time.Time
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeOfDay(v)
		return nil
	case nil:
		*t = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	// Драйвер может вернуть "HH:MM:SS" - отбрасываем секунды
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
