package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/featureflags"
)

// ReservationRepository интерфейс репозитория записей
type ReservationRepository interface {
	// ListActiveByDate получает все активные записи на дату
	ListActiveByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
}

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
}

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Menu, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	ListActive(ctx context.Context) ([]*domain.Staff, error)
	ListActiveShiftRules(ctx context.Context, staffIDs []int64) ([]*domain.ShiftRule, error)
	ListVacationsCovering(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Vacation, error)
}

// BlockedSlotRepository интерфейс репозитория заблокированных окон
type BlockedSlotRepository interface {
	ListForDate(ctx context.Context, date time.Time) ([]*domain.BlockedTimeSlot, error)
}

// FeatureFlagsProvider интерфейс провайдера фич-флагов
type FeatureFlagsProvider interface {
	GetFlagsWithGracefulDegradation(ctx context.Context) *featureflags.Flags
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
