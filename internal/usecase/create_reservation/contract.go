package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/featureflags"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifier"
)

// ReservationRepository интерфейс репозитория записей
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	// ListActiveByUserAndDate получает активные записи пользователя на дату.
	// Внутри транзакции строки блокируются (FOR UPDATE).
	ListActiveByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*domain.Reservation, error)
	ListActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Reservation, error)
	ListActivePoolByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
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

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	SendReservationCreated(ctx context.Context, n notifier.ReservationCreatedNotification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
