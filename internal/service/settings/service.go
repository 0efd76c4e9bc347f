package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonService/internal/service/settings/models"
)

// Service сервис для работы с настройками салона
type Service struct {
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get получает текущие настройки салона
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching store settings")

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Get: store settings not configured")
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// Update обновляет настройки салона
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating store settings: open=%s, close=%s, slot=%d, closedDays=%v",
		req.OpenTime, req.CloseTime, req.SlotDurationMinutes, req.ClosedDays)

	settings, err := req.ToDomainSettings()
	if err != nil {
		s.logger.Warn("Update: invalid time format: %v", err)
		return nil, fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	}

	if err := validateSettings(settings); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.settingsRepo.Update(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated store settings")
	return models.FromDomainSettings(updated), nil
}

// validateSettings проверяет бизнес-ограничения настроек
func validateSettings(settings *domain.StoreSettings) error {
	if !settings.OpenTime.Before(settings.CloseTime) {
		return fmt.Errorf("%w: open time must be before close time", ErrInvalidInput)
	}

	if settings.SlotDurationMinutes < domain.MinSlotDurationMinutes ||
		settings.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	for _, day := range settings.ClosedDays {
		if !isValidWeekday(day) {
			return fmt.Errorf("%w: invalid closed day %q", ErrInvalidInput, day)
		}
	}

	return nil
}

// isValidWeekday проверяет имя дня недели (в нижнем регистре)
func isValidWeekday(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == day {
			return true
		}
	}
	return false
}
