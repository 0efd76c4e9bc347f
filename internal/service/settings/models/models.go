package models

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек салона
type UpdateSettingsRequest struct {
	OpenTime            string   `json:"openTime"`  // "09:00"
	CloseTime           string   `json:"closeTime"` // "18:00"
	SlotDurationMinutes int      `json:"slotDurationMinutes"`
	ClosedDays          []string `json:"closedDays"` // ["sunday", "monday"]
}

// ToDomainSettings конвертирует request в domain модель
func (r *UpdateSettingsRequest) ToDomainSettings() (*domain.StoreSettings, error) {
	openTime, err := types.ParseTimeOfDay(r.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.ParseTimeOfDay(r.CloseTime)
	if err != nil {
		return nil, err
	}

	return &domain.StoreSettings{
		OpenTime:            openTime,
		CloseTime:           closeTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		ClosedDays:          r.ClosedDays,
	}, nil
}

// Response модели

// SettingsResponse ответ с настройками салона
type SettingsResponse struct {
	OpenTime            string    `json:"openTime"`  // "09:00"
	CloseTime           string    `json:"closeTime"` // "18:00"
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	ClosedDays          []string  `json:"closedDays"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.StoreSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	closedDays := s.ClosedDays
	if closedDays == nil {
		closedDays = []string{}
	}

	return &SettingsResponse{
		OpenTime:            s.OpenTime.String(),
		CloseTime:           s.CloseTime.String(),
		SlotDurationMinutes: s.SlotDurationMinutes,
		ClosedDays:          closedDays,
		UpdatedAt:           s.UpdatedAt,
	}
}
