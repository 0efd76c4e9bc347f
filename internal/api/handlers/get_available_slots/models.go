package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	Available bool   `json:"available"`
	StaffID   *int64 `json:"staffId,omitempty"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date    string         `json:"date"` // "2025-10-15"
	MenuID  int64          `json:"menuId"`
	StaffID *int64         `json:"staffId,omitempty"`
	Slots   []SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP параметры в модель use case
func ToUseCaseRequest(menuID int64, staffID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:    date,
		MenuID:  menuID,
		StaffID: staffID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime: slot.StartTime.String(),
			Available: slot.Available,
			StaffID:   slot.StaffID,
		}
	}

	return &AvailableSlotsResponse{
		Date:    resp.Date.Format(domain.DateFormat),
		MenuID:  resp.MenuID,
		StaffID: resp.StaffID,
		Slots:   slots,
	}
}
