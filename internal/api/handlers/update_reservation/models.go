package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	updateReservation "github.com/m04kA/SMC-SalonService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// UpdateReservationRequest HTTP request model
type UpdateReservationRequest struct {
	ReservedDate string `json:"reservedDate"` // "2025-10-15"
	ReservedTime string `json:"reservedTime"` // "10:00"
	StaffID      *int64 `json:"staffId,omitempty"`
	MenuID       *int64 `json:"menuId,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	MenuID          int64   `json:"menuId"`
	ReservedDate    string  `json:"reservedDate"`
	ReservedTime    string  `json:"reservedTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	MenuName        string  `json:"menuName"`
	MenuPrice       float64 `json:"menuPrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(reservationID, userID int64) (*updateReservation.Request, error) {
	// Парсим дату
	reservedDate, err := time.Parse(domain.DateFormat, r.ReservedDate)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.ParseTimeOfDay(r.ReservedTime)
	if err != nil {
		return nil, err
	}

	return &updateReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Date:          reservedDate,
		StartTime:     startTime,
		StaffID:       r.StaffID,
		MenuID:        r.MenuID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		StaffID:         resp.StaffID,
		MenuID:          resp.MenuID,
		ReservedDate:    resp.ReservedDate.Format(domain.DateFormat),
		ReservedTime:    resp.ReservedTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		MenuName:        resp.MenuName,
		MenuPrice:       resp.MenuPrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
