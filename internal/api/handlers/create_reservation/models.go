package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	createReservation "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	MenuID       int64   `json:"menuId"`
	StaffID      *int64  `json:"staffId,omitempty"`
	ReservedDate string  `json:"reservedDate"` // "2025-10-15"
	ReservedTime string  `json:"reservedTime"` // "10:00"
	Notes        *string `json:"notes,omitempty"`
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
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
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

	return &createReservation.Request{
		UserID:    userID,
		MenuID:    r.MenuID,
		StaffID:   r.StaffID,
		Date:      reservedDate,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
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
