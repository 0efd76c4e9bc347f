package notifier

// ReservationCreatedNotification уведомление о созданной записи
type ReservationCreatedNotification struct {
	ReservationID int64  `json:"reservation_id"`
	UserID        int64  `json:"user_id"`
	StaffID       *int64 `json:"staff_id,omitempty"`
	MenuName      string `json:"menu_name"`
	ReservedDate  string `json:"reserved_date"` // YYYY-MM-DD
	ReservedTime  string `json:"reserved_time"` // HH:MM
}

// ReservationCancelledNotification уведомление об отменённой записи
type ReservationCancelledNotification struct {
	ReservationID int64  `json:"reservation_id"`
	UserID        int64  `json:"user_id"`
	Reason        string `json:"reason,omitempty"`
}
