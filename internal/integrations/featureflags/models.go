package featureflags

// Flags фич-флаги, управляющие поведением планирования
type Flags struct {
	// EnableStaffShiftManagement включает фильтрацию доступности
	// по сменам и отпускам сотрудников
	EnableStaffShiftManagement bool `json:"enable_staff_shift_management"`

	// EnableStaffSelection разрешает клиентам выбирать сотрудника.
	// При выключенном флаге сотрудник назначается автоматически.
	EnableStaffSelection bool `json:"enable_staff_selection"`
}

// ErrorResponse модель ошибки от сервиса фич-флагов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
