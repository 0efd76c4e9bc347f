package get_available_slots

import "errors"

var (
	// ErrMenuNotFound возвращается, когда меню не найдено или неактивно
	ErrMenuNotFound = errors.New("get_available_slots: menu not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("get_available_slots: staff not found")

	// ErrSettingsNotFound возвращается, когда настройки салона не заданы
	ErrSettingsNotFound = errors.New("get_available_slots: store settings not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
