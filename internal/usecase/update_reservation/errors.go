package update_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrReservationNotFound возвращается, когда запись не найдена
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrAccessDenied возвращается при попытке перенести чужую запись
	ErrAccessDenied = errors.New("update_reservation: access denied")

	// ErrReservationNotUpdatable возвращается, когда запись нельзя перенести
	// (отменена, завершена или клиент не пришёл)
	ErrReservationNotUpdatable = errors.New("update_reservation: reservation cannot be updated")

	// ErrMenuNotFound возвращается, когда новая услуга не найдена или неактивна
	ErrMenuNotFound = errors.New("update_reservation: menu not found")

	// ErrStaffNotFound возвращается, когда новый сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("update_reservation: staff not found")

	// ErrSettingsNotFound возвращается, когда настройки салона не заданы
	ErrSettingsNotFound = errors.New("update_reservation: store settings not found")

	// ErrStoreClosed возвращается, когда салон закрыт в новую дату
	ErrStoreClosed = errors.New("update_reservation: store is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда новое время вне рабочего дня,
	// не попадает в сетку слотов или уже прошло
	ErrInvalidTimeSlot = errors.New("update_reservation: invalid time slot")

	// ErrTimeSlotBlocked возвращается, когда новое время попадает
	// в заблокированное окно
	ErrTimeSlotBlocked = errors.New("update_reservation: time slot is blocked")

	// ErrStaffNotAvailable возвращается, когда сотрудник не работает
	// в новое время (смена, отпуск)
	ErrStaffNotAvailable = errors.New("update_reservation: staff is not available at this time")

	// ErrUserTimeSlotConflict возвращается, когда у пользователя уже есть
	// другая активная запись, пересекающаяся с новым интервалом
	ErrUserTimeSlotConflict = errors.New("update_reservation: user already has a reservation at this time")

	// ErrStaffTimeSlotConflict возвращается, когда сотрудник уже занят
	// в новом интервале
	ErrStaffTimeSlotConflict = errors.New("update_reservation: staff already has a reservation at this time")

	// ErrPoolTimeSlotConflict возвращается в режиме пула, когда новый
	// интервал уже занят другой записью
	ErrPoolTimeSlotConflict = errors.New("update_reservation: time slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
