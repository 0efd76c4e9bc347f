package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrMenuNotFound возвращается, когда услуга не найдена или неактивна
	ErrMenuNotFound = errors.New("create_reservation: menu not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("create_reservation: staff not found")

	// ErrSettingsNotFound возвращается, когда настройки салона не заданы
	ErrSettingsNotFound = errors.New("create_reservation: store settings not found")

	// ErrStoreClosed возвращается, когда салон закрыт в указанную дату
	ErrStoreClosed = errors.New("create_reservation: store is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время записи вне рабочего дня,
	// не попадает в сетку слотов или уже прошло
	ErrInvalidTimeSlot = errors.New("create_reservation: invalid time slot")

	// ErrTimeSlotBlocked возвращается, когда начало слота попадает
	// в заблокированное окно
	ErrTimeSlotBlocked = errors.New("create_reservation: time slot is blocked")

	// ErrStaffNotAvailable возвращается, когда выбранный сотрудник
	// не работает в это время (смена, отпуск)
	ErrStaffNotAvailable = errors.New("create_reservation: staff is not available at this time")

	// ErrUserTimeSlotConflict возвращается, когда у пользователя уже есть
	// активная запись, пересекающаяся с запрошенным интервалом
	ErrUserTimeSlotConflict = errors.New("create_reservation: user already has a reservation at this time")

	// ErrStaffTimeSlotConflict возвращается, когда сотрудник уже занят
	// в запрошенном интервале
	ErrStaffTimeSlotConflict = errors.New("create_reservation: staff already has a reservation at this time")

	// ErrPoolTimeSlotConflict возвращается в режиме пула, когда интервал
	// уже занят другой записью
	ErrPoolTimeSlotConflict = errors.New("create_reservation: time slot is already taken")

	// ErrNoStaffAvailable возвращается при автоназначении, когда ни один
	// сотрудник не свободен в запрошенном интервале
	ErrNoStaffAvailable = errors.New("create_reservation: no staff available at this time")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
