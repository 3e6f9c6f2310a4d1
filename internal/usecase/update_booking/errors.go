package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь меняет чужое бронирование
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("update_booking: invalid status transition")

	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = errors.New("update_booking: consultant not found")

	// ErrConsultantInactive возвращается при назначении деактивированного консультанта
	ErrConsultantInactive = errors.New("update_booking: consultant is inactive")

	// ErrDayClosed возвращается, когда новый день закрыт переопределением
	ErrDayClosed = errors.New("update_booking: day is closed")

	// ErrSlotFull возвращается, когда в новом слоте нет мест
	ErrSlotFull = errors.New("update_booking: slot is full")

	// ErrSlotNotFound возвращается, когда нового слота нет в расписании
	ErrSlotNotFound = errors.New("update_booking: slot does not exist")

	// ErrInvalidDate возвращается, когда новая дата в прошлом
	ErrInvalidDate = errors.New("update_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда новая дата дальше окна бронирования
	ErrDateTooFarInFuture = errors.New("update_booking: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
