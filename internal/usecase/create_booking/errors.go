package create_booking

import "errors"

var (
	// ErrActiveBookingExists возвращается, когда у пользователя уже есть активное бронирование
	ErrActiveBookingExists = errors.New("create_booking: user already has an active booking")

	// ErrDayClosed возвращается, когда день закрыт переопределением
	ErrDayClosed = errors.New("create_booking: day is closed")

	// ErrSlotFull возвращается, когда все места слота заняты
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrSlotNotFound возвращается, когда такого слота нет в расписании дня
	ErrSlotNotFound = errors.New("create_booking: slot does not exist")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата дальше окна бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
