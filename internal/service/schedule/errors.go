package schedule

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrDayOverrideNotFound возвращается, когда переопределение дня не найдено
	ErrDayOverrideNotFound = errors.New("schedule: day override not found")

	// ErrSlotOverrideNotFound возвращается, когда переопределение слота не найдено
	ErrSlotOverrideNotFound = errors.New("schedule: slot override not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
