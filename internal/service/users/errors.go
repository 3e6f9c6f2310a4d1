package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда профиль ещё не создан
	ErrUserNotFound = errors.New("users: user not found")

	// ErrInvalidInput возвращается при некорректных контактных данных
	ErrInvalidInput = errors.New("users: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
