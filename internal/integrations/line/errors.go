package line

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("line client: internal error")

	// ErrInvalidRequest LINE отклонил сообщение (400)
	ErrInvalidRequest = errors.New("line client: invalid request")

	// ErrUnauthorized неверный или просроченный channel access token
	ErrUnauthorized = errors.New("line client: unauthorized")

	// ErrRateLimited превышен лимит LINE Messaging API
	ErrRateLimited = errors.New("line client: rate limited")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("line client: invalid response")
)
