package slots

import "errors"

var (
	// ErrSlotNotFound слот с такими границами не существует в сгенерированном дне
	ErrSlotNotFound = errors.New("slots: slot not found")

	// ErrInternal ошибка хранилища
	ErrInternal = errors.New("slots: internal error")
)
