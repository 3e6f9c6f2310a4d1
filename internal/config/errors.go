package config

import "errors"

var (
	// ErrRead возвращается, когда файл конфигурации не удалось прочитать или разобрать
	ErrRead = errors.New("config: failed to read config")

	// ErrInvalid возвращается при некорректных значениях конфигурации
	ErrInvalid = errors.New("config: invalid config")
)
