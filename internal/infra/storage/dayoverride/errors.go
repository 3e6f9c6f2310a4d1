package dayoverride

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда переопределения на дату нет
	ErrOverrideNotFound = errors.New("dayoverride.repository: override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("dayoverride.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("dayoverride.repository: failed to execute query")
)
