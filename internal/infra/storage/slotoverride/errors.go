package slotoverride

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда переопределение слота не найдено
	ErrOverrideNotFound = errors.New("slotoverride.repository: override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotoverride.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotoverride.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slotoverride.repository: failed to scan row")
)
