package schedule

import "errors"

var (
	// ErrBusinessHoursNotFound возвращается, когда для дня недели нет записи (день закрыт)
	ErrBusinessHoursNotFound = errors.New("schedule.repository: business hours not found")

	// ErrTimeOffNotFound возвращается, когда запись об отсутствии не найдена
	ErrTimeOffNotFound = errors.New("schedule.repository: time off not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
