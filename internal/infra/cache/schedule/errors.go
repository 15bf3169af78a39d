package schedule

import "errors"

var (
	// ErrInvalidate возвращается, когда не удалось сбросить кэш провайдера
	ErrInvalidate = errors.New("schedule.cache: failed to invalidate")
)
