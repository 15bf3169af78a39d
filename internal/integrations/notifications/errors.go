package notifications

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках отправки
	ErrInternal = errors.New("notifications: internal error")

	// ErrInvalidResponse возвращается при неуспешном ответе получателя
	ErrInvalidResponse = errors.New("notifications: invalid response")

	// ErrUnknownDriver возвращается для неизвестного драйвера в конфигурации
	ErrUnknownDriver = errors.New("notifications: unknown driver")
)
