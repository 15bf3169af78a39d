package txmanager

import "errors"

var (
	// ErrTransaction возвращается при ошибках начала/фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")

	// ErrLockTimeout возвращается, когда блокировку не удалось получить за отведённое время
	ErrLockTimeout = errors.New("txmanager: lock timeout")

	// ErrSerializationFailure возвращается, когда исчерпаны повторы после конфликтов сериализации
	ErrSerializationFailure = errors.New("txmanager: serialization failure")
)
