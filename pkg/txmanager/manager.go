package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// Коды SQLSTATE PostgreSQL
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

// TxBeginner источник транзакций (реализуется *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Options параметры менеджера транзакций
type Options struct {
	// LockTimeout ограничивает ожидание блокировок внутри транзакции (SET LOCAL lock_timeout)
	LockTimeout time.Duration
	// TxTimeout ограничивает длительность всей транзакции (0 = без ограничения)
	TxTimeout time.Duration
	// MaxRetries количество повторов при конфликте сериализации
	MaxRetries int
}

// TransactionManager управляет транзакциями, передавая их через context
type TransactionManager struct {
	db   TxBeginner
	opts Options
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts Options) *TransactionManager {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &TransactionManager{db: db, opts: opts}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции
// При конфликте сериализации fn выполняется повторно на свежем снимке данных
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	if m.opts.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.TxTimeout)
		defer cancel()
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = m.runOnce(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) || attempt >= m.opts.MaxRetries {
			break
		}
	}

	return classify(err)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback()
		}
	}()

	if m.opts.LockTimeout > 0 {
		// SET не поддерживает плейсхолдеры, значение формируется из числа
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.opts.LockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: set lock_timeout: %w", ErrTransaction, err)
		}
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return err
	}

	finished = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}

// classify сводит ошибки драйвера к ошибкам менеджера, бизнес-ошибки возвращает как есть
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeLockNotAvailable, codeQueryCanceled:
			return fmt.Errorf("%w: %w", ErrLockTimeout, err)
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %w", ErrSerializationFailure, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	}
	return err
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}
