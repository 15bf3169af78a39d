package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	hoursTable   = "business_hours"
	timeOffTable = "time_off"
)

var hoursColumns = []string{
	"id",
	"provider_id",
	"day_of_week",
	"is_open",
	"open_time",
	"close_time",
	"updated_at",
}

var timeOffColumns = []string{
	"id",
	"provider_id",
	"start_date",
	"end_date",
	"start_time",
	"end_time",
	"recurring_annually",
	"reason",
	"created_at",
}

// Repository репозиторий расписания провайдера: рабочие часы и отсутствия
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessHours получает рабочие часы провайдера на всю неделю (отсортированы по дню недели)
func (r *Repository) GetBusinessHours(ctx context.Context, providerID int64) ([]*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From(hoursTable).
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.BusinessHours, 0, 7)
	for rows.Next() {
		h, err := scanBusinessHours(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan row: %w", ErrScanRow, err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - rows error: %w", ErrScanRow, err)
	}

	return hours, nil
}

// GetBusinessHoursForDay получает рабочие часы на конкретный день недели
// Отсутствие записи означает, что день закрыт: возвращается ErrBusinessHoursNotFound
func (r *Repository) GetBusinessHoursForDay(ctx context.Context, providerID int64, day time.Weekday) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(hoursColumns...).
		From(hoursTable).
		Where(squirrel.Eq{"provider_id": providerID, "day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHoursForDay - build select query: %v", ErrBuildQuery, err)
	}

	h, err := scanBusinessHours(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHoursForDay - scan row: %w", ErrScanRow, err)
	}

	return h, nil
}

// ReplaceBusinessHours полностью заменяет недельное расписание провайдера
// Должен вызываться внутри транзакции, иначе возможна частичная замена
func (r *Repository) ReplaceBusinessHours(ctx context.Context, providerID int64, hours []*domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(hoursTable).
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute delete: %w", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(hoursTable).
		Columns("provider_id", "day_of_week", "is_open", "open_time", "close_time")
	for _, h := range hours {
		insert = insert.Values(providerID, int(h.DayOfWeek), h.IsOpen, h.OpenTime, h.CloseTime)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetTimeOff получает отсутствия, которые могут пересекаться с периодом [from, to]
// Ежегодные записи возвращаются всегда, если начались не позже to; точное попадание проверяет domain.TimeOff.Covers
func (r *Repository) GetTimeOff(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(timeOffColumns...).
		From(timeOffTable).
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.LtOrEq{"start_date": domain.DateOnly(to)}).
		Where(squirrel.Or{
			squirrel.GtOrEq{"end_date": domain.DateOnly(from)},
			squirrel.Eq{"recurring_annually": true},
		}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTimeOff - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryTimeOff(ctx, executor, "GetTimeOff", query, args)
}

// ListTimeOff получает все отсутствия провайдера
func (r *Repository) ListTimeOff(ctx context.Context, providerID int64) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(timeOffColumns...).
		From(timeOffTable).
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryTimeOff(ctx, executor, "ListTimeOff", query, args)
}

// CreateTimeOff создает запись об отсутствии
func (r *Repository) CreateTimeOff(ctx context.Context, t *domain.TimeOff) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(timeOffTable).
		Columns("provider_id", "start_date", "end_date", "start_time", "end_time", "recurring_annually", "reason").
		Values(
			t.ProviderID,
			domain.DateOnly(t.StartDate),
			domain.DateOnly(t.EndDate),
			t.StartTime,
			t.EndTime,
			t.RecurringAnnually,
			t.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - execute insert: %w", ErrExecQuery, err)
	}
	t.CreatedAt = createdAt.Time

	return t, nil
}

// DeleteTimeOff удаляет запись об отсутствии провайдера
func (r *Repository) DeleteTimeOff(ctx context.Context, providerID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(timeOffTable).
		Where(squirrel.Eq{"id": id, "provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteTimeOff - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteTimeOff - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteTimeOff - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTimeOffNotFound
	}

	return nil
}

func (r *Repository) queryTimeOff(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.TimeOff, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.TimeOff, 0)
	for rows.Next() {
		var t domain.TimeOff
		var createdAt sql.NullTime

		err := rows.Scan(
			&t.ID,
			&t.ProviderID,
			&t.StartDate,
			&t.EndDate,
			&t.StartTime,
			&t.EndTime,
			&t.RecurringAnnually,
			&t.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}

		t.StartDate = domain.DateOnly(t.StartDate)
		t.EndDate = domain.DateOnly(t.EndDate)
		t.CreatedAt = createdAt.Time
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBusinessHours(row scanner) (*domain.BusinessHours, error) {
	var h domain.BusinessHours
	var day int
	var updatedAt sql.NullTime

	if err := row.Scan(&h.ID, &h.ProviderID, &day, &h.IsOpen, &h.OpenTime, &h.CloseTime, &updatedAt); err != nil {
		return nil, err
	}

	h.DayOfWeek = time.Weekday(day)
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}
