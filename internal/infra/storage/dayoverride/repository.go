package dayoverride

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/dbmetrics"
	"github.com/m04kA/counseling-booking-service/pkg/psqlbuilder"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий переопределений дня (не больше одного на дату)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDate получает переопределение на календарную дату
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*domain.DayOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"date",
		"is_closed",
		"open_time",
		"close_time",
		"capacity",
		"reason",
		"created_by",
		"created_at",
		"updated_at",
	).
		From("day_overrides").
		Where(squirrel.Eq{"date": types.FormatDate(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	var o domain.DayOverride
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.ID,
		&o.Date,
		&o.IsClosed,
		&o.OpenTime,
		&o.CloseTime,
		&o.Capacity,
		&o.Reason,
		&o.CreatedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - scan override: %w", ErrExecQuery, err)
	}

	o.Date = types.NormalizeDate(o.Date)
	return &o, nil
}

// Upsert создает или заменяет переопределение на дату
func (r *Repository) Upsert(ctx context.Context, o *domain.DayOverride) (*domain.DayOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	o.Date = types.NormalizeDate(o.Date)

	query, args, err := psqlbuilder.Insert("day_overrides").
		Columns("date", "is_closed", "open_time", "close_time", "capacity", "reason", "created_by").
		Values(types.FormatDate(o.Date), o.IsClosed, o.OpenTime, o.CloseTime, o.Capacity, o.Reason, o.CreatedBy).
		Suffix(`ON CONFLICT (date) DO UPDATE SET
			is_closed = EXCLUDED.is_closed,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			capacity = EXCLUDED.capacity,
			reason = EXCLUDED.reason,
			created_by = EXCLUDED.created_by,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteByDate удаляет переопределение на дату
func (r *Repository) DeleteByDate(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("day_overrides").
		Where(squirrel.Eq{"date": types.FormatDate(date)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByDate - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}
