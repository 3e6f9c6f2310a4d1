package slotoverride

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/dbmetrics"
	"github.com/m04kA/counseling-booking-service/pkg/psqlbuilder"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

var overrideColumns = []string{
	"id",
	"date",
	"start_time",
	"end_time",
	"is_available",
	"capacity",
	"reason",
	"created_by",
	"created_at",
	"updated_at",
}

const upsertSuffix = `ON CONFLICT (date, start_time, end_time) DO UPDATE SET
	is_available = EXCLUDED.is_available,
	capacity = EXCLUDED.capacity,
	reason = EXCLUDED.reason,
	created_by = EXCLUDED.created_by,
	updated_at = NOW()
	RETURNING id, created_at, updated_at`

// Repository репозиторий переопределений отдельных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByDate возвращает переопределения на дату, упорядоченные по времени начала
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("slot_overrides").
		Where(squirrel.Eq{"date": types.FormatDate(date)}).
		OrderBy("start_time ASC", "end_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.SlotOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %w", ErrScanRow, err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}

// GetBySlot получает переопределение конкретного слота
func (r *Repository) GetBySlot(ctx context.Context, key domain.SlotKey) (*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("slot_overrides").
		Where(squirrel.Eq{
			"date":       types.FormatDate(key.Date),
			"start_time": key.StartTime,
			"end_time":   key.EndTime,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlot - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlot - scan override: %w", ErrScanRow, err)
	}

	return o, nil
}

// ReplaceForDate удаляет все переопределения даты и вставляет новый набор.
// Атомарность обеспечивает вызывающий код через транзакцию в контексте.
func (r *Repository) ReplaceForDate(ctx context.Context, date time.Time, overrides []*domain.SlotOverride) ([]*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_overrides").
		Where(squirrel.Eq{"date": types.FormatDate(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForDate - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceForDate - execute delete: %w", ErrExecQuery, err)
	}

	for _, o := range overrides {
		o.Date = types.NormalizeDate(date)
		if _, err := r.Upsert(ctx, o); err != nil {
			return nil, err
		}
	}

	return overrides, nil
}

// Upsert создает или обновляет переопределение по (date, start_time, end_time)
func (r *Repository) Upsert(ctx context.Context, o *domain.SlotOverride) (*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	o.Date = types.NormalizeDate(o.Date)

	query, args, err := psqlbuilder.Insert("slot_overrides").
		Columns("date", "start_time", "end_time", "is_available", "capacity", "reason", "created_by").
		Values(types.FormatDate(o.Date), o.StartTime, o.EndTime, o.IsAvailable, o.Capacity, o.Reason, o.CreatedBy).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return o, nil
}

// Delete удаляет переопределение по ID и возвращает удалённую запись
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_overrides").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(overrideColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	o, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	return o, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.SlotOverride, error) {
	var o domain.SlotOverride
	err := row.Scan(
		&o.ID,
		&o.Date,
		&o.StartTime,
		&o.EndTime,
		&o.IsAvailable,
		&o.Capacity,
		&o.Reason,
		&o.CreatedBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Date = types.NormalizeDate(o.Date)
	return &o, nil
}
