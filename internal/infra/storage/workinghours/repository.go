package workinghours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/dbmetrics"
	"github.com/m04kA/counseling-booking-service/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

var ruleColumns = []string{
	"id",
	"day_of_week",
	"open_time",
	"close_time",
	"slot_duration_minutes",
	"default_capacity",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания (одно правило на день недели)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDayOfWeek получает правило для дня недели (0 = воскресенье)
func (r *Repository) GetByDayOfWeek(ctx context.Context, dayOfWeek int) (*domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("working_hours").
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDayOfWeek - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDayOfWeek - scan rule: %w", ErrScanRow, err)
	}

	return rule, nil
}

// List возвращает все правила, упорядоченные по дню недели
func (r *Repository) List(ctx context.Context) ([]*domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("working_hours").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WorkingHoursRule, 0, 7)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}

// Upsert создает или заменяет правило для дня недели
func (r *Repository) Upsert(ctx context.Context, rule *domain.WorkingHoursRule) (*domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("working_hours").
		Columns(
			"day_of_week",
			"open_time",
			"close_time",
			"slot_duration_minutes",
			"default_capacity",
			"is_active",
		).
		Values(
			rule.DayOfWeek,
			rule.OpenTime,
			rule.CloseTime,
			rule.SlotDurationMinutes,
			rule.DefaultCapacity,
			rule.IsActive,
		).
		Suffix(`ON CONFLICT (day_of_week) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			default_capacity = EXCLUDED.default_capacity,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return rule, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.WorkingHoursRule, error) {
	var rule domain.WorkingHoursRule
	err := row.Scan(
		&rule.ID,
		&rule.DayOfWeek,
		&rule.OpenTime,
		&rule.CloseTime,
		&rule.SlotDurationMinutes,
		&rule.DefaultCapacity,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
