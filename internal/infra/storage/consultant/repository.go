package consultant

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

var consultantColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"avatar",
	"specialty",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий консультантов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория консультантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// List возвращает консультантов по имени; activeOnly скрывает деактивированных
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Consultant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(consultantColumns...).
		From("consultants").
		OrderBy("name ASC")
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	consultants := make([]*domain.Consultant, 0)
	for rows.Next() {
		c, err := scanConsultant(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrExecQuery, err)
		}
		consultants = append(consultants, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrExecQuery, err)
	}

	return consultants, nil
}

// GetByID получает консультанта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Consultant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(consultantColumns...).
		From("consultants").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanConsultant(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConsultantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan consultant: %w", ErrExecQuery, err)
	}

	return c, nil
}

// Create создает консультанта
func (r *Repository) Create(ctx context.Context, c *domain.Consultant) (*domain.Consultant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("consultants").
		Columns("name", "email", "phone", "avatar", "specialty", "is_active").
		Values(c.Name, c.Email, c.Phone, c.Avatar, c.Specialty, c.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return c, nil
}

// Update сохраняет все изменяемые поля консультанта
func (r *Repository) Update(ctx context.Context, c *domain.Consultant) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("consultants").
		Set("name", c.Name).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("avatar", c.Avatar).
		Set("specialty", c.Specialty).
		Set("is_active", c.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConsultantNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConsultant(row rowScanner) (*domain.Consultant, error) {
	var c domain.Consultant
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Avatar,
		&c.Specialty,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
