package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/dbmetrics"
	"github.com/m04kA/counseling-booking-service/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

var userColumns = []string{
	"id",
	"external_id",
	"name",
	"picture_url",
	"student_id",
	"faculty",
	"phone",
	"email",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий пользователей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByExternalID находит пользователя по внешнему идентификатору или создает его.
// Пустое имя не затирает сохранённое.
// Внутри транзакции строка пользователя остаётся заблокированной до конца транзакции,
// поэтому параллельные бронирования одного пользователя выполняются последовательно.
func (r *Repository) UpsertByExternalID(ctx context.Context, externalID, name string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("external_id", "name").
		Values(externalID, name).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			updated_at = NOW()
			RETURNING ` + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByExternalID - build insert query: %v", ErrBuildQuery, err)
	}

	u, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByExternalID - execute upsert: %w", ErrExecQuery, err)
	}

	return u, nil
}

// UpsertProfile создает пользователя с контактными данными или обновляет их.
// nil поля профиля сохраняют текущие значения, пустое имя не затирает сохранённое.
func (r *Repository) UpsertProfile(ctx context.Context, externalID string, profile *domain.UserProfile) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	name := ""
	if profile.Name != nil {
		name = *profile.Name
	}

	query, args, err := psqlbuilder.Insert("users").
		Columns("external_id", "name", "picture_url", "student_id", "faculty", "phone", "email").
		Values(externalID, name, profile.PictureURL, profile.StudentID, profile.Faculty, profile.Phone, profile.Email).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
			student_id = COALESCE(EXCLUDED.student_id, users.student_id),
			faculty = COALESCE(EXCLUDED.faculty, users.faculty),
			phone = COALESCE(EXCLUDED.phone, users.phone),
			email = COALESCE(EXCLUDED.email, users.email),
			updated_at = NOW()
			RETURNING ` + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertProfile - build insert query: %v", ErrBuildQuery, err)
	}

	u, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertProfile - execute upsert: %w", ErrExecQuery, err)
	}

	return u, nil
}

// GetByExternalID получает пользователя по внешнему идентификатору
func (r *Repository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"external_id": externalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalID - build select query: %v", ErrBuildQuery, err)
	}

	u, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalID - scan user: %w", ErrExecQuery, err)
	}

	return u, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.ExternalID,
		&u.Name,
		&u.PictureURL,
		&u.StudentID,
		&u.Faculty,
		&u.Phone,
		&u.Email,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
