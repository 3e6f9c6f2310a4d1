package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/dbmetrics"
	"github.com/m04kA/counseling-booking-service/pkg/psqlbuilder"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

const (
	uniqueViolation     = "23505"
	activeUserIndexName = "uq_bookings_active_user"
)

var bookingColumns = []string{
	"b.id",
	"b.user_id",
	"b.consultant_id",
	"b.date",
	"b.start_time",
	"b.end_time",
	"b.status",
	"b.problem_type",
	"b.problem_description",
	"b.consultant_note",
	"b.cancel_reason",
	"b.completed_at",
	"b.created_at",
	"b.updated_at",
	"u.external_id",
	"u.name",
	"u.picture_url",
	"u.student_id",
	"u.faculty",
	"u.phone",
	"u.email",
	"c.name",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("users u ON u.id = b.user_id").
		LeftJoin("consultants c ON c.id = b.consultant_id")
}

// Create создает новое бронирование.
// Нарушение уникального индекса активных бронирований превращается в ErrActiveBookingExists.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"consultant_id",
			"date",
			"start_time",
			"end_time",
			"status",
			"problem_type",
			"problem_description",
		).
		Values(
			booking.UserID,
			booking.ConsultantID,
			types.FormatDate(booking.Date),
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.ProblemType,
			booking.ProblemDescription,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == activeUserIndexName {
			return nil, ErrActiveBookingExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.Date = types.NormalizeDate(booking.Date)
	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE OF b).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().Where(squirrel.Eq{"b.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetActiveByUserID возвращает CONFIRMED или ASSIGNED бронирование пользователя
func (r *Repository) GetActiveByUserID(ctx context.Context, userID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.user_id": userID}).
		Where(squirrel.Eq{"b.status": statusStrings(domain.ActiveStatuses)}).
		OrderBy("b.created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByUserID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List возвращает бронирования по фильтру, отсортированные по дате и времени начала
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings()

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.date": types.FormatDate(*filter.Date)})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.date": types.FormatDate(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.date": types.FormatDate(*filter.EndDate)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.user_id": *filter.UserID})
	}
	if filter.ConsultantID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.consultant_id": *filter.ConsultantID})
	}

	query, args, err := selectBuilder.OrderBy("b.date ASC", "b.start_time ASC", "b.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// LockSlot берёт транзакционную advisory-блокировку на слот (date, start, end).
// Вне транзакции ничего не делает: блокировка отпускается при commit/rollback.
func (r *Repository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	lockKey := fmt.Sprintf("slot|%s|%s|%s", types.FormatDate(key.Date), key.StartTime, key.EndTime)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey); err != nil {
		return fmt.Errorf("%w: LockSlot - advisory lock: %w", ErrExecQuery, err)
	}

	return nil
}

// CountBySlot количество неотменённых бронирований на слот
func (r *Repository) CountBySlot(ctx context.Context, key domain.SlotKey) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"date":       types.FormatDate(key.Date),
			"start_time": key.StartTime,
			"end_time":   key.EndTime,
		}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountsByDate занятость всех слотов дня: ключ "HH:MM-HH:MM" -> количество неотменённых бронирований
func (r *Repository) CountsByDate(ctx context.Context, date time.Time) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time", "end_time", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"date": types.FormatDate(date)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		GroupBy("start_time", "end_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountsByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			start, end types.TimeString
			count      int
		)
		if err := rows.Scan(&start, &end, &count); err != nil {
			return nil, fmt.Errorf("%w: CountsByDate - scan row: %w", ErrScanRow, err)
		}
		counts[domain.TimeRange(start, end)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountsByDate - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// Update сохраняет изменяемые поля бронирования (статус, консультант, заметки, слот)
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("consultant_id", booking.ConsultantID).
		Set("consultant_note", booking.ConsultantNote).
		Set("cancel_reason", booking.CancelReason).
		Set("completed_at", booking.CompletedAt).
		Set("date", types.FormatDate(booking.Date)).
		Set("start_time", booking.StartTime).
		Set("end_time", booking.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == activeUserIndexName {
			return ErrActiveBookingExists
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку selectBookings в доменную модель
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking        domain.Booking
		user           domain.User
		consultantName sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ConsultantID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.ProblemType,
		&booking.ProblemDescription,
		&booking.ConsultantNote,
		&booking.CancelReason,
		&booking.CompletedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&user.ExternalID,
		&user.Name,
		&user.PictureURL,
		&user.StudentID,
		&user.Faculty,
		&user.Phone,
		&user.Email,
		&consultantName,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = types.NormalizeDate(booking.Date)
	user.ID = booking.UserID
	booking.User = &user
	if booking.ConsultantID != nil && consultantName.Valid {
		booking.Consultant = &domain.Consultant{ID: *booking.ConsultantID, Name: consultantName.String}
	}

	return &booking, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
