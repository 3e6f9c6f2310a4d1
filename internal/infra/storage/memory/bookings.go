package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/booking"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// BookingRepository in-memory аналог booking.Repository
type BookingRepository struct {
	s *Store
}

// Create сохраняет бронирование. Как и частичный уникальный индекс в Postgres,
// отказывает второму активному бронированию пользователя.
func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if booking.Status.IsActive() && r.hasOtherActive(booking.UserID, 0) {
		return nil, bookingRepo.ErrActiveBookingExists
	}

	now := r.s.now()
	stored := *booking
	stored.ID = r.s.id()
	stored.Date = types.NormalizeDate(booking.Date)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.User = nil
	stored.Consultant = nil
	r.s.bookings[stored.ID] = &stored

	return r.withRelations(&stored), nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return r.withRelations(b), nil
}

func (r *BookingRepository) GetActiveByUserID(_ context.Context, userID int64) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.bookings {
		if b.UserID == userID && b.IsActive() {
			return r.withRelations(b), nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *BookingRepository) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if matches(b, filter) {
			result = append(result, r.withRelations(b))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.ID < b.ID
	})

	return result, nil
}

// LockSlot не нужен: транзакционные секции уже сериализованы TxManager
func (r *BookingRepository) LockSlot(_ context.Context, _ domain.SlotKey) error {
	return nil
}

func (r *BookingRepository) CountBySlot(_ context.Context, key domain.SlotKey) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	date := types.NormalizeDate(key.Date)
	count := 0
	for _, b := range r.s.bookings {
		if b.OccupiesSlot() && b.Date.Equal(date) && b.StartTime == key.StartTime && b.EndTime == key.EndTime {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) CountsByDate(_ context.Context, date time.Time) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	day := types.NormalizeDate(date)
	counts := make(map[string]int)
	for _, b := range r.s.bookings {
		if b.OccupiesSlot() && b.Date.Equal(day) {
			counts[domain.TimeRange(b.StartTime, b.EndTime)]++
		}
	}
	return counts, nil
}

func (r *BookingRepository) Update(_ context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if booking.Status.IsActive() && r.hasOtherActive(booking.UserID, booking.ID) {
		return bookingRepo.ErrActiveBookingExists
	}

	stored.Status = booking.Status
	stored.ConsultantID = booking.ConsultantID
	stored.ConsultantNote = booking.ConsultantNote
	stored.CancelReason = booking.CancelReason
	stored.CompletedAt = booking.CompletedAt
	stored.Date = types.NormalizeDate(booking.Date)
	stored.StartTime = booking.StartTime
	stored.EndTime = booking.EndTime
	stored.UpdatedAt = r.s.now()

	booking.UpdatedAt = stored.UpdatedAt
	return nil
}

// hasOtherActive вызывается под s.mu
func (r *BookingRepository) hasOtherActive(userID, exceptID int64) bool {
	for _, b := range r.s.bookings {
		if b.UserID == userID && b.ID != exceptID && b.IsActive() {
			return true
		}
	}
	return false
}

// withRelations копия бронирования с пользователем и консультантом; вызывается под s.mu
func (r *BookingRepository) withRelations(b *domain.Booking) *domain.Booking {
	out := *b
	if u, ok := r.s.users[b.UserID]; ok {
		user := *u
		out.User = &user
	}
	if b.ConsultantID != nil {
		if c, ok := r.s.consultants[*b.ConsultantID]; ok {
			out.Consultant = &domain.Consultant{ID: c.ID, Name: c.Name}
		}
	}
	return &out
}

func matches(b *domain.Booking, f domain.BookingsFilter) bool {
	if f.Date != nil && !b.Date.Equal(types.NormalizeDate(*f.Date)) {
		return false
	}
	if f.StartDate != nil && b.Date.Before(types.NormalizeDate(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && b.Date.After(types.NormalizeDate(*f.EndDate)) {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.ConsultantID != nil && (b.ConsultantID == nil || *b.ConsultantID != *f.ConsultantID) {
		return false
	}
	return true
}
