package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// Store in-memory datasource. Реализует те же контракты, что и Postgres-репозитории,
// и выбирается один раз при старте по конфигурации.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	nextID int64
	now    func() time.Time

	users         map[int64]*domain.User
	consultants   map[int64]*domain.Consultant
	rules         map[int]*domain.WorkingHoursRule
	dayOverrides  map[time.Time]*domain.DayOverride
	slotOverrides map[int64]*domain.SlotOverride
	bookings      map[int64]*domain.Booking
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[int64]*domain.User),
		consultants:   make(map[int64]*domain.Consultant),
		rules:         make(map[int]*domain.WorkingHoursRule),
		dayOverrides:  make(map[time.Time]*domain.DayOverride),
		slotOverrides: make(map[int64]*domain.SlotOverride),
		bookings:      make(map[int64]*domain.Booking),
	}
}

// Ping всегда успешен
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// WorkingHours репозиторий недельного расписания
func (s *Store) WorkingHours() *WorkingHoursRepository {
	return &WorkingHoursRepository{s: s}
}

// DayOverrides репозиторий переопределений дня
func (s *Store) DayOverrides() *DayOverrideRepository {
	return &DayOverrideRepository{s: s}
}

// SlotOverrides репозиторий переопределений слотов
func (s *Store) SlotOverrides() *SlotOverrideRepository {
	return &SlotOverrideRepository{s: s}
}

// Users репозиторий пользователей
func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

// Consultants репозиторий консультантов
func (s *Store) Consultants() *ConsultantRepository {
	return &ConsultantRepository{s: s}
}

// TxManager менеджер "транзакций" хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// id выдаёт следующий идентификатор; вызывается под s.mu
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

type txKey struct{}

// TxManager сериализует транзакционные секции общим мьютексом.
// Отката нет: usecase'ы выполняют запись последним шагом.
type TxManager struct {
	s *Store
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
