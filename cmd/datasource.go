package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/counseling-booking-service/internal/config"
	bookingRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/booking"
	consultantRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/consultant"
	dayOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/dayoverride"
	"github.com/m04kA/counseling-booking-service/internal/infra/storage/memory"
	slotOverrideRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/slotoverride"
	userRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/user"
	workingHoursRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/workinghours"
	bookingsService "github.com/m04kA/counseling-booking-service/internal/service/bookings"
	consultantsService "github.com/m04kA/counseling-booking-service/internal/service/consultants"
	scheduleService "github.com/m04kA/counseling-booking-service/internal/service/schedule"
	slotsService "github.com/m04kA/counseling-booking-service/internal/service/slots"
	usersService "github.com/m04kA/counseling-booking-service/internal/service/users"
	createBookingUC "github.com/m04kA/counseling-booking-service/internal/usecase/create_booking"
	updateBookingUC "github.com/m04kA/counseling-booking-service/internal/usecase/update_booking"
	"github.com/m04kA/counseling-booking-service/pkg/dbmetrics"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
	"github.com/m04kA/counseling-booking-service/pkg/metrics"
	"github.com/m04kA/counseling-booking-service/pkg/txmanager"
)

// Каждое хранилище реализует объединение контрактов своих потребителей

type bookingStore interface {
	createBookingUC.BookingRepository
	updateBookingUC.BookingRepository
	bookingsService.BookingRepository
	slotsService.BookingCounter
}

type userStore interface {
	createBookingUC.UserRepository
	bookingsService.UserRepository
	usersService.UserRepository
}

type workingHoursStore interface {
	slotsService.WorkingHoursRepository
	scheduleService.WorkingHoursRepository
}

type dayOverrideStore interface {
	slotsService.DayOverrideRepository
	scheduleService.DayOverrideRepository
}

type slotOverrideStore interface {
	slotsService.SlotOverrideRepository
	scheduleService.SlotOverrideRepository
}

type consultantStore interface {
	updateBookingUC.ConsultantRepository
	consultantsService.ConsultantRepository
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// datasource набор репозиториев выбранного хранилища
type datasource struct {
	bookings      bookingStore
	users         userStore
	workingHours  workingHoursStore
	dayOverrides  dayOverrideStore
	slotOverrides slotOverrideStore
	consultants   consultantStore
	tx            txManager
	ping          pinger
	close         func() error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// openDatasource выбирает хранилище по datasource.kind
func openDatasource(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*datasource, error) {
	switch cfg.Datasource.Kind {
	case config.DatasourceMemory:
		return openMemory(ctx, cfg, log)
	default:
		return openPostgres(ctx, cfg, m, stopCh, log)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*datasource, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	return &datasource{
		bookings:      bookingRepo.NewRepository(wrappedDB),
		users:         userRepo.NewRepository(wrappedDB),
		workingHours:  workingHoursRepo.NewRepository(wrappedDB),
		dayOverrides:  dayOverrideRepo.NewRepository(wrappedDB),
		slotOverrides: slotOverrideRepo.NewRepository(wrappedDB),
		consultants:   consultantRepo.NewRepository(wrappedDB),
		tx:            txmanager.NewTransactionManager(wrappedDB),
		ping:          pingFunc(wrappedDB.PingContext),
		close:         db.Close,
	}, nil
}

func openMemory(ctx context.Context, cfg *config.Config, log *logger.Logger) (*datasource, error) {
	store := memory.NewStore()
	if cfg.Datasource.SeedFixtures {
		if err := store.Seed(ctx); err != nil {
			return nil, fmt.Errorf("seed fixtures: %w", err)
		}
		log.Info("In-memory datasource seeded with fixtures")
	}
	log.Warn("Using in-memory datasource: data is lost on restart")

	return &datasource{
		bookings:      store.Bookings(),
		users:         store.Users(),
		workingHours:  store.WorkingHours(),
		dayOverrides:  store.DayOverrides(),
		slotOverrides: store.SlotOverrides(),
		consultants:   store.Consultants(),
		tx:            store.TxManager(),
		ping:          store,
		close:         func() error { return nil },
	}, nil
}
