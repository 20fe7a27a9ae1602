package app

import (
	"context"
	"fmt"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/config"
	"github.com/VaInBlAt/appointment-bot/internal/repository"
	"github.com/VaInBlAt/appointment-bot/internal/repository/jsonrepo"
	"github.com/VaInBlAt/appointment-bot/internal/service"
	"github.com/VaInBlAt/appointment-bot/internal/storage"
	"github.com/VaInBlAt/appointment-bot/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Services сервисный слой, общий для всех обработчиков
type Services struct {
	Users        *service.UserService
	Schedules    *service.ScheduleService
	Availability *service.AvailabilityService
	Appointments *service.AppointmentService
	DayOffs      *service.DayOffService
}

// App собранное приложение: хранилище и сервисы поверх него
type App struct {
	Services *Services
	Now      func() time.Time

	pool   *pgxpool.Pool
	logger *zap.Logger
}

type repositories struct {
	users        service.UserRepository
	schedules    service.ScheduleRepository
	appointments service.AppointmentRepository
}

// New открывает хранилище, выбранное в конфиге, и собирает сервисы
func New(ctx context.Context, cfg *config.Config, notifier service.Notifier, logger *zap.Logger) (*App, error) {
	a := &App{
		Now:    cfg.Now,
		logger: logger,
	}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := OpenPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool

		if err := migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}

		repos = repositories{
			users:        repository.NewUserRepository(pool),
			schedules:    repository.NewScheduleRepository(pool),
			appointments: repository.NewAppointmentRepository(pool),
		}
	default:
		store, err := storage.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open json storage: %w", err)
		}
		repos = repositories{
			users:        jsonrepo.NewUserRepository(store),
			schedules:    jsonrepo.NewScheduleRepository(store),
			appointments: jsonrepo.NewAppointmentRepository(store),
		}
	}

	a.Services = NewServices(repos.users, repos.schedules, repos.appointments, notifier, a.Now, logger)

	logger.Info("✅ Application initialized",
		zap.String("storage", cfg.StorageDriver),
		zap.String("timezone", cfg.Location().String()))

	return a, nil
}

// NewServices связывает сервисы между собой. Записи и выходные одного врача
// сериализуются общим набором блокировок.
func NewServices(
	users service.UserRepository,
	schedules service.ScheduleRepository,
	appointments service.AppointmentRepository,
	notifier service.Notifier,
	now func() time.Time,
	logger *zap.Logger,
) *Services {
	locks := service.NewDoctorLocks()

	availability := service.NewAvailabilityService(schedules, appointments, users, now, logger.Named("availability"))
	appointmentService := service.NewAppointmentService(appointments, availability, locks, now, logger.Named("appointments"))

	return &Services{
		Users:        service.NewUserService(users, now, logger.Named("users")),
		Schedules:    service.NewScheduleService(schedules, logger.Named("schedules")),
		Availability: availability,
		Appointments: appointmentService,
		DayOffs:      service.NewDayOffService(users, appointmentService, notifier, locks, now, logger.Named("dayoffs")),
	}
}

// OpenPool подключается к PostgreSQL и проверяет соединение
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (err error) {
	migrator, err := NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, migrator.Close())
	}()
	return migrator.Run(ctx)
}

// Close закрывает пул соединений, если он был открыт
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.logger.Info("Database pool closed")
	}
}
