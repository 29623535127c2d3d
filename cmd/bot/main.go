package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/campusroom_bot/internal/app"
	"github.com/Freeeeeet/campusroom_bot/internal/cache"
	"github.com/Freeeeeet/campusroom_bot/internal/config"
	"github.com/Freeeeeet/campusroom_bot/internal/controller"
	"github.com/Freeeeeet/campusroom_bot/internal/notify"
	"github.com/Freeeeeet/campusroom_bot/internal/repository"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc := cfg.Location()

	logger.Info("Starting campus room bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", loc.String()),
		zap.Int("token_length", len(cfg.TelegramToken)))

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	snapshots := connectSnapshots(ctx, cfg, logger)

	publisher, closePublisher := connectPublisher(cfg, logger)
	defer closePublisher()

	engine := timetable.New(
		timetable.WithReporter(timetable.NewZapReporter(logger)),
		timetable.WithLocation(loc),
	)

	userRepo := repository.NewUserRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	timetableRepo := repository.NewTimetableRepository(pool)

	userService := service.NewUserService(userRepo, logger)
	timetableService := service.NewTimetableService(timetableRepo, snapshots, engine, cfg.FetchTimeout, logger)
	reservationService := service.NewReservationService(
		roomRepo,
		bookingRepo,
		timetableRepo,
		snapshots,
		publisher,
		engine,
		logger,
		service.WithFetchTimeout(cfg.FetchTimeout),
		service.WithLocation(loc),
	)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	var scheduler *app.Scheduler
	botController := controller.NewBotController(
		botInstance,
		userService,
		reservationService,
		timetableService,
		snapshots,
		loc,
		func(ctx context.Context) (service.AutoRejectResult, error) {
			return scheduler.RunOnce(ctx)
		},
		logger,
	)
	scheduler = app.NewScheduler(reservationService, cfg.AutoRejectInterval, botController.ReportAutoReject, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	return botController.Start(ctx)
}

// connectSnapshots подключает Redis. Без REDIS_ADDR или при недоступном
// сервере снимки отключаются, бот продолжает работать без них.
func connectSnapshots(ctx context.Context, cfg *config.Config, logger *zap.Logger) *cache.Snapshots {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR is not set, snapshot cache disabled")
		return cache.Disabled()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis, snapshot cache disabled", zap.Error(err))
		client.Close()
		return cache.Disabled()
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return cache.New(client, cfg.SnapshotTTL)
}

// connectPublisher подключает RabbitMQ для событий о бронях
func connectPublisher(cfg *config.Config, logger *zap.Logger) (notify.Publisher, func()) {
	if cfg.AMQPURL == "" {
		logger.Warn("AMQP_URL is not set, reservation events are not published")
		return notify.NopPublisher{}, func() {}
	}

	publisher, err := notify.DialAMQP(cfg.AMQPURL, cfg.EventsExchange, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, reservation events are not published", zap.Error(err))
		return notify.NopPublisher{}, func() {}
	}

	logger.Info("Connected to RabbitMQ", zap.String("exchange", cfg.EventsExchange))
	return publisher, func() {
		if err := publisher.Close(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Failed to close RabbitMQ connection", zap.Error(err))
		}
	}
}
