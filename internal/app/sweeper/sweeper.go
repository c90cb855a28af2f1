// Package sweeper собирает фоновое приложение: окончательное удаление
// просроченных мягко удалённых задач и публикацию напоминаний о задачах
// с приближающимся сроком.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/task-tracker/internal/config"
	"github.com/magabrotheeeer/task-tracker/internal/lib/rabbitmq"
	notifierservice "github.com/magabrotheeeer/task-tracker/internal/services/notifier"
	sweeperservice "github.com/magabrotheeeer/task-tracker/internal/services/sweeper"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// App представляет приложение фоновой очистки.
type App struct {
	sweeperService  *sweeperservice.SweeperService
	notifierService *notifierservice.NotifierService
	cfg             *config.Config
	db              *storage.Storage
	conn            *amqp.Connection
	ch              *amqp.Channel
	logger          *slog.Logger
}

func waitForDB(db *storage.Storage) error {
	for range 10 {
		err := storage.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения фоновой очистки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	return &App{
		sweeperService:  sweeperservice.NewSweeperService(db, logger, cfg.Retention),
		notifierService: notifierservice.NewNotifierService(db, logger),
		cfg:             cfg,
		db:              db,
		conn:            conn,
		ch:              ch,
		logger:          logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает очистку и напоминания до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.sweeperService.Run(ctx, a.cfg.SweepInterval)
	go a.notifierService.Run(ctx, a.ch, a.cfg.NotifyInterval)

	<-ctx.Done()

	a.logger.Info("shutting down sweeper service")

	closeResources(a.ch, a.conn, a.logger)

	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}

	return nil
}
