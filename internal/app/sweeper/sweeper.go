// Package sweeper собирает разовый прогон проверки истёкших подписок
// для запуска из cron или вручную.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bdd-service/internal/config"
	"github.com/magabrotheeeer/bdd-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/notification"
	sweeperservice "github.com/magabrotheeeer/bdd-service/internal/services/sweeper"
	"github.com/magabrotheeeer/bdd-service/internal/storage/repository"
)

// App представляет разовый прогон.
type App struct {
	sweeper   *sweeperservice.Sweeper
	db        *repository.Storage
	publisher *rabbitmq.Publisher
	logger    *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	var notifier sweeperservice.Notifier = notification.Disabled{}
	if cfg.NotificationsEnabled() {
		notifier = notification.NewClient(cfg.NotificationURL, cfg.NotificationTimeout)
	}
	sw := sweeperservice.New(db, notifier, logger, cfg.NotificationTimeout)

	var publisher *rabbitmq.Publisher
	if cfg.EventsEnabled() {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQRetries, 2*time.Second)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		publisher, err = rabbitmq.NewPublisher(conn)
		if err != nil {
			_ = conn.Close()
			_ = db.Close()
			return nil, fmt.Errorf("failed to setup RabbitMQ publisher: %w", err)
		}
		sw = sw.WithEvents(publisher)
	}

	return &App{
		sweeper:   sw,
		db:        db,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// Run выполняет один прогон и закрывает ресурсы.
func (a *App) Run(ctx context.Context) (sweeperservice.Report, error) {
	defer a.close()
	return a.sweeper.Run(ctx)
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq publisher", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
