package bddservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bdd-service/internal/config"
	customjwt "github.com/magabrotheeeer/bdd-service/internal/lib/jwt"
	"github.com/magabrotheeeer/bdd-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/metrics"
	"github.com/magabrotheeeer/bdd-service/internal/migrations"
	"github.com/magabrotheeeer/bdd-service/internal/notification"
	analysisservice "github.com/magabrotheeeer/bdd-service/internal/services/analysis"
	authservice "github.com/magabrotheeeer/bdd-service/internal/services/auth"
	"github.com/magabrotheeeer/bdd-service/internal/services/identity"
	profileservice "github.com/magabrotheeeer/bdd-service/internal/services/profile"
	quoteservice "github.com/magabrotheeeer/bdd-service/internal/services/quote"
	"github.com/magabrotheeeer/bdd-service/internal/services/scheduler"
	subscriptionservice "github.com/magabrotheeeer/bdd-service/internal/services/subscription"
	"github.com/magabrotheeeer/bdd-service/internal/services/sweeper"
	userservice "github.com/magabrotheeeer/bdd-service/internal/services/users"
	"github.com/magabrotheeeer/bdd-service/internal/storage/repository"
)

const (
	dbConnectAttempts = 10
	dbConnectDelay    = 2 * time.Second
	rabbitRetryDelay  = 2 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// App — HTTP-сервер и планировщик bdd-service.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	scheduler *scheduler.Scheduler
	publisher *rabbitmq.Publisher
}

// New открывает хранилище, применяет миграции и собирает сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.NewWithRetry(ctx, cfg.StorageConnectionString, dbConnectAttempts, dbConnectDelay)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("connected to the database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	var notifier sweeper.Notifier = notification.Disabled{}
	if cfg.NotificationsEnabled() {
		notifier = notification.NewClient(cfg.NotificationURL, cfg.NotificationTimeout)
	} else {
		logger.Warn("notification service url is not set, expiry notifications are disabled")
	}

	sw := sweeper.New(db, notifier, logger, cfg.NotificationTimeout).WithMetrics(collector)

	var publisher *rabbitmq.Publisher
	if cfg.EventsEnabled() {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQRetries, rabbitRetryDelay)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		publisher, err = rabbitmq.NewPublisher(conn)
		if err != nil {
			_ = conn.Close()
			_ = db.Close()
			return nil, err
		}
		sw = sw.WithEvents(publisher)
	}

	sched, err := scheduler.New(logger, cfg.RunAt, cfg.Timezone, cfg.RunOnStart)
	if err != nil {
		closePublisher(publisher, logger)
		_ = db.Close()
		return nil, err
	}
	sched.Register(scheduler.Task{
		Name: "subscription-expiry",
		Run: func(ctx context.Context) error {
			_, err := sw.Run(ctx)
			return err
		},
	})

	svc := Services{
		Users:         userservice.New(db, logger),
		Auth:          authservice.NewService(db, logger),
		Identity:      identity.NewResolver(db, collector, logger),
		Subscriptions: subscriptionservice.New(db, logger),
		Quotes:        quoteservice.New(db, logger),
		Profiles:      profileservice.New(db, logger),
		Analyses:      analysisservice.New(db, logger),
		DB:            db,
	}
	infra := Infra{
		Tokens:   customjwt.NewJWTMaker(cfg.ServiceSecretKey, cfg.TokenTTL),
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		Metrics:  collector,
		Gatherer: reg,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, svc, infra)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		scheduler: sched,
		publisher: publisher,
	}, nil
}

// Run запускает HTTP-сервер и планировщик до отмены ctx.
// Начатая проверка подписок дорабатывает до конца перед закрытием хранилища.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		a.scheduler.Start(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		a.logger.Info("shutting down HTTP server gracefully")
		runErr = a.server.Shutdown(timeoutCtx)
	}

	cancel()
	<-schedDone
	closePublisher(a.publisher, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	return runErr
}

func closePublisher(p *rabbitmq.Publisher, logger *slog.Logger) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Error("failed to close rabbitmq publisher", sl.Err(err))
	}
}
