// Package sweeper переводит истёкшие подписки в неактивное состояние и
// уведомляет их владельцев.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/metrics"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Repository — операции хранилища, нужные для прогона.
type Repository interface {
	FindLapsedSubscriptions(ctx context.Context, now time.Time) ([]models.LapsedSubscription, error)
	ExpireSubscription(ctx context.Context, id string) (bool, error)
	MarkUserUnsubscribed(ctx context.Context, userID string) error
}

// Notifier отправляет уведомление об истечении подписки.
type Notifier interface {
	NotifySubscriptionExpired(ctx context.Context, sub models.LapsedSubscription) error
}

// EventPublisher публикует событие об истечении подписки в брокер.
type EventPublisher interface {
	PublishSubscriptionExpired(ctx context.Context, sub models.LapsedSubscription, expiredAt time.Time) error
}

// Metrics фиксирует результаты прогона.
type Metrics interface {
	RecordSweepRun(result string, duration time.Duration)
	RecordSubscriptionExpired()
	RecordSweepRecordFailure()
	RecordNotificationFailure()
}

// Report — итоги одного прогона.
type Report struct {
	Found        int // найдено истёкших активных подписок
	Expired      int // переведено в expired вместе с пользователем
	Skipped      int // уже обработаны параллельным прогоном
	Failed       int // ошибка хранилища на записи
	NotifyFailed int // уведомление не доставлено
}

// Sweeper находит истёкшие подписки и обрабатывает их по одной.
type Sweeper struct {
	repo          Repository
	notifier      Notifier
	events        EventPublisher
	metrics       Metrics
	notifyTimeout time.Duration
	now           func() time.Time
	log           *slog.Logger
}

// New создаёт Sweeper. notifyTimeout ограничивает каждое уведомление.
func New(repo Repository, notifier Notifier, log *slog.Logger, notifyTimeout time.Duration) *Sweeper {
	return &Sweeper{
		repo:          repo,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		now:           time.Now,
		log:           log,
	}
}

// WithEvents включает публикацию событий subscription.expired.
func (s *Sweeper) WithEvents(events EventPublisher) *Sweeper {
	s.events = events
	return s
}

// WithMetrics включает сбор метрик.
func (s *Sweeper) WithMetrics(m Metrics) *Sweeper {
	s.metrics = m
	return s
}

// Run выполняет один прогон. Ошибка возвращается только если не удалось
// получить список подписок; ошибки отдельных записей логируются и
// попадают в Report. Отмена ctx не прерывает уже начатый прогон.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	const op = "sweeper.Run"
	log := s.log.With(slog.String("op", op))
	ctx = context.WithoutCancel(ctx)

	start := s.now()
	lapsed, err := s.repo.FindLapsedSubscriptions(ctx, start)
	if err != nil {
		log.Error("failed to find lapsed subscriptions", sl.Err(err))
		s.recordRun(metrics.SweepResultFailed, start)
		return Report{}, err
	}

	report := Report{Found: len(lapsed)}
	if len(lapsed) == 0 {
		log.Info("no lapsed subscriptions found")
		s.recordRun(metrics.SweepResultOK, start)
		return report, nil
	}
	log.Info("found lapsed subscriptions", slog.Int("count", len(lapsed)))

	for _, sub := range lapsed {
		s.process(ctx, log, sub, &report)
	}

	log.Info("sweep finished",
		slog.Int("found", report.Found),
		slog.Int("expired", report.Expired),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Int("notify_failed", report.NotifyFailed),
	)
	s.recordRun(metrics.SweepResultOK, start)
	return report, nil
}

func (s *Sweeper) process(ctx context.Context, log *slog.Logger, sub models.LapsedSubscription, report *Report) {
	log = log.With(
		slog.String("subscription_id", sub.SubscriptionID),
		slog.String("user_id", sub.UserID),
	)

	flipped, err := s.repo.ExpireSubscription(ctx, sub.SubscriptionID)
	if err != nil {
		log.Error("failed to expire subscription", sl.Err(err))
		report.Failed++
		s.recordFailure()
		return
	}
	if !flipped {
		log.Debug("subscription already expired")
		report.Skipped++
		return
	}

	if err = s.repo.MarkUserUnsubscribed(ctx, sub.UserID); err != nil {
		// подписка уже неактивна и в следующий прогон не попадёт
		log.Error("subscription expired but user still flagged subscribed, needs manual fix",
			slog.String("email", sub.Email),
			sl.Err(err),
		)
		report.Failed++
		s.recordFailure()
		return
	}
	report.Expired++
	if s.metrics != nil {
		s.metrics.RecordSubscriptionExpired()
	}

	if s.events != nil {
		if err = s.events.PublishSubscriptionExpired(ctx, sub, s.now()); err != nil {
			log.Warn("failed to publish expired event", sl.Err(err))
		}
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	err = s.notifier.NotifySubscriptionExpired(notifyCtx, sub)
	cancel()
	if err != nil {
		log.Warn("failed to send expiry notification", sl.Err(err))
		report.NotifyFailed++
		if s.metrics != nil {
			s.metrics.RecordNotificationFailure()
		}
		return
	}
	log.Info("subscription expired")
}

func (s *Sweeper) recordRun(result string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSweepRun(result, s.now().Sub(start))
	}
}

func (s *Sweeper) recordFailure() {
	if s.metrics != nil {
		s.metrics.RecordSweepRecordFailure()
	}
}
