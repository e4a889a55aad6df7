// Package metrics собирает метрики сервиса в Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты прогона планировщика.
const (
	SweepResultOK     = "ok"
	SweepResultFailed = "failed"
)

// Collector хранит метрики Prometheus сервиса.
type Collector struct {
	sweepRuns            *prometheus.CounterVec
	sweepDuration        prometheus.Histogram
	subscriptionsExpired prometheus.Counter
	sweepRecordFailures  prometheus.Counter
	notificationFailures prometheus.Counter
	identityOutcomes     *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bdd_sweep_runs_total",
			Help: "Количество прогонов проверки истёкших подписок по результату",
		}, []string{"result"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bdd_sweep_duration_seconds",
			Help:    "Длительность прогона проверки истёкших подписок",
			Buckets: prometheus.DefBuckets,
		}),
		subscriptionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bdd_subscriptions_expired_total",
			Help: "Количество подписок, переведённых в expired",
		}),
		sweepRecordFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bdd_sweep_record_failures_total",
			Help: "Количество подписок, которые не удалось обработать из-за ошибки хранилища",
		}),
		notificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bdd_notification_failures_total",
			Help: "Количество неудачных отправок уведомлений",
		}),
		identityOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bdd_oauth_identity_outcomes_total",
			Help: "Результаты разрешения OAuth-личности",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bdd_http_requests_total",
			Help: "Количество HTTP-запросов по коду ответа",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.sweepRuns,
		c.sweepDuration,
		c.subscriptionsExpired,
		c.sweepRecordFailures,
		c.notificationFailures,
		c.identityOutcomes,
		c.httpRequests,
	)

	return c
}

// RecordSweepRun фиксирует завершённый прогон и его длительность.
func (c *Collector) RecordSweepRun(result string, duration time.Duration) {
	c.sweepRuns.WithLabelValues(result).Inc()
	c.sweepDuration.Observe(duration.Seconds())
}

// RecordSubscriptionExpired увеличивает счётчик истёкших подписок.
func (c *Collector) RecordSubscriptionExpired() {
	c.subscriptionsExpired.Inc()
}

// RecordSweepRecordFailure увеличивает счётчик необработанных подписок.
func (c *Collector) RecordSweepRecordFailure() {
	c.sweepRecordFailures.Inc()
}

// RecordNotificationFailure увеличивает счётчик неудачных уведомлений.
func (c *Collector) RecordNotificationFailure() {
	c.notificationFailures.Inc()
}

// RecordIdentityOutcome фиксирует результат OAuth-входа.
func (c *Collector) RecordIdentityOutcome(outcome string) {
	c.identityOutcomes.WithLabelValues(outcome).Inc()
}

// RecordHTTPStatus фиксирует код ответа HTTP.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler возвращает HTTP-обработчик для сбора метрик Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
