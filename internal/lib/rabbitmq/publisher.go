package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscriptionExpiredEvent — событие об истечении подписки.
type SubscriptionExpiredEvent struct {
	SubscriptionID string    `json:"subscriptionId"`
	UserID         string    `json:"userId"`
	Email          string    `json:"email"`
	EndDate        time.Time `json:"endDate"`
	ExpiredAt      time.Time `json:"expiredAt"`
}

// Publisher публикует события подписок в обменник subscriptions.
// amqp.Channel не предназначен для конкурентной публикации, поэтому вызовы сериализуются.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher объявляет топологию и возвращает готовый Publisher.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"
	ch, err := SetupChannel(conn, ExchangeSubscriptions, GetSubscriptionQueues())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishSubscriptionExpired публикует событие subscription.expired.
func (p *Publisher) PublishSubscriptionExpired(ctx context.Context, sub models.LapsedSubscription, expiredAt time.Time) error {
	const op = "rabbitmq.PublishSubscriptionExpired"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return PublishMessage(p.ch, ExchangeSubscriptions, RoutingKeyExpired, SubscriptionExpiredEvent{
		SubscriptionID: sub.SubscriptionID,
		UserID:         sub.UserID,
		Email:          sub.Email,
		EndDate:        sub.EndDate,
		ExpiredAt:      expiredAt,
	})
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
