package rabbitmq

// Топология событий подписок.
const (
	ExchangeSubscriptions = "subscriptions"
	RoutingKeyExpired     = "subscription.expired"
)

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetSubscriptionQueues возвращает очереди, которые объявляет bdd-service.
func GetSubscriptionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscription.expired", RoutingKey: RoutingKeyExpired},
	}
}
