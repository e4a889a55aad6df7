package notification

import "time"

// TypeExpired — тип уведомления об истечении подписки.
const TypeExpired = "expired"

// SubscriptionNotification — тело запроса к сервису уведомлений.
type SubscriptionNotification struct {
	To   string                  `json:"to"`
	Type string                  `json:"type"`
	Data SubscriptionExpiredData `json:"data"`
}

// SubscriptionExpiredData — данные уведомления об истечении подписки.
type SubscriptionExpiredData struct {
	SubscriptionID string    `json:"subscriptionId"`
	EndDate        time.Time `json:"endDate"`
}
