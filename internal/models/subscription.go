package models

import "time"

// Статусы подписки.
const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
)

// Subscription — подписка пользователя. Создаётся при первом событии биллинга,
// обновляется на месте при продлении и переводится в expired планировщиком.
type Subscription struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	StripeSubscriptionID *string   `json:"stripeSubscriptionId"`
	StripeCustomerID     *string   `json:"stripeCustomerId"`
	PlanID               *string   `json:"planId"`
	Status               string    `json:"status"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	User                 *User     `json:"user,omitempty"`
}

// LapsedSubscription — подписка с прошедшей датой окончания, всё ещё
// помеченная активной, вместе с контактом владельца.
type LapsedSubscription struct {
	SubscriptionID string
	UserID         string
	Email          string
	EndDate        time.Time
}
