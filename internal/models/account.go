package models

import "time"

// Account — внешний аккаунт (пара provider/providerAccountID), привязанный
// ровно к одному пользователю. Пара уникальна глобально.
type Account struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Provider          string    `json:"provider"`
	ProviderAccountID string    `json:"providerAccountId"`
	CreatedAt         time.Time `json:"createdAt"`
}

// OAuthIdentity — данные, которые auth-service получил от OAuth-провайдера.
type OAuthIdentity struct {
	Name              string
	Provider          string
	ProviderAccountID string
	Email             string
}
