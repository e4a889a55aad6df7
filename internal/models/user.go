// Package models содержит доменные структуры сервиса хранения: пользователей,
// внешние аккаунты, подписки, запросы на смету, профессиональные профили
// и анализы документов, а также доменные ошибки.
package models

import "time"

// User представляет учётную запись пользователя.
//
// Email хранится в исходном регистре, NormalizedEmail — каноничный ключ
// для сравнения (уникален). Пароль может отсутствовать у пользователей,
// вошедших только через OAuth.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	NormalizedEmail     string     `json:"normalizedEmail"`
	PasswordHash        *string    `json:"password,omitempty"`
	OAuthProvider       *string    `json:"oauthProvider,omitempty"`
	OAuthProviderID     *string    `json:"oauthProviderId,omitempty"`
	IsAdmin             bool       `json:"isAdmin"`
	IsVerified          bool       `json:"isVerified"`
	VerificationToken   *string    `json:"verificationToken,omitempty"`
	ResetToken          *string    `json:"resetToken,omitempty"`
	ResetTokenExpiry    *time.Time `json:"resetTokenExpiry,omitempty"`
	IsSubscribed        bool       `json:"isSubscribed"`
	SubscriptionID      *string    `json:"subscriptionId"`
	NumSubscriptionID   *string    `json:"numSubscriptionId"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate"`
	Sector              *string    `json:"sector"`
	IsProfileCompleted  bool       `json:"isProfileCompleted"`
	Accounts            []Account  `json:"accounts,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// HasPassword сообщает, задан ли у пользователя пароль.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsClassic сообщает, что аккаунт создан через регистрацию по паролю,
// а не через OAuth-провайдера.
func (u *User) IsClassic() bool {
	return u.HasPassword() && (u.OAuthProvider == nil || *u.OAuthProvider == "")
}

// WithoutPassword возвращает копию пользователя без хэша пароля.
func (u User) WithoutPassword() User {
	u.PasswordHash = nil
	return u
}

// SubscriptionState — поля пользователя, которые меняет биллинг.
// Nil означает "не менять".
type SubscriptionState struct {
	IsSubscribed        *bool
	SubscriptionID      *string
	NumSubscriptionID   *string
	SubscriptionEndDate *time.Time
}

// WithoutSecrets возвращает копию пользователя без хэша пароля и токенов.
func (u User) WithoutSecrets() User {
	u.PasswordHash = nil
	u.VerificationToken = nil
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return u
}
