// Package users содержит операции над учётными записями, которые вызывают
// соседние сервисы (auth-service, биллинг).
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bdd-service/internal/lib/email"
	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sanitize"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Repository описывает контракт хранилища пользователей.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByEmail(ctx context.Context, email string) ([]models.User, error)
	GetUserWithAccounts(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, set patch.Set) (*models.User, error)
	UpdateUserByNormalizedEmail(ctx context.Context, normalizedEmail string, set patch.Set) (*models.User, error)
}

// UpdateFields — поля пользователя, которые можно менять через PUT /users/{id}.
// is_admin сюда не входит.
var UpdateFields = patch.Fields{
	"name":               patch.String("name").Clean(sanitize.Text),
	"email":              patch.String("email"),
	"password":           patch.NullableString("password_hash"),
	"isVerified":         patch.Bool("is_verified"),
	"verificationToken":  patch.NullableString("verification_token"),
	"resetToken":         patch.NullableString("reset_token"),
	"resetTokenExpiry":   patch.NullableTime("reset_token_expiry"),
	"sector":             patch.NullableString("sector"),
	"isProfileCompleted": patch.Bool("is_profile_completed"),
}

// SubscriptionFields — поля, которые биллинг меняет через PUT /users/subscription/{email}.
var SubscriptionFields = patch.Fields{
	"isSubscribed":        patch.Bool("is_subscribed"),
	"subscriptionId":      patch.NullableString("subscription_id"),
	"subscriptionEndDate": patch.NullableTime("subscription_end_date"),
}

// CreateUser — данные для создания пользователя. Password — уже посчитанный хэш.
type CreateUser struct {
	Name              string
	Email             string
	Password          *string
	OAuthProvider     *string
	OAuthProviderID   *string
	IsVerified        bool
	VerificationToken *string
	Sector            *string
}

// Service реализует операции над пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает всех пользователей без секретов.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	const op = "users.List"

	list, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range list {
		list[i] = list[i].WithoutSecrets()
	}
	return list, nil
}

// ByEmail ищет пользователей с точным (регистрозависимым) совпадением email.
// Хэш пароля остаётся только для доверенного вызывающего сервиса.
func (s *Service) ByEmail(ctx context.Context, rawEmail string, trusted bool) ([]models.User, error) {
	const op = "users.ByEmail"

	if rawEmail == "" {
		return nil, fmt.Errorf("%s: %w: email is required", op, models.ErrValidation)
	}
	list, err := s.repo.ListUsersByEmail(ctx, rawEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: %w: user not found", op, models.ErrNotFound)
	}
	if !trusted {
		for i := range list {
			list[i] = list[i].WithoutPassword()
		}
	}
	return list, nil
}

// Get возвращает пользователя вместе с привязанными аккаунтами.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	const op = "users.Get"

	user, err := s.repo.GetUserWithAccounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u := user.WithoutPassword()
	return &u, nil
}

// Create сохраняет пользователя, вычисляя нормализованный email.
func (s *Service) Create(ctx context.Context, in CreateUser) (*models.User, error) {
	const op = "users.Create"

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return nil, fmt.Errorf("%s: %w: email is required", op, models.ErrValidation)
	}
	user, err := s.repo.CreateUser(ctx, models.User{
		Name:              sanitize.Text(in.Name),
		Email:             in.Email,
		NormalizedEmail:   email.Normalize(in.Email),
		PasswordHash:      in.Password,
		OAuthProvider:     in.OAuthProvider,
		OAuthProviderID:   in.OAuthProviderID,
		IsVerified:        in.IsVerified,
		VerificationToken: in.VerificationToken,
		Sector:            in.Sector,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", slog.String("user_id", user.ID))
	u := user.WithoutSecrets()
	return &u, nil
}

// Update применяет разрешённые изменения. Смена email пересчитывает
// нормализованный email, пустой email отклоняется.
func (s *Service) Update(ctx context.Context, id string, set patch.Set) (*models.User, error) {
	const op = "users.Update"

	if v, ok := set.Get("email"); ok {
		raw, _ := v.(string)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, fmt.Errorf("%s: %w: email cannot be empty", op, models.ErrValidation)
		}
		set.Add("email", raw)
		set.Add("normalized_email", email.Normalize(raw))
	}
	user, err := s.repo.UpdateUser(ctx, id, set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u := user.WithoutSecrets()
	return &u, nil
}

// UpdateSubscription меняет поля подписки пользователя, найденного по email.
func (s *Service) UpdateSubscription(ctx context.Context, rawEmail string, set patch.Set) (*models.User, error) {
	const op = "users.UpdateSubscription"

	normalized := email.Normalize(rawEmail)
	if normalized == "" {
		return nil, fmt.Errorf("%s: %w: email is required", op, models.ErrValidation)
	}
	user, err := s.repo.UpdateUserByNormalizedEmail(ctx, normalized, set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u := user.WithoutSecrets()
	return &u, nil
}
