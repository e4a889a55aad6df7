// Package auth содержит регистрацию, вход по паролю и упрощённый OAuth-вход,
// которые вызывает внешний auth-service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bdd-service/internal/lib/email"
	"github.com/magabrotheeeer/bdd-service/internal/lib/password"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByNormalizedEmail возвращает пользователя по нормализованному email.
	GetUserByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error)
	// SetUserOAuthProvider обновляет провайдера OAuth у пользователя.
	SetUserOAuthProvider(ctx context.Context, id, provider, providerID string) (*models.User, error)
}

// OAuthLogin — данные OAuth-входа от auth-service.
type OAuthLogin struct {
	Name            string
	Email           string
	OAuthProvider   string
	OAuthProviderID string
}

// Service отвечает за регистрацию и вход пользователей.
type Service struct {
	users UserRepository
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, log *slog.Logger) *Service {
	return &Service{
		users: users,
		log:   log,
	}
}

// Register создает пользователя с bcrypt-хэшем пароля.
// Занятый нормализованный email возвращает models.ErrConflict.
func (s *Service) Register(ctx context.Context, name, rawEmail, rawPassword string) (*models.User, error) {
	const op = "auth.Register"

	rawEmail = strings.TrimSpace(rawEmail)
	normalized := email.Normalize(rawEmail)
	_, err := s.users.GetUserByNormalizedEmail(ctx, normalized)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w: email already in use", op, models.ErrConflict)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:            name,
		Email:           rawEmail,
		NormalizedEmail: normalized,
		PasswordHash:    &hashed,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("user_id", user.ID))
	u := user.WithoutPassword()
	return &u, nil
}

// Login проверяет пароль пользователя.
// Неизвестный email, пользователь без пароля (только OAuth) и неверный
// пароль одинаково возвращают models.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, rawEmail, rawPassword string) (*models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByNormalizedEmail(ctx, email.Normalize(rawEmail))
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w: invalid email or password", op, models.ErrUnauthorized)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.HasPassword() {
		return nil, fmt.Errorf("%s: %w: account uses oauth login", op, models.ErrUnauthorized)
	}
	if err = password.CompareHash(*user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w: invalid email or password", op, models.ErrUnauthorized)
	}
	u := user.WithoutPassword()
	return &u, nil
}

// OAuthLogin выполняет строгий OAuth-вход по нормализованному email.
//
// Пользователь с паролем и без OAuth-провайдера ("классический") даёт
// models.ErrConflict: такой аккаунт не захватывается через OAuth. Остальные
// найденные пользователи получают нового провайдера на месте, иначе
// создаётся новый пользователь.
func (s *Service) OAuthLogin(ctx context.Context, in OAuthLogin) (*models.User, error) {
	const op = "auth.OAuthLogin"

	in.Email = strings.TrimSpace(in.Email)
	normalized := email.Normalize(in.Email)
	if in.Name == "" || normalized == "" || in.OAuthProvider == "" || in.OAuthProviderID == "" {
		return nil, fmt.Errorf("%s: %w: incomplete oauth information", op, models.ErrValidation)
	}

	existing, err := s.users.GetUserByNormalizedEmail(ctx, normalized)
	switch {
	case err == nil:
		if existing.IsClassic() {
			return nil, fmt.Errorf("%s: %w: email is used by a password account, log in with the password", op, models.ErrConflict)
		}
		user, err := s.users.SetUserOAuthProvider(ctx, existing.ID, in.OAuthProvider, in.OAuthProviderID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("oauth user updated", slog.String("user_id", user.ID))
		u := user.WithoutPassword()
		return &u, nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Name:            in.Name,
		Email:           in.Email,
		NormalizedEmail: normalized,
		OAuthProvider:   &in.OAuthProvider,
		OAuthProviderID: &in.OAuthProviderID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("oauth user created", slog.String("user_id", user.ID))
	u := user.WithoutPassword()
	return &u, nil
}
