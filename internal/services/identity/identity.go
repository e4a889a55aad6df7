// Package identity сопоставляет OAuth-личность, полученную от провайдера,
// с пользователем хранилища: вход, привязка аккаунта или создание пользователя.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bdd-service/internal/lib/email"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Outcome — каким шагом завершилось разрешение личности.
type Outcome string

// Возможные исходы ResolveOAuthIdentity.
const (
	LoggedIn Outcome = "logged_in"
	Linked   Outcome = "linked"
	Created  Outcome = "created"
)

// Resolution — результат разрешения личности.
type Resolution struct {
	User    *models.User
	Outcome Outcome
}

// Created сообщает, что пользователь был создан.
func (r *Resolution) Created() bool { return r.Outcome == Created }

// Linked сообщает, что к существующему пользователю привязан новый аккаунт.
func (r *Resolution) Linked() bool { return r.Outcome == Linked }

// Repository — операции хранилища, нужные резолверу.
type Repository interface {
	GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error)
	CreateAccount(ctx context.Context, account models.Account) (*models.Account, error)
	CreateUserWithAccount(ctx context.Context, user models.User, account models.Account) (*models.User, error)
}

// Metrics фиксирует исходы разрешения.
type Metrics interface {
	RecordIdentityOutcome(outcome string)
}

// Resolver разрешает OAuth-личности.
type Resolver struct {
	repo    Repository
	metrics Metrics
	log     *slog.Logger
}

// NewResolver создаёт Resolver. metrics может быть nil.
func NewResolver(repo Repository, metrics Metrics, log *slog.Logger) *Resolver {
	return &Resolver{
		repo:    repo,
		metrics: metrics,
		log:     log,
	}
}

// ResolveOAuthIdentity находит или создаёт пользователя для OAuth-личности.
//
// Шаги выполняются строго по порядку, без общей транзакции:
//  1. аккаунт с точной парой provider/providerAccountID -> его владелец (LoggedIn);
//  2. пользователь с тем же нормализованным email -> привязка нового аккаунта (Linked),
//     сам пользователь не изменяется;
//  3. иначе создаются пользователь (is_verified = true) и аккаунт одной операцией (Created).
//
// Пустые email, provider или providerAccountID дают models.ErrValidation без
// обращения к хранилищу. Гонка на уникальной паре provider/providerAccountID
// возвращается как models.ErrConflict.
func (r *Resolver) ResolveOAuthIdentity(ctx context.Context, id models.OAuthIdentity) (*Resolution, error) {
	const op = "identity.ResolveOAuthIdentity"

	id.Email = strings.TrimSpace(id.Email)
	normalized := email.Normalize(id.Email)
	switch {
	case normalized == "":
		return nil, fmt.Errorf("%s: %w: email is required", op, models.ErrValidation)
	case id.Provider == "":
		return nil, fmt.Errorf("%s: %w: provider is required", op, models.ErrValidation)
	case id.ProviderAccountID == "":
		return nil, fmt.Errorf("%s: %w: providerAccountId is required", op, models.ErrValidation)
	}

	log := r.log.With(
		slog.String("op", op),
		slog.String("provider", id.Provider),
	)

	account, err := r.repo.GetAccountByProvider(ctx, id.Provider, id.ProviderAccountID)
	switch {
	case err == nil:
		user, err := r.repo.GetUserByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Debug("oauth account found", slog.String("user_id", user.ID))
		return r.resolved(user, LoggedIn), nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := r.repo.GetUserByNormalizedEmail(ctx, normalized)
	switch {
	case err == nil:
		if _, err = r.repo.CreateAccount(ctx, models.Account{
			UserID:            user.ID,
			Provider:          id.Provider,
			ProviderAccountID: id.ProviderAccountID,
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("oauth account linked to existing user", slog.String("user_id", user.ID))
		return r.resolved(user, Linked), nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := r.repo.CreateUserWithAccount(ctx,
		models.User{
			Name:            id.Name,
			Email:           id.Email,
			NormalizedEmail: normalized,
			IsVerified:      true,
		},
		models.Account{
			Provider:          id.Provider,
			ProviderAccountID: id.ProviderAccountID,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("user created from oauth identity", slog.String("user_id", created.ID))
	return r.resolved(created, Created), nil
}

func (r *Resolver) resolved(user *models.User, outcome Outcome) *Resolution {
	if r.metrics != nil {
		r.metrics.RecordIdentityOutcome(string(outcome))
	}
	u := user.WithoutPassword()
	return &Resolution{User: &u, Outcome: outcome}
}
