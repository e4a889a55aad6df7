package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const userColumns = `id, name, email, normalized_email, password_hash, oauth_provider,
	oauth_provider_id, is_admin, is_verified, verification_token, reset_token,
	reset_token_expiry, is_subscribed, subscription_id, num_subscription_id,
	subscription_end_date, sector, is_profile_completed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		name sql.NullString
	)
	if err := row.Scan(&u.ID, &name, &u.Email, &u.NormalizedEmail, &u.PasswordHash,
		&u.OAuthProvider, &u.OAuthProviderID, &u.IsAdmin, &u.IsVerified,
		&u.VerificationToken, &u.ResetToken, &u.ResetTokenExpiry, &u.IsSubscribed,
		&u.SubscriptionID, &u.NumSubscriptionID, &u.SubscriptionEndDate, &u.Sector,
		&u.IsProfileCompleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Name = name.String
	return &u, nil
}

func insertUser(ctx context.Context, q querier, user models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `INSERT INTO users (id, name, email, normalized_email, password_hash,
			      oauth_provider, oauth_provider_id, is_admin, is_verified, verification_token,
			      is_subscribed, subscription_id, num_subscription_id, subscription_end_date,
			      sector, is_profile_completed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			  RETURNING ` + userColumns
	return scanUser(q.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.NormalizedEmail, user.PasswordHash,
		user.OAuthProvider, user.OAuthProviderID, user.IsAdmin, user.IsVerified,
		user.VerificationToken, user.IsSubscribed, user.SubscriptionID,
		user.NumSubscriptionID, user.SubscriptionEndDate, user.Sector, user.IsProfileCompleted))
}

// CreateUser сохраняет нового пользователя и возвращает сохранённую запись.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := insertUser(ctx, s.DB, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// CreateUserWithAccount создаёт пользователя вместе с привязанным аккаунтом
// в одной транзакции: либо появляются обе записи, либо ни одной.
func (s *Storage) CreateUserWithAccount(ctx context.Context, user models.User, account models.Account) (*models.User, error) {
	const op = "storage.CreateUserWithAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	u, err := insertUser(ctx, tx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	account.UserID = u.ID
	a, err := insertAccount(ctx, tx, account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	u.Accounts = []models.Account{*a}
	return u, nil
}

// ListUsers возвращает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.queryUsers(ctx, op, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
}

// ListUsersByEmail возвращает пользователей с точным совпадением email.
func (s *Storage) ListUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	const op = "storage.ListUsersByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.queryUsers(ctx, op, `SELECT `+userColumns+` FROM users WHERE email = $1 ORDER BY created_at`, email)
}

func (s *Storage) queryUsers(ctx context.Context, op, query string, args ...any) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetUserByID возвращает пользователя по id.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByNormalizedEmail возвращает пользователя по нормализованному email.
func (s *Storage) GetUserByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error) {
	const op = "storage.GetUserByNormalizedEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE normalized_email = $1`, normalizedEmail))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserWithAccounts возвращает пользователя вместе со всеми его аккаунтами.
func (s *Storage) GetUserWithAccounts(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserWithAccounts"

	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	accounts, err := s.ListAccountsByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Accounts = accounts
	return u, nil
}

// UpdateUser применяет набор изменений к пользователю и возвращает обновлённую запись.
func (s *Storage) UpdateUser(ctx context.Context, id string, set patch.Set) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args := buildUpdate("users", "id", id, set, true, userColumns)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// UpdateUserByNormalizedEmail применяет набор изменений к пользователю,
// найденному по нормализованному email.
func (s *Storage) UpdateUserByNormalizedEmail(ctx context.Context, normalizedEmail string, set patch.Set) (*models.User, error) {
	const op = "storage.UpdateUserByNormalizedEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args := buildUpdate("users", "normalized_email", normalizedEmail, set, true, userColumns)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// SetUserSubscription записывает в пользователя состояние подписки.
// Поля SubscriptionState со значением nil не меняются.
func (s *Storage) SetUserSubscription(ctx context.Context, userID string, state models.SubscriptionState) (*models.User, error) {
	var set patch.Set
	if state.IsSubscribed != nil {
		set.Add("is_subscribed", *state.IsSubscribed)
	}
	if state.SubscriptionID != nil {
		set.Add("subscription_id", *state.SubscriptionID)
	}
	if state.NumSubscriptionID != nil {
		set.Add("num_subscription_id", *state.NumSubscriptionID)
	}
	if state.SubscriptionEndDate != nil {
		set.Add("subscription_end_date", *state.SubscriptionEndDate)
	}
	return s.UpdateUser(ctx, userID, set)
}

// SetUserOAuthProvider обновляет провайдера OAuth у существующего пользователя.
func (s *Storage) SetUserOAuthProvider(ctx context.Context, id, provider, providerID string) (*models.User, error) {
	var set patch.Set
	set.Add("oauth_provider", provider)
	set.Add("oauth_provider_id", providerID)
	return s.UpdateUser(ctx, id, set)
}

// MarkUserUnsubscribed снимает у пользователя флаг активной подписки.
func (s *Storage) MarkUserUnsubscribed(ctx context.Context, userID string) error {
	const op = "storage.MarkUserUnsubscribed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_subscribed = FALSE, updated_at = NOW()
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}
