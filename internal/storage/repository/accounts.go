package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// querier — общее подмножество *sql.DB и *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const accountColumns = `id, user_id, provider, provider_account_id, created_at`

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func insertAccount(ctx context.Context, q querier, account models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	query := `INSERT INTO accounts (id, user_id, provider, provider_account_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + accountColumns
	return scanAccount(q.QueryRowContext(ctx, query,
		account.ID, account.UserID, account.Provider, account.ProviderAccountID))
}

// CreateAccount привязывает внешний аккаунт к существующему пользователю.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	a, err := insertAccount(ctx, s.DB, account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}

// GetAccountByProvider ищет аккаунт по точной паре provider/providerAccountID.
func (s *Storage) GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	const op = "storage.GetAccountByProvider"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE provider = $1 AND provider_account_id = $2`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, provider, providerAccountID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}

// ListAccountsByUser возвращает аккаунты пользователя.
func (s *Storage) ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	const op = "storage.ListAccountsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+accountColumns+`
			  FROM accounts
			  WHERE user_id = $1
			  ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
