package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const quoteColumns = `id, user_id, title, description, amount, status, created_at, updated_at`

func scanQuote(row rowScanner) (*models.Quote, error) {
	var q models.Quote
	if err := row.Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.Amount,
		&q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuote сохраняет новую смету.
func (s *Storage) CreateQuote(ctx context.Context, quote models.Quote) (*models.Quote, error) {
	const op = "storage.CreateQuote"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	query := `INSERT INTO quotes (id, user_id, title, description, amount, status)
			  VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'pending'))
			  RETURNING ` + quoteColumns
	q, err := scanQuote(s.DB.QueryRowContext(ctx, query,
		quote.ID, quote.UserID, quote.Title, quote.Description, quote.Amount, quote.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return q, nil
}

// GetQuote возвращает смету по id.
func (s *Storage) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	const op = "storage.GetQuote"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	q, err := scanQuote(s.DB.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return q, nil
}

// ListQuotes возвращает все сметы, новые первыми.
func (s *Storage) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	const op = "storage.ListQuotes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
