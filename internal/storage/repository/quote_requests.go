package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const quoteRequestColumns = `id, user_id, title, description, document_type, ai_analysis,
	tasks_estimation, total_estimate, time_estimate, status, created_at, updated_at`

func scanQuoteRequest(row rowScanner) (*models.QuoteRequest, error) {
	var (
		qr                   models.QuoteRequest
		aiAnalysis, estimate []byte
	)
	if err := row.Scan(&qr.ID, &qr.UserID, &qr.Title, &qr.Description, &qr.DocumentType,
		&aiAnalysis, &estimate, &qr.TotalEstimate, &qr.TimeEstimate, &qr.Status,
		&qr.CreatedAt, &qr.UpdatedAt); err != nil {
		return nil, err
	}
	qr.AIAnalysis = nullableJSON(aiAnalysis)
	qr.TasksEstimation = nullableJSON(estimate)
	return &qr, nil
}

// nullableJSON превращает NULL из jsonb-колонки в JSON null.
func nullableJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

// jsonArg готовит json.RawMessage к записи в jsonb-колонку.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

// CreateQuoteRequest сохраняет запрос на смету.
func (s *Storage) CreateQuoteRequest(ctx context.Context, qr models.QuoteRequest) (*models.QuoteRequest, error) {
	const op = "storage.CreateQuoteRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if qr.ID == "" {
		qr.ID = uuid.NewString()
	}
	if qr.Status == "" {
		qr.Status = models.QuoteRequestStatusAnalysed
	}
	query := `INSERT INTO quote_requests (id, user_id, title, description, document_type,
			      ai_analysis, tasks_estimation, total_estimate, time_estimate, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + quoteRequestColumns
	created, err := scanQuoteRequest(s.DB.QueryRowContext(ctx, query,
		qr.ID, qr.UserID, qr.Title, qr.Description, qr.DocumentType,
		jsonArg(qr.AIAnalysis), jsonArg(qr.TasksEstimation), qr.TotalEstimate,
		qr.TimeEstimate, qr.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetQuoteRequest возвращает запрос на смету по id.
func (s *Storage) GetQuoteRequest(ctx context.Context, id string) (*models.QuoteRequest, error) {
	const op = "storage.GetQuoteRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	qr, err := scanQuoteRequest(s.DB.QueryRowContext(ctx,
		`SELECT `+quoteRequestColumns+` FROM quote_requests WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return qr, nil
}

// ListQuoteRequestsByUser возвращает запросы пользователя, новые первыми.
func (s *Storage) ListQuoteRequestsByUser(ctx context.Context, userID string) ([]models.QuoteRequest, error) {
	const op = "storage.ListQuoteRequestsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+quoteRequestColumns+`
			  FROM quote_requests
			  WHERE user_id = $1
			  ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.QuoteRequest, 0)
	for rows.Next() {
		qr, err := scanQuoteRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *qr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateQuoteRequest применяет набор изменений к запросу на смету.
func (s *Storage) UpdateQuoteRequest(ctx context.Context, id string, set patch.Set) (*models.QuoteRequest, error) {
	const op = "storage.UpdateQuoteRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args := buildUpdate("quote_requests", "id", id, set, true, quoteRequestColumns)
	qr, err := scanQuoteRequest(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return qr, nil
}

// DeleteQuoteRequest удаляет запрос на смету. Отсутствующая запись — ErrNotFound.
func (s *Storage) DeleteQuoteRequest(ctx context.Context, id string) error {
	const op = "storage.DeleteQuoteRequest"
	return s.deleteByKey(ctx, op, "quote_requests", "id", id)
}

// deleteByKey удаляет строки таблицы по ключу и возвращает ErrNotFound,
// если ничего не удалено.
func (s *Storage) deleteByKey(ctx context.Context, op, table, keyColumn, key string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, keyColumn), key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
