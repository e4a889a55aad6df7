package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const analysisColumns = `id, user_id, file_name, file_type, analysis_result, created_at`

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var (
		a      models.Analysis
		result []byte
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.FileName, &a.FileType, &result, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.AnalysisResult = nullableJSON(result)
	return &a, nil
}

// CreateAnalysis сохраняет результат анализа файла.
func (s *Storage) CreateAnalysis(ctx context.Context, a models.Analysis) (*models.Analysis, error) {
	const op = "storage.CreateAnalysis"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `INSERT INTO analyses (id, user_id, file_name, file_type, analysis_result)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + analysisColumns
	created, err := scanAnalysis(s.DB.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.FileName, a.FileType, jsonArg(a.AnalysisResult)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetAnalysis возвращает анализ по id.
func (s *Storage) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	const op = "storage.GetAnalysis"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	a, err := scanAnalysis(s.DB.QueryRowContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}

// ListAnalysesByUser возвращает анализы пользователя, новые первыми.
func (s *Storage) ListAnalysesByUser(ctx context.Context, userID string) ([]models.Analysis, error) {
	const op = "storage.ListAnalysesByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+analysisColumns+`
			  FROM analyses
			  WHERE user_id = $1
			  ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
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

// DeleteAnalysis удаляет анализ по id.
func (s *Storage) DeleteAnalysis(ctx context.Context, id string) error {
	const op = "storage.DeleteAnalysis"
	return s.deleteByKey(ctx, op, "analyses", "id", id)
}
