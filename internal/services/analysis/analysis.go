// Package analysis хранит результаты анализа загруженных документов.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Repository определяет методы хранилища анализов.
type Repository interface {
	CreateAnalysis(ctx context.Context, a models.Analysis) (*models.Analysis, error)
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	ListAnalysesByUser(ctx context.Context, userID string) ([]models.Analysis, error)
	DeleteAnalysis(ctx context.Context, id string) error
}

// CreateInput — данные нового анализа.
type CreateInput struct {
	UserID         string
	FileName       string
	FileType       *string
	AnalysisResult json.RawMessage
}

// Service реализует операции над анализами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListByUser возвращает анализы пользователя, новые первыми.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Analysis, error) {
	const op = "analysis.ListByUser"

	list, err := s.repo.ListAnalysesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Create сохраняет анализ. userId, fileName и analysisResult обязательны.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Analysis, error) {
	const op = "analysis.Create"

	if in.UserID == "" || in.FileName == "" || len(in.AnalysisResult) == 0 || string(in.AnalysisResult) == "null" {
		return nil, fmt.Errorf("%s: %w: userId, fileName and analysisResult are required", op, models.ErrValidation)
	}
	a, err := s.repo.CreateAnalysis(ctx, models.Analysis{
		UserID:         in.UserID,
		FileName:       in.FileName,
		FileType:       in.FileType,
		AnalysisResult: in.AnalysisResult,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("analysis stored", slog.String("analysis_id", a.ID), slog.String("user_id", a.UserID))
	return a, nil
}

// Get возвращает анализ по id.
func (s *Service) Get(ctx context.Context, id string) (*models.Analysis, error) {
	const op = "analysis.Get"

	a, err := s.repo.GetAnalysis(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Delete удаляет анализ по id.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "analysis.Delete"

	if err := s.repo.DeleteAnalysis(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
