// Package quote содержит операции над сметами и запросами на смету.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sanitize"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Repository определяет методы хранилища смет и запросов на смету.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	CreateQuote(ctx context.Context, quote models.Quote) (*models.Quote, error)
	GetQuote(ctx context.Context, id string) (*models.Quote, error)
	ListQuotes(ctx context.Context) ([]models.Quote, error)

	CreateQuoteRequest(ctx context.Context, qr models.QuoteRequest) (*models.QuoteRequest, error)
	GetQuoteRequest(ctx context.Context, id string) (*models.QuoteRequest, error)
	ListQuoteRequestsByUser(ctx context.Context, userID string) ([]models.QuoteRequest, error)
	UpdateQuoteRequest(ctx context.Context, id string, set patch.Set) (*models.QuoteRequest, error)
	DeleteQuoteRequest(ctx context.Context, id string) error
}

// RequestUpdateFields — поля запроса на смету, которые можно менять через PUT.
var RequestUpdateFields = patch.Fields{
	"title":           patch.String("title").Clean(sanitize.Text),
	"description":     patch.String("description").Clean(sanitize.Text),
	"documentType":    patch.NullableString("document_type"),
	"aiAnalysis":      patch.JSON("ai_analysis"),
	"tasksEstimation": patch.JSON("tasks_estimation"),
	"totalEstimate":   patch.NullableFloat("total_estimate"),
	"timeEstimate":    patch.NullableInt("time_estimate"),
	"status":          patch.String("status"),
}

// CreateQuoteInput — данные новой сметы.
type CreateQuoteInput struct {
	UserID      string
	Title       string
	Description *string
	Amount      *float64
	Status      string
}

// CreateRequestInput — данные нового запроса на смету.
type CreateRequestInput struct {
	UserID          string
	Title           string
	Description     string
	DocumentType    *string
	AIAnalysis      json.RawMessage
	TasksEstimation json.RawMessage
	TotalEstimate   *float64
	TimeEstimate    *int
	Status          string
}

// Service реализует операции над сметами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// owner загружает владельца без секретов. cache переиспользует уже
// загруженных пользователей в пределах одного списка.
func (s *Service) owner(ctx context.Context, userID string, cache map[string]*models.User) (*models.User, error) {
	if u, ok := cache[userID]; ok {
		return u, nil
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := user.WithoutSecrets()
	if cache != nil {
		cache[userID] = &u
	}
	return &u, nil
}

// ListQuotes возвращает все сметы с их владельцами.
func (s *Service) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	const op = "quote.ListQuotes"

	list, err := s.repo.ListQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cache := make(map[string]*models.User)
	for i := range list {
		if list[i].User, err = s.owner(ctx, list[i].UserID, cache); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return list, nil
}

// CreateQuote сохраняет смету и возвращает её с владельцем.
func (s *Service) CreateQuote(ctx context.Context, in CreateQuoteInput) (*models.Quote, error) {
	const op = "quote.CreateQuote"

	if in.UserID == "" || in.Title == "" {
		return nil, fmt.Errorf("%s: %w: userId and title are required", op, models.ErrValidation)
	}
	q, err := s.repo.CreateQuote(ctx, models.Quote{
		UserID:      in.UserID,
		Title:       sanitize.Text(in.Title),
		Description: sanitize.TextPtr(in.Description),
		Amount:      in.Amount,
		Status:      in.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if q.User, err = s.owner(ctx, q.UserID, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

// GetQuote возвращает смету с владельцем.
func (s *Service) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	const op = "quote.GetQuote"

	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if q.User, err = s.owner(ctx, q.UserID, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

// RequestsByUser возвращает запросы пользователя, новые первыми.
func (s *Service) RequestsByUser(ctx context.Context, userID string) ([]models.QuoteRequest, error) {
	const op = "quote.RequestsByUser"

	list, err := s.repo.ListQuoteRequestsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// CreateRequest сохраняет запрос на смету. Без статуса запрос получает
// статус analysed, без оценки задач — пустой список.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.QuoteRequest, error) {
	const op = "quote.CreateRequest"

	description := sanitize.Text(in.Description)
	if in.UserID == "" || in.Title == "" || description == "" {
		return nil, fmt.Errorf("%s: %w: userId, title and description are required", op, models.ErrValidation)
	}
	if in.AIAnalysis != nil && !json.Valid(in.AIAnalysis) {
		return nil, fmt.Errorf("%s: %w: aiAnalysis is not valid json", op, models.ErrValidation)
	}
	tasks := in.TasksEstimation
	if len(tasks) == 0 || string(tasks) == "null" {
		tasks = json.RawMessage(`[]`)
	}
	status := in.Status
	if status == "" {
		status = models.QuoteRequestStatusAnalysed
	}

	qr, err := s.repo.CreateQuoteRequest(ctx, models.QuoteRequest{
		UserID:          in.UserID,
		Title:           sanitize.Text(in.Title),
		Description:     description,
		DocumentType:    in.DocumentType,
		AIAnalysis:      decodeEmbeddedJSON(in.AIAnalysis),
		TasksEstimation: tasks,
		TotalEstimate:   in.TotalEstimate,
		TimeEstimate:    in.TimeEstimate,
		Status:          status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("quote request created", slog.String("quote_request_id", qr.ID))
	return qr, nil
}

// decodeEmbeddedJSON разворачивает документ, присланный строкой с JSON внутри.
func decodeEmbeddedJSON(raw json.RawMessage) json.RawMessage {
	var embedded string
	if err := json.Unmarshal(raw, &embedded); err != nil {
		return raw
	}
	if json.Valid([]byte(embedded)) {
		return json.RawMessage(embedded)
	}
	return raw
}

// GetRequest возвращает запрос на смету с владельцем.
func (s *Service) GetRequest(ctx context.Context, id string) (*models.QuoteRequest, error) {
	const op = "quote.GetRequest"

	qr, err := s.repo.GetQuoteRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if qr.User, err = s.owner(ctx, qr.UserID, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return qr, nil
}

// UpdateRequest применяет разрешённые изменения к запросу на смету.
func (s *Service) UpdateRequest(ctx context.Context, id string, set patch.Set) (*models.QuoteRequest, error) {
	const op = "quote.UpdateRequest"

	qr, err := s.repo.UpdateQuoteRequest(ctx, id, set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return qr, nil
}

// DeleteRequest удаляет запрос на смету.
func (s *Service) DeleteRequest(ctx context.Context, id string) error {
	const op = "quote.DeleteRequest"

	if err := s.repo.DeleteQuoteRequest(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
