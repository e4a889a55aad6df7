// Package create реализует HTTP-обработчик создания запроса на смету.
//
// aiAnalysis принимается как JSON-документ или как строка с JSON внутри.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/quote"
)

// Request — данные нового запроса на смету.
type Request struct {
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DocumentType    *string         `json:"documentType"`
	AIAnalysis      json.RawMessage `json:"aiAnalysis" swaggertype:"object"`
	TasksEstimation json.RawMessage `json:"tasksEstimation" swaggertype:"array,object"`
	TotalEstimate   *float64        `json:"totalEstimate"`
	TimeEstimate    *int            `json:"timeEstimate"`
	Status          string          `json:"status"`
}

type Service interface {
	CreateRequest(ctx context.Context, in quote.CreateRequestInput) (*models.QuoteRequest, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать запрос на смету
// @Description userId, title и description обязательны. Статус по умолчанию analysed.
// @Tags QuoteRequests
// @Accept json
// @Produce json
// @Param request body Request true "Запрос на смету"
// @Success 201 {object} models.QuoteRequest
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /quote-requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quoterequests.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	qr, err := h.service.CreateRequest(r.Context(), quote.CreateRequestInput(req))
	if err != nil {
		log.Error("failed to create quote request", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("quote request created", slog.String("quote_request_id", qr.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, qr)
}
