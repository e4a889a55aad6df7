// Package create реализует HTTP-обработчик создания сметы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/quote"
)

// Request — данные новой сметы.
type Request struct {
	UserID      string   `json:"userId" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Status      string   `json:"status"`
}

type Service interface {
	CreateQuote(ctx context.Context, in quote.CreateQuoteInput) (*models.Quote, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать смету
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body Request true "Смета"
// @Success 201 {object} models.Quote
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /quotes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quotes.create"

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
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	q, err := h.service.CreateQuote(r.Context(), quote.CreateQuoteInput(req))
	if err != nil {
		log.Error("failed to create quote", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("quote created", slog.String("quote_id", q.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, q)
}
