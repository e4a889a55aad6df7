// Package update реализует частичное обновление запроса на смету.
package update

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/quote"
)

type Service interface {
	UpdateRequest(ctx context.Context, id string, set patch.Set) (*models.QuoteRequest, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить запрос на смету
// @Tags QuoteRequests
// @Accept json
// @Produce json
// @Param id path string true "ID запроса"
// @Success 200 {object} models.QuoteRequest
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /quote-requests/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quoterequests.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		response.WriteStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	set, err := patch.Parse(body, quote.RequestUpdateFields)
	if err != nil {
		log.Error("invalid update", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	qr, err := h.service.UpdateRequest(r.Context(), chi.URLParam(r, "id"), set)
	if err != nil {
		log.Error("failed to update quote request", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, qr)
}
