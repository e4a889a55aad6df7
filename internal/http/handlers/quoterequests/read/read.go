// Package read реализует HTTP-обработчик получения запроса на смету по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

type Service interface {
	GetRequest(ctx context.Context, id string) (*models.QuoteRequest, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запрос на смету по ID
// @Tags QuoteRequests
// @Produce json
// @Param id path string true "ID запроса"
// @Success 200 {object} models.QuoteRequest
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /quote-requests/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quoterequests.read"

	qr, err := h.service.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.Error("failed to read quote request",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, qr)
}
