// Package remove реализует HTTP-обработчик удаления запроса на смету.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
)

type Service interface {
	DeleteRequest(ctx context.Context, id string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить запрос на смету
// @Tags QuoteRequests
// @Produce json
// @Param id path string true "ID запроса"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /quote-requests/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quoterequests.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteRequest(r.Context(), id); err != nil {
		log.Error("failed to delete quote request", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("quote request deleted", slog.String("quote_request_id", id))
	render.JSON(w, r, response.MessageResponse{Message: "Quote request deleted successfully"})
}
