// Package byuser реализует получение запросов на смету пользователя, новые первыми.
package byuser

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
	RequestsByUser(ctx context.Context, userID string) ([]models.QuoteRequest, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запросы на смету пользователя
// @Tags QuoteRequests
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {array} models.QuoteRequest
// @Failure 500 {object} response.ErrorResponse
// @Router /quote-requests/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quoterequests.byuser"

	list, err := h.service.RequestsByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.log.Error("failed to list quote requests",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}
