// Package byuser реализует получение всех подписок пользователя.
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

// Service описывает интерфейс получения подписок пользователя.
type Service interface {
	ListByUser(ctx context.Context, userID string) ([]models.Subscription, error)
}

// Handler обрабатывает GET /subscriptions/user/{userId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подписки пользователя
// @Tags Subscriptions
// @Produce  json
// @Param userId path string true "ID пользователя"
// @Success 200 {array} models.Subscription
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptions/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.byuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}
