// Package update реализует частичное обновление подписки по ID.
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
	"github.com/magabrotheeeer/bdd-service/internal/services/subscription"
)

// Service описывает интерфейс обновления подписки.
type Service interface {
	Update(ctx context.Context, id string, set patch.Set) (*models.Subscription, error)
}

// Handler обрабатывает PATCH /subscriptions/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить подписку
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "ID подписки"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptions/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.update"

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
	set, err := patch.Parse(body, subscription.UpdateFields)
	if err != nil {
		log.Error("invalid update", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	sub, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), set)
	if err != nil {
		log.Error("failed to update subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("subscription updated", slog.String("subscription_id", sub.ID))
	render.JSON(w, r, sub)
}
