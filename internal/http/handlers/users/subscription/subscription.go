// Package subscription реализует обновление полей подписки пользователя по email.
package subscription

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
	"github.com/magabrotheeeer/bdd-service/internal/services/users"
)

// Service описывает интерфейс обновления подписки пользователя.
type Service interface {
	UpdateSubscription(ctx context.Context, email string, set patch.Set) (*models.User, error)
}

// Handler обрабатывает PUT /users/subscription/{email}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить подписку пользователя
// @Description Меняет isSubscribed, subscriptionId и subscriptionEndDate пользователя с данным email.
// @Tags Users
// @Accept json
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /users/subscription/{email} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.subscription"

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
	set, err := patch.Parse(body, users.SubscriptionFields)
	if err != nil {
		log.Error("invalid subscription update", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	user, err := h.service.UpdateSubscription(r.Context(), chi.URLParam(r, "email"), set)
	if err != nil {
		log.Error("failed to update user subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("user subscription updated", slog.String("user_id", user.ID))
	render.JSON(w, r, user)
}
