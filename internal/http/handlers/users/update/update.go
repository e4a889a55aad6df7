// Package update реализует частичное обновление пользователя по id.
//
// Принимаются только поля из users.UpdateFields, остальные ключи тела игнорируются.
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
	"github.com/magabrotheeeer/bdd-service/internal/services/users"
)

// Service описывает интерфейс обновления пользователя.
type Service interface {
	Update(ctx context.Context, id string, set patch.Set) (*models.User, error)
}

// Handler обрабатывает PUT /users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"

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
	set, err := patch.Parse(body, users.UpdateFields)
	if err != nil {
		log.Error("invalid update", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	user, err := h.service.Update(r.Context(), id, set)
	if err != nil {
		log.Error("failed to update user", slog.String("user_id", id), sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("user updated", slog.String("user_id", id), slog.Any("columns", set.Columns()))
	render.JSON(w, r, user)
}
