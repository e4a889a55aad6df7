// Package byemail реализует поиск пользователей по точному email.
//
// Один найденный пользователь возвращается объектом, несколько — массивом.
// Хэш пароля виден только доверенному сервису (см. middlewarectx.ServiceAuth).
package byemail

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Service описывает интерфейс поиска по email.
type Service interface {
	ByEmail(ctx context.Context, email string, trusted bool) ([]models.User, error)
}

// Handler обрабатывает GET /users/email/{email}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Пользователь по email
// @Description Точное совпадение email с учётом регистра.
// @Tags Users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /users/email/{email} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.byemail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	trusted := middlewarectx.Trusted(r.Context())
	users, err := h.service.ByEmail(r.Context(), chi.URLParam(r, "email"), trusted)
	if err != nil {
		log.Info("users by email not returned", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Debug("users found", slog.Int("count", len(users)), slog.Bool("trusted", trusted))
	if len(users) == 1 {
		render.JSON(w, r, users[0])
		return
	}
	render.JSON(w, r, users)
}
