// Package read реализует получение профессионального профиля пользователя.
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
	GetByUser(ctx context.Context, userID string) (*models.ProfessionalProfile, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Tags Profiles
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {object} models.ProfessionalProfile
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /professional-profiles/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profiles.read"

	p, err := h.service.GetByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.log.Error("failed to read profile",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}
