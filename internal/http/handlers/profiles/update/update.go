// Package update реализует частичное обновление профессионального профиля.
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
	"github.com/magabrotheeeer/bdd-service/internal/services/profile"
)

type Service interface {
	Update(ctx context.Context, userID string, set patch.Set) (*models.ProfessionalProfile, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить профиль пользователя
// @Tags Profiles
// @Accept json
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {object} models.ProfessionalProfile
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /professional-profiles/{userId} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profiles.update"

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
	set, err := patch.Parse(body, profile.UpdateFields)
	if err != nil {
		log.Error("invalid update", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "userId"), set)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}
