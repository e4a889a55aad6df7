// Package remove реализует удаление профессионального профиля пользователя.
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
	Delete(ctx context.Context, userID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить профиль пользователя
// @Tags Profiles
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /professional-profiles/{userId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profiles.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")
	if err := h.service.Delete(r.Context(), userID); err != nil {
		log.Error("failed to delete profile", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("profile deleted", slog.String("user_id", userID))
	render.JSON(w, r, response.MessageResponse{Message: "Professional profile deleted successfully"})
}
