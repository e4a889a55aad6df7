// Package byuser реализует получение анализов документов пользователя.
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
	ListByUser(ctx context.Context, userID string) ([]models.Analysis, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Анализы пользователя
// @Tags Analyses
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {array} models.Analysis
// @Failure 500 {object} response.ErrorResponse
// @Router /analyses/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analyses.byuser"

	list, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.log.Error("failed to list analyses",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}
