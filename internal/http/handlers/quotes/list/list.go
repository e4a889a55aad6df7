// Package list реализует HTTP-обработчик получения всех смет.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

type Service interface {
	ListQuotes(ctx context.Context) ([]models.Quote, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список смет
// @Tags Quotes
// @Produce json
// @Success 200 {array} models.Quote
// @Failure 500 {object} response.ErrorResponse
// @Router /quotes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quotes.list"

	quotes, err := h.service.ListQuotes(r.Context())
	if err != nil {
		h.log.Error("failed to list quotes",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, quotes)
}
