// Package create реализует сохранение результата анализа документа.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/analysis"
)

// Request — результат анализа документа.
type Request struct {
	UserID         string          `json:"userId"`
	FileName       string          `json:"fileName"`
	FileType       *string         `json:"fileType"`
	AnalysisResult json.RawMessage `json:"analysisResult" swaggertype:"object"`
}

type Service interface {
	Create(ctx context.Context, in analysis.CreateInput) (*models.Analysis, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сохранить анализ документа
// @Tags Analyses
// @Accept json
// @Produce json
// @Param request body Request true "Анализ"
// @Success 201 {object} models.Analysis
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /analyses [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analyses.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Create(r.Context(), analysis.CreateInput(req))
	if err != nil {
		log.Error("failed to create analysis", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("analysis created", slog.String("analysis_id", a.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, a)
}
