// Package create реализует HTTP-обработчик создания профессионального профиля.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/profile"
)

// Request — данные профиля.
type Request struct {
	UserID            string   `json:"userId" validate:"required"`
	Sector            *string  `json:"sector"`
	Specialties       []string `json:"specialties"`
	YearsOfExperience int      `json:"yearsOfExperience" validate:"min=0"`
	Skills            []string `json:"skills"`
	Bio               *string  `json:"bio"`
	HourlyRate        *float64 `json:"hourlyRate"`
	Certifications    []string `json:"certifications"`
}

type Service interface {
	Create(ctx context.Context, in profile.CreateInput) (*models.ProfessionalProfile, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать профессиональный профиль
// @Description Один профиль на пользователя. После создания пользователь помечается is_profile_completed.
// @Tags Profiles
// @Accept json
// @Produce json
// @Param request body Request true "Профиль"
// @Success 201 {object} models.ProfessionalProfile
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /professional-profiles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profiles.create"

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
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	p, err := h.service.Create(r.Context(), profile.CreateInput(req))
	if err != nil {
		log.Error("failed to create profile", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("profile created", slog.String("user_id", p.UserID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, p)
}
