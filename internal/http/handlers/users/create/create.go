// Package create реализует HTTP-обработчик создания пользователя соседним сервисом.
//
// Поле password должно содержать уже посчитанный хэш.
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
	"github.com/magabrotheeeer/bdd-service/internal/services/users"
)

// Request — данные нового пользователя.
type Request struct {
	Name              string  `json:"name"`
	Email             string  `json:"email" validate:"required"`
	Password          *string `json:"password"`
	OAuthProvider     *string `json:"oauthProvider"`
	OAuthProviderID   *string `json:"oauthProviderId"`
	IsVerified        bool    `json:"isVerified"`
	VerificationToken *string `json:"verificationToken"`
	Sector            *string `json:"sector"`
}

// Service описывает интерфейс создания пользователя.
type Service interface {
	Create(ctx context.Context, in users.CreateUser) (*models.User, error)
}

// Handler обрабатывает POST /users.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param request body Request true "Пользователь"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Email уже используется"
// @Failure 500 {object} response.ErrorResponse
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.create"

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

	user, err := h.service.Create(r.Context(), users.CreateUser(req))
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("user created", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}
