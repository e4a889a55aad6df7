// Package oauthuser реализует HTTP-обработчик POST /accounts/oauth/user.
//
// auth-service передаёт данные, полученные от OAuth-провайдера, а обработчик
// через Resolver находит, привязывает или создаёт пользователя и сообщает,
// какой из трёх исходов произошёл.
package oauthuser

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
	"github.com/magabrotheeeer/bdd-service/internal/services/identity"
)

// Сообщения ответа для каждого исхода.
const (
	MessageLoggedIn = "User logged in successfully."
	MessageLinked   = "Account linked successfully."
	MessageCreated  = "User created and logged in successfully."
)

// Request — данные OAuth-идентичности.
type Request struct {
	Name              string `json:"name"`
	Provider          string `json:"provider" validate:"required"`
	ProviderAccountID string `json:"providerAccountId" validate:"required"`
	Email             string `json:"email" validate:"required"`
}

// Response — пользователь и сообщение об исходе.
type Response struct {
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// Resolver описывает разрешение OAuth-идентичности.
type Resolver interface {
	ResolveOAuthIdentity(ctx context.Context, in models.OAuthIdentity) (*identity.Resolution, error)
}

// Handler обрабатывает OAuth-вход через внешний аккаунт.
type Handler struct {
	log      *slog.Logger
	resolver Resolver
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, resolver Resolver) *Handler {
	return &Handler{
		log:      log,
		resolver: resolver,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход через OAuth-аккаунт
// @Description Находит пользователя по аккаунту провайдера, привязывает аккаунт к пользователю с тем же email или создаёт нового пользователя.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body Request true "OAuth-идентичность"
// @Success 200 {object} Response "Вход или привязка аккаунта"
// @Success 201 {object} Response "Создан новый пользователь"
// @Failure 400 {object} response.ErrorResponse "Не хватает обязательных полей"
// @Failure 409 {object} response.ErrorResponse "Аккаунт уже привязан"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /accounts/oauth/user [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accounts.oauthuser"

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

	res, err := h.resolver.ResolveOAuthIdentity(r.Context(), models.OAuthIdentity{
		Name:              req.Name,
		Provider:          req.Provider,
		ProviderAccountID: req.ProviderAccountID,
		Email:             req.Email,
	})
	if err != nil {
		log.Error("failed to resolve oauth identity", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("oauth identity resolved",
		slog.String("user_id", res.User.ID),
		slog.String("outcome", string(res.Outcome)))

	switch res.Outcome {
	case identity.Created:
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{User: res.User, Message: MessageCreated})
	case identity.Linked:
		render.JSON(w, r, Response{User: res.User, Message: MessageLinked})
	default:
		render.JSON(w, r, Response{User: res.User, Message: MessageLoggedIn})
	}
}
