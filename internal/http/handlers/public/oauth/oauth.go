// Package oauth реализует упрощённый OAuth-вход по email (POST /public/oauth).
package oauth

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
	"github.com/magabrotheeeer/bdd-service/internal/services/auth"
)

// Request — данные OAuth-входа.
type Request struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	OAuthProvider   string `json:"oauthProvider"`
	OAuthProviderID string `json:"oauthProviderId"`
}

// Response — вошедший пользователь.
type Response struct {
	User *models.User `json:"user"`
}

// Service описывает интерфейс OAuth-входа.
type Service interface {
	OAuthLogin(ctx context.Context, in auth.OAuthLogin) (*models.User, error)
}

// Handler обрабатывает OAuth-вход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вход через OAuth по email
// @Description Аккаунт с паролем не захватывается (409). Найденный OAuth-пользователь получает нового провайдера, иначе создаётся новый пользователь.
// @Tags Public
// @Accept  json
// @Produce  json
// @Param request body Request true "OAuth-данные"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Неполные данные"
// @Failure 409 {object} response.ErrorResponse "Email занят аккаунтом с паролем"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /public/oauth [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.oauth"

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

	user, err := h.service.OAuthLogin(r.Context(), auth.OAuthLogin(req))
	if err != nil {
		log.Error("oauth login failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("oauth login success", slog.String("user_id", user.ID))
	render.JSON(w, r, Response{User: user})
}
