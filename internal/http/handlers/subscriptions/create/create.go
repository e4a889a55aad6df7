// Package create реализует HTTP-обработчик создания или продления подписки.
//
// Handler принимает событие биллинга, проверяет обязательные поля и передаёт
// его сервису. Новая подписка отвечает 201, продление существующей — 200.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bdd-service/internal/http/response"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/subscription"
)

// Request — данные подписки от биллинга.
type Request struct {
	UserID               string     `json:"userId" validate:"required"`
	StripeSubscriptionID *string    `json:"stripeSubscriptionId"`
	StripeCustomerID     *string    `json:"stripeCustomerId"`
	PlanID               *string    `json:"planId"`
	Status               string     `json:"status"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              time.Time  `json:"endDate" validate:"required"`
	IsActive             *bool      `json:"isActive"`
}

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Create(ctx context.Context, in subscription.CreateInput) (*models.Subscription, bool, error)
}

// Handler управляет HTTP-запросами на создание подписок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать или продлить подписку
// @Description Если у пользователя уже есть подписка, она обновляется на месте. Пользователь помечается подписанным.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные подписки"
// @Success 201 {object} models.Subscription "Подписка создана"
// @Success 200 {object} models.Subscription "Подписка продлена"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Подписка с такими данными уже существует"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.WriteStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, created, err := h.service.Create(r.Context(), subscription.CreateInput(req))
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("subscription stored", slog.String("subscription_id", sub.ID), slog.Bool("created", created))
	if created {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, sub)
}
