// Package subscription содержит операции над подписками, которые вызывает
// биллинг: создание или продление, частичное обновление и чтение.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Repository определяет методы хранилища, нужные сервису подписок.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetUserSubscription(ctx context.Context, userID string, state models.SubscriptionState) (*models.User, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, set patch.Set) (*models.Subscription, error)
}

// UpdateFields — поля подписки, которые можно менять через PATCH /subscriptions/{id}.
var UpdateFields = patch.Fields{
	"stripeSubscriptionId": patch.NullableString("stripe_subscription_id"),
	"stripeCustomerId":     patch.NullableString("stripe_customer_id"),
	"planId":               patch.NullableString("plan_id"),
	"status":               patch.String("status"),
	"startDate":            patch.Time("start_date"),
	"endDate":              patch.Time("end_date"),
	"isActive":             patch.Bool("is_active"),
}

// CreateInput — событие биллинга о новой или продлённой подписке.
type CreateInput struct {
	UserID               string
	StripeSubscriptionID *string
	StripeCustomerID     *string
	PlanID               *string
	Status               string
	StartDate            *time.Time
	EndDate              time.Time
	IsActive             *bool
}

// Service реализует бизнес-логику подписок.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create сохраняет подписку пользователя. Если у пользователя уже есть
// подписка, она обновляется на месте и created равно false. После записи
// пользователь помечается подписанным.
func (s *Service) Create(ctx context.Context, in CreateInput) (sub *models.Subscription, created bool, err error) {
	const op = "subscription.Create"

	if in.UserID == "" || in.EndDate.IsZero() {
		return nil, false, fmt.Errorf("%s: %w: userId and endDate are required", op, models.ErrValidation)
	}
	if _, err = s.repo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, false, fmt.Errorf("%s: user %s: %w", op, in.UserID, err)
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	status := in.Status
	if status == "" {
		status = models.SubscriptionStatusActive
	}

	existing, err := s.repo.GetSubscriptionByUser(ctx, in.UserID)
	switch {
	case err == nil:
		sub, err = s.repo.UpdateSubscription(ctx, existing.ID, renewalSet(in, status, isActive))
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription renewed", slog.String("subscription_id", sub.ID), slog.String("user_id", in.UserID))
	case errors.Is(err, models.ErrNotFound):
		record := models.Subscription{
			UserID:               in.UserID,
			StripeSubscriptionID: in.StripeSubscriptionID,
			StripeCustomerID:     in.StripeCustomerID,
			PlanID:               in.PlanID,
			Status:               status,
			EndDate:              in.EndDate,
			IsActive:             isActive,
		}
		if in.StartDate != nil {
			record.StartDate = *in.StartDate
		}
		sub, err = s.repo.CreateSubscription(ctx, record)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
		created = true
		s.log.Info("subscription created", slog.String("subscription_id", sub.ID), slog.String("user_id", in.UserID))
	default:
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	subscribed := true
	state := models.SubscriptionState{
		IsSubscribed:        &subscribed,
		SubscriptionID:      in.StripeSubscriptionID,
		NumSubscriptionID:   &sub.ID,
		SubscriptionEndDate: &in.EndDate,
	}
	if _, err = s.repo.SetUserSubscription(ctx, in.UserID, state); err != nil {
		return nil, false, fmt.Errorf("%s: flag user: %w", op, err)
	}
	return sub, created, nil
}

func renewalSet(in CreateInput, status string, isActive bool) patch.Set {
	var set patch.Set
	if in.StripeSubscriptionID != nil {
		set.Add("stripe_subscription_id", *in.StripeSubscriptionID)
	}
	if in.StripeCustomerID != nil {
		set.Add("stripe_customer_id", *in.StripeCustomerID)
	}
	if in.PlanID != nil {
		set.Add("plan_id", *in.PlanID)
	}
	if in.StartDate != nil {
		set.Add("start_date", *in.StartDate)
	}
	set.Add("status", status)
	set.Add("end_date", in.EndDate)
	set.Add("is_active", isActive)
	return set
}

// Update применяет разрешённые изменения к подписке.
func (s *Service) Update(ctx context.Context, id string, set patch.Set) (*models.Subscription, error) {
	const op = "subscription.Update"

	sub, err := s.repo.UpdateSubscription(ctx, id, set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// Get возвращает подписку вместе с владельцем.
func (s *Service) Get(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "subscription.Get"

	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.repo.GetUserByID(ctx, sub.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u := user.WithoutSecrets()
	sub.User = &u
	return sub, nil
}

// ListByUser возвращает подписки существующего пользователя.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "subscription.ListByUser"

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: user %s: %w", op, userID, err)
	}
	list, err := s.repo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
