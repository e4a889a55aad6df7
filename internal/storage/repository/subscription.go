package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const subscriptionColumns = `id, user_id, stripe_subscription_id, stripe_customer_id, plan_id,
	status, start_date, end_date, is_active, created_at, updated_at`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.StripeSubscriptionID, &sub.StripeCustomerID,
		&sub.PlanID, &sub.Status, &sub.StartDate, &sub.EndDate, &sub.IsActive,
		&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription вставляет новую подписку и возвращает сохранённую запись.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = models.SubscriptionStatusActive
	}
	if sub.StartDate.IsZero() {
		sub.StartDate = time.Now()
	}
	query := `INSERT INTO subscriptions (id, user_id, stripe_subscription_id, stripe_customer_id,
			      plan_id, status, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + subscriptionColumns
	created, err := scanSubscription(s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.StripeSubscriptionID, sub.StripeCustomerID, sub.PlanID,
		sub.Status, sub.StartDate, sub.EndDate, sub.IsActive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetSubscription возвращает подписку по id.
func (s *Storage) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sub, err := scanSubscription(s.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// GetSubscriptionByUser возвращает самую свежую подписку пользователя.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// ListSubscriptionsByUser возвращает все подписки пользователя, новые первыми.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+subscriptionColumns+`
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription применяет набор изменений к подписке.
func (s *Storage) UpdateSubscription(ctx context.Context, id string, set patch.Set) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args := buildUpdate("subscriptions", "id", id, set, true, subscriptionColumns)
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return sub, nil
}

// FindLapsedSubscriptions возвращает активные подписки с end_date строго
// раньше now вместе с email владельца.
func (s *Storage) FindLapsedSubscriptions(ctx context.Context, now time.Time) ([]models.LapsedSubscription, error) {
	const op = "storage.FindLapsedSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.user_id, u.email, s.end_date
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.is_active = TRUE AND s.end_date < $1
			  ORDER BY s.end_date`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.LapsedSubscription, 0)
	for rows.Next() {
		var l models.LapsedSubscription
		if err = rows.Scan(&l.SubscriptionID, &l.UserID, &l.Email, &l.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExpireSubscription переводит активную подписку в expired.
// Возвращает false, если подписка уже была неактивна.
func (s *Storage) ExpireSubscription(ctx context.Context, id string) (bool, error) {
	const op = "storage.ExpireSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET is_active = FALSE, status = $1, updated_at = NOW()
			  WHERE id = $2 AND is_active = TRUE`
	result, err := s.DB.ExecContext(ctx, query, models.SubscriptionStatusExpired, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
