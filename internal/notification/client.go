// Package notification отправляет уведомления во внешний сервис уведомлений.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const subscriptionNotificationPath = "/notifications/subscription-notification"

// Client — HTTP-клиент сервиса уведомлений.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент сервиса уведомлений. timeout ограничивает каждый запрос.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// NotifySubscriptionExpired сообщает владельцу подписки о её истечении.
// Любой ответ вне диапазона 2xx считается ошибкой.
func (c *Client) NotifySubscriptionExpired(ctx context.Context, sub models.LapsedSubscription) error {
	const op = "notification.NotifySubscriptionExpired"

	req, err := c.newRequest(ctx, http.MethodPost, subscriptionNotificationPath, SubscriptionNotification{
		To:   sub.Email,
		Type: TypeExpired,
		Data: SubscriptionExpiredData{
			SubscriptionID: sub.SubscriptionID,
			EndDate:        sub.EndDate,
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}

// Disabled — уведомитель, который ничего не отправляет. Используется,
// когда адрес сервиса уведомлений не задан.
type Disabled struct{}

// NotifySubscriptionExpired ничего не делает.
func (Disabled) NotifySubscriptionExpired(context.Context, models.LapsedSubscription) error {
	return nil
}
