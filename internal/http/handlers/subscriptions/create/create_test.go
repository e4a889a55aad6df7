package create

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/subscription"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, in subscription.CreateInput) (*models.Subscription, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Subscription), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCreateHandler(t *testing.T) {
	end := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	stripeID := "sub_123"
	valid := map[string]any{
		"userId":               "u-1",
		"stripeSubscriptionId": stripeID,
		"endDate":              end.Format(time.RFC3339),
	}
	matchInput := mock.MatchedBy(func(in subscription.CreateInput) bool {
		return in.UserID == "u-1" && in.EndDate.Equal(end) &&
			in.StripeSubscriptionID != nil && *in.StripeSubscriptionID == stripeID
	})

	tests := []struct {
		name       string
		body       any
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "new subscription",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, matchInput).
					Return(&models.Subscription{ID: "s-1", UserID: "u-1"}, true, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"id":"s-1"`,
		},
		{
			name: "renewal of existing subscription",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, matchInput).
					Return(&models.Subscription{ID: "s-1", UserID: "u-1"}, false, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"s-1"`,
		},
		{
			name:       "missing end date",
			body:       map[string]any{"userId": "u-1"},
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"field EndDate is a required field"`,
		},
		{
			name: "unknown user",
			body: valid,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, matchInput).
					Return(nil, false, fmt.Errorf("subscription.Create: %w: user not found", models.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"error":"user not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
