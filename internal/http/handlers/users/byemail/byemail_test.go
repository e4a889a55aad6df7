package byemail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bdd-service/internal/http/middlewarectx"
	customjwt "github.com/magabrotheeeer/bdd-service/internal/lib/jwt"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ByEmail(ctx context.Context, email string, trusted bool) ([]models.User, error) {
	args := m.Called(ctx, email, trusted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(email string, caller *customjwt.ServiceClaims) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users/email/"+email, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("email", email)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if caller != nil {
		ctx = context.WithValue(ctx, middlewarectx.Caller, caller)
	}
	return req.WithContext(ctx)
}

func TestByEmailHandler(t *testing.T) {
	hash := "$2a$10$hash"

	tests := []struct {
		name       string
		caller     *customjwt.ServiceClaims
		setupMock  func(m *MockService)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name: "single user is returned as object",
			setupMock: func(m *MockService) {
				m.On("ByEmail", mock.Anything, "ann@example.com", false).
					Return([]models.User{{ID: "u-1", Email: "ann@example.com"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var user map[string]any
				require.NoError(t, json.Unmarshal(body, &user))
				assert.Equal(t, "u-1", user["id"])
				assert.NotContains(t, user, "password")
			},
		},
		{
			name:   "trusted caller receives password hash",
			caller: &customjwt.ServiceClaims{Service: "auth-service", Role: customjwt.RoleTrusted},
			setupMock: func(m *MockService) {
				m.On("ByEmail", mock.Anything, "ann@example.com", true).
					Return([]models.User{{ID: "u-1", PasswordHash: &hash}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var user map[string]any
				require.NoError(t, json.Unmarshal(body, &user))
				assert.Equal(t, hash, user["password"])
			},
		},
		{
			name:   "untrusted role is treated as anonymous",
			caller: &customjwt.ServiceClaims{Service: "payment-service", Role: "internal"},
			setupMock: func(m *MockService) {
				m.On("ByEmail", mock.Anything, "ann@example.com", false).
					Return([]models.User{{ID: "u-1"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "several users are returned as array",
			setupMock: func(m *MockService) {
				m.On("ByEmail", mock.Anything, "ann@example.com", false).
					Return([]models.User{{ID: "u-1"}, {ID: "u-2"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var users []map[string]any
				require.NoError(t, json.Unmarshal(body, &users))
				assert.Len(t, users, 2)
			},
		},
		{
			name: "no users",
			setupMock: func(m *MockService) {
				m.On("ByEmail", mock.Anything, "ann@example.com", false).
					Return(nil, fmt.Errorf("users.ByEmail: %w: user not found", models.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"status":"Error","error":"user not found"}`, string(body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest("ann@example.com", tt.caller))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				tt.check(t, w.Body.Bytes())
			}
			svc.AssertExpectations(t)
		})
	}
}
