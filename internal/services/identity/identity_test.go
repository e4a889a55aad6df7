package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bdd-service/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByNormalizedEmail(ctx context.Context, normalizedEmail string) (*models.User, error) {
	args := m.Called(ctx, normalizedEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockRepository) CreateUserWithAccount(ctx context.Context, user models.User, account models.Account) (*models.User, error) {
	args := m.Called(ctx, user, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordIdentityOutcome(outcome string) {
	m.Called(outcome)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func strPtr(s string) *string { return &s }

func TestResolver_ResolveOAuthIdentity(t *testing.T) {
	identity := models.OAuthIdentity{
		Name:              "Ann",
		Provider:          "google",
		ProviderAccountID: "g-123",
		Email:             "A.nn@Gmail.com",
	}
	existing := &models.User{
		ID:              "user-1",
		Email:           "ann@gmail.com",
		NormalizedEmail: "ann@gmail.com",
		PasswordHash:    strPtr("$2a$10$hash"),
	}

	tests := []struct {
		name        string
		setupMocks  func(*MockRepository)
		wantOutcome Outcome
		wantUserID  string
		wantErr     error
	}{
		{
			name: "existing account logs in",
			setupMocks: func(r *MockRepository) {
				r.On("GetAccountByProvider", mock.Anything, "google", "g-123").
					Return(&models.Account{ID: "acc-1", UserID: "user-1"}, nil).Once()
				r.On("GetUserByID", mock.Anything, "user-1").Return(existing, nil).Once()
			},
			wantOutcome: LoggedIn,
			wantUserID:  "user-1",
		},
		{
			name: "user with same normalized email gets account linked",
			setupMocks: func(r *MockRepository) {
				r.On("GetAccountByProvider", mock.Anything, "google", "g-123").Return(nil, models.ErrNotFound).Once()
				r.On("GetUserByNormalizedEmail", mock.Anything, "ann@gmail.com").Return(existing, nil).Once()
				r.On("CreateAccount", mock.Anything, models.Account{
					UserID: "user-1", Provider: "google", ProviderAccountID: "g-123",
				}).Return(&models.Account{ID: "acc-2", UserID: "user-1"}, nil).Once()
			},
			wantOutcome: Linked,
			wantUserID:  "user-1",
		},
		{
			name: "unknown identity creates verified user with account",
			setupMocks: func(r *MockRepository) {
				r.On("GetAccountByProvider", mock.Anything, "google", "g-123").Return(nil, models.ErrNotFound).Once()
				r.On("GetUserByNormalizedEmail", mock.Anything, "ann@gmail.com").Return(nil, models.ErrNotFound).Once()
				r.On("CreateUserWithAccount", mock.Anything,
					models.User{Name: "Ann", Email: "A.nn@Gmail.com", NormalizedEmail: "ann@gmail.com", IsVerified: true},
					models.Account{Provider: "google", ProviderAccountID: "g-123"},
				).Return(&models.User{ID: "user-2", Email: "A.nn@Gmail.com", NormalizedEmail: "ann@gmail.com", IsVerified: true}, nil).Once()
			},
			wantOutcome: Created,
			wantUserID:  "user-2",
		},
		{
			name: "link race on the provider pair is a conflict",
			setupMocks: func(r *MockRepository) {
				r.On("GetAccountByProvider", mock.Anything, "google", "g-123").Return(nil, models.ErrNotFound).Once()
				r.On("GetUserByNormalizedEmail", mock.Anything, "ann@gmail.com").Return(existing, nil).Once()
				r.On("CreateAccount", mock.Anything, mock.Anything).Return(nil, models.ErrConflict).Once()
			},
			wantErr: models.ErrConflict,
		},
		{
			name: "create race on the provider pair is a conflict",
			setupMocks: func(r *MockRepository) {
				r.On("GetAccountByProvider", mock.Anything, "google", "g-123").Return(nil, models.ErrNotFound).Once()
				r.On("GetUserByNormalizedEmail", mock.Anything, "ann@gmail.com").Return(nil, models.ErrNotFound).Once()
				r.On("CreateUserWithAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil, models.ErrConflict).Once()
			},
			wantErr: models.ErrConflict,
		},
		{
			name: "storage failure on lookup is returned",
			setupMocks: func(r *MockRepository) {
				r.On("GetAccountByProvider", mock.Anything, "google", "g-123").Return(nil, errors.New("connection refused")).Once()
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMocks(repo)
			resolver := NewResolver(repo, nil, newNoopLogger())

			got, err := resolver.ResolveOAuthIdentity(context.Background(), identity)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrConflict) {
					assert.ErrorIs(t, err, models.ErrConflict)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutcome, got.Outcome)
				assert.Equal(t, tt.wantUserID, got.User.ID)
				assert.Nil(t, got.User.PasswordHash, "password hash must not leak")
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestResolver_ResolveOAuthIdentity_ValidationMakesNoStorageCalls(t *testing.T) {
	tests := []struct {
		name     string
		identity models.OAuthIdentity
	}{
		{name: "missing email", identity: models.OAuthIdentity{Provider: "google", ProviderAccountID: "1"}},
		{name: "blank email", identity: models.OAuthIdentity{Provider: "google", ProviderAccountID: "1", Email: "  "}},
		{name: "missing provider", identity: models.OAuthIdentity{ProviderAccountID: "1", Email: "a@b.c"}},
		{name: "missing provider account id", identity: models.OAuthIdentity{Provider: "google", Email: "a@b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			resolver := NewResolver(repo, nil, newNoopLogger())

			got, err := resolver.ResolveOAuthIdentity(context.Background(), tt.identity)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Nil(t, got)
			repo.AssertNotCalled(t, "GetAccountByProvider", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "CreateUserWithAccount", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestResolver_ResolveOAuthIdentity_FastPathIsIdempotent(t *testing.T) {
	identity := models.OAuthIdentity{Provider: "github", ProviderAccountID: "42", Email: "dev@example.com"}
	user := &models.User{ID: "user-9", Email: "dev@example.com", NormalizedEmail: "dev@example.com"}

	repo := new(MockRepository)
	repo.On("GetAccountByProvider", mock.Anything, "github", "42").Return(&models.Account{UserID: "user-9"}, nil).Twice()
	repo.On("GetUserByID", mock.Anything, "user-9").Return(user, nil).Twice()
	metrics := new(MockMetrics)
	metrics.On("RecordIdentityOutcome", string(LoggedIn)).Twice()

	resolver := NewResolver(repo, metrics, newNoopLogger())
	first, err := resolver.ResolveOAuthIdentity(context.Background(), identity)
	require.NoError(t, err)
	second, err := resolver.ResolveOAuthIdentity(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.False(t, first.Created())
	assert.False(t, second.Linked())
	repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateUserWithAccount", mock.Anything, mock.Anything, mock.Anything)
	metrics.AssertExpectations(t)
}

func TestResolver_ResolveOAuthIdentity_LinkLeavesUserUntouched(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "Ann@Example.com", NormalizedEmail: "ann@example.com", Name: "Ann"}
	repo := new(MockRepository)
	repo.On("GetAccountByProvider", mock.Anything, "github", "7").Return(nil, models.ErrNotFound).Once()
	repo.On("GetUserByNormalizedEmail", mock.Anything, "ann@example.com").Return(user, nil).Once()
	repo.On("CreateAccount", mock.Anything, mock.Anything).Return(&models.Account{ID: "acc"}, nil).Once()

	got, err := NewResolver(repo, nil, newNoopLogger()).ResolveOAuthIdentity(context.Background(),
		models.OAuthIdentity{Name: "Other Name", Provider: "github", ProviderAccountID: "7", Email: "ANN@example.com"})
	require.NoError(t, err)

	assert.True(t, got.Linked())
	assert.Equal(t, "Ann", got.User.Name)
	assert.Equal(t, "Ann@Example.com", got.User.Email)
	repo.AssertNotCalled(t, "CreateUserWithAccount", mock.Anything, mock.Anything, mock.Anything)
}
