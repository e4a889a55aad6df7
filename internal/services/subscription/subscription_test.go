package subscription_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/subscription"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) SetUserSubscription(ctx context.Context, userID string, state models.SubscriptionState) (*models.User, error) {
	args := m.Called(ctx, userID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) GetSubscriptionByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptionsByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *RepoMock) UpdateSubscription(ctx context.Context, id string, set patch.Set) (*models.Subscription, error) {
	args := m.Called(ctx, id, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func strPtr(s string) *string { return &s }

func userFlagged(subID, stripeID string, end time.Time) any {
	return mock.MatchedBy(func(st models.SubscriptionState) bool {
		return st.IsSubscribed != nil && *st.IsSubscribed &&
			st.NumSubscriptionID != nil && *st.NumSubscriptionID == subID &&
			st.SubscriptionID != nil && *st.SubscriptionID == stripeID &&
			st.SubscriptionEndDate != nil && st.SubscriptionEndDate.Equal(end)
	})
}

func TestService_Create(t *testing.T) {
	end := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	in := subscription.CreateInput{UserID: "u-1", StripeSubscriptionID: strPtr("sub_1"), EndDate: end}

	tests := []struct {
		name        string
		in          subscription.CreateInput
		setupMocks  func(r *RepoMock)
		wantErr     error
		wantCreated bool
		wantID      string
	}{
		{
			name:    "missing end date",
			in:      subscription.CreateInput{UserID: "u-1"},
			wantErr: models.ErrValidation,
		},
		{
			name: "unknown user",
			in:   in,
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-1").Return(nil, models.ErrNotFound)
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "first subscription is created",
			in:   in,
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1"}, nil)
				r.On("GetSubscriptionByUser", mock.Anything, "u-1").Return(nil, models.ErrNotFound)
				r.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.UserID == "u-1" && s.IsActive && s.Status == models.SubscriptionStatusActive && s.EndDate.Equal(end)
				})).Return(&models.Subscription{ID: "s-1", UserID: "u-1"}, nil)
				r.On("SetUserSubscription", mock.Anything, "u-1", userFlagged("s-1", "sub_1", end)).
					Return(&models.User{ID: "u-1", IsSubscribed: true}, nil)
			},
			wantCreated: true,
			wantID:      "s-1",
		},
		{
			name: "existing subscription is renewed in place",
			in:   in,
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1"}, nil)
				r.On("GetSubscriptionByUser", mock.Anything, "u-1").Return(&models.Subscription{ID: "s-0", UserID: "u-1"}, nil)
				r.On("UpdateSubscription", mock.Anything, "s-0", mock.MatchedBy(func(set patch.Set) bool {
					active, _ := set.Get("is_active")
					ref, _ := set.Get("stripe_subscription_id")
					return active == true && ref == "sub_1"
				})).Return(&models.Subscription{ID: "s-0", UserID: "u-1"}, nil)
				r.On("SetUserSubscription", mock.Anything, "u-1", userFlagged("s-0", "sub_1", end)).
					Return(&models.User{ID: "u-1", IsSubscribed: true}, nil)
			},
			wantID: "s-0",
		},
		{
			name: "duplicate billing reference",
			in:   in,
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1"}, nil)
				r.On("GetSubscriptionByUser", mock.Anything, "u-1").Return(nil, models.ErrNotFound)
				r.On("CreateSubscription", mock.Anything, mock.Anything).Return(nil, models.ErrConflict)
			},
			wantErr: models.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			svc := subscription.New(repo, newNoopLogger())

			sub, created, err := svc.Create(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, tt.wantID, sub.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Get_AttachesUser(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetSubscription", mock.Anything, "s-1").Return(&models.Subscription{ID: "s-1", UserID: "u-1"}, nil)
	repo.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1", PasswordHash: strPtr("hash")}, nil)

	sub, err := subscription.New(repo, newNoopLogger()).Get(context.Background(), "s-1")
	require.NoError(t, err)
	require.NotNil(t, sub.User)
	assert.Equal(t, "u-1", sub.User.ID)
	assert.Nil(t, sub.User.PasswordHash)
}

func TestService_ListByUser(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByID", mock.Anything, "u-9").Return(nil, models.ErrNotFound)

		_, err := subscription.New(repo, newNoopLogger()).ListByUser(context.Background(), "u-9")
		assert.ErrorIs(t, err, models.ErrNotFound)
		repo.AssertNotCalled(t, "ListSubscriptionsByUser", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1"}, nil)
		repo.On("ListSubscriptionsByUser", mock.Anything, "u-1").Return(nil, errors.New("db down"))

		_, err := subscription.New(repo, newNoopLogger()).ListByUser(context.Background(), "u-1")
		require.Error(t, err)
	})
}
