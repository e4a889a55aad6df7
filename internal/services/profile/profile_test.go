package profile_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/profile"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUser(ctx context.Context, id string, set patch.Set) (*models.User, error) {
	args := m.Called(ctx, id, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CreateProfile(ctx context.Context, p models.ProfessionalProfile) (*models.ProfessionalProfile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfessionalProfile), args.Error(1)
}

func (m *RepoMock) GetProfileByUser(ctx context.Context, userID string) (*models.ProfessionalProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfessionalProfile), args.Error(1)
}

func (m *RepoMock) UpdateProfileByUser(ctx context.Context, userID string, set patch.Set) (*models.ProfessionalProfile, error) {
	args := m.Called(ctx, userID, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfessionalProfile), args.Error(1)
}

func (m *RepoMock) DeleteProfileByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		in         profile.CreateInput
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:    "missing user id",
			wantErr: models.ErrValidation,
		},
		{
			name: "unknown user",
			in:   profile.CreateInput{UserID: "u-9"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-9").Return(nil, models.ErrNotFound)
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "profile already exists",
			in:   profile.CreateInput{UserID: "u-1"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1"}, nil)
				r.On("GetProfileByUser", mock.Anything, "u-1").Return(&models.ProfessionalProfile{ID: "p-0"}, nil)
			},
			wantErr: models.ErrConflict,
		},
		{
			name: "created and user marked completed",
			in:   profile.CreateInput{UserID: "u-1", Bio: strPtr("<b>Senior</b> dev"), Skills: []string{"go"}},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByID", mock.Anything, "u-1").Return(&models.User{ID: "u-1"}, nil)
				r.On("GetProfileByUser", mock.Anything, "u-1").Return(nil, models.ErrNotFound)
				r.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p models.ProfessionalProfile) bool {
					return p.Bio != nil && *p.Bio == "Senior dev" && len(p.Skills) == 1
				})).Return(&models.ProfessionalProfile{ID: "p-1", UserID: "u-1"}, nil)
				r.On("UpdateUser", mock.Anything, "u-1", mock.MatchedBy(func(set patch.Set) bool {
					v, ok := set.Get("is_profile_completed")
					return ok && v == true
				})).Return(&models.User{ID: "u-1", IsProfileCompleted: true}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			p, err := profile.New(repo, newNoopLogger()).Create(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p-1", p.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_GetByUser_UnknownUser(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUserByID", mock.Anything, "u-9").Return(nil, models.ErrNotFound)

	_, err := profile.New(repo, newNoopLogger()).GetByUser(context.Background(), "u-9")
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "GetProfileByUser", mock.Anything, mock.Anything)
}

func TestUpdateFields(t *testing.T) {
	set, err := patch.Parse([]byte(`{"skills":["go","sql"],"userId":"x","hourlyRate":null}`), profile.UpdateFields)
	require.NoError(t, err)

	assert.Equal(t, []string{"hourly_rate", "skills"}, set.Columns())
	skills, _ := set.Get("skills")
	assert.JSONEq(t, `["go","sql"]`, string(skills.([]byte)))
}
