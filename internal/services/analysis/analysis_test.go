package analysis_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bdd-service/internal/models"
	"github.com/magabrotheeeer/bdd-service/internal/services/analysis"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateAnalysis(ctx context.Context, a models.Analysis) (*models.Analysis, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analysis), args.Error(1)
}

func (m *RepoMock) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analysis), args.Error(1)
}

func (m *RepoMock) ListAnalysesByUser(ctx context.Context, userID string) ([]models.Analysis, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Analysis), args.Error(1)
}

func (m *RepoMock) DeleteAnalysis(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		in      analysis.CreateInput
		wantErr error
	}{
		{name: "missing file name", in: analysis.CreateInput{UserID: "u-1", AnalysisResult: json.RawMessage(`{}`)}, wantErr: models.ErrValidation},
		{name: "null result", in: analysis.CreateInput{UserID: "u-1", FileName: "a.pdf", AnalysisResult: json.RawMessage(`null`)}, wantErr: models.ErrValidation},
		{name: "stored", in: analysis.CreateInput{UserID: "u-1", FileName: "a.pdf", AnalysisResult: json.RawMessage(`{"pages":2}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("CreateAnalysis", mock.Anything, mock.Anything).
				Return(&models.Analysis{ID: "a-1", UserID: "u-1"}, nil).Maybe()

			a, err := analysis.New(repo, newNoopLogger()).Create(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "CreateAnalysis", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a-1", a.ID)
		})
	}
}

func TestService_GetAndDelete_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetAnalysis", mock.Anything, "a-9").Return(nil, models.ErrNotFound)
	repo.On("DeleteAnalysis", mock.Anything, "a-9").Return(models.ErrNotFound)
	svc := analysis.New(repo, newNoopLogger())

	_, err := svc.Get(context.Background(), "a-9")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "a-9"), models.ErrNotFound)
}
