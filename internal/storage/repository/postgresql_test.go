package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &Storage{DB: db}, mock
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "no rows", in: sql.ErrNoRows, want: models.ErrNotFound},
		{name: "unique violation", in: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: models.ErrConflict},
		{name: "foreign key violation", in: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: models.ErrValidation},
		{name: "invalid uuid", in: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, want: models.ErrNotFound},
		{name: "not null", in: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, want: models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.in), tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
}

func TestBuildUpdate(t *testing.T) {
	var set patch.Set
	set.Add("name", "Ann")
	set.Add("sector", nil)

	query, args := buildUpdate("users", "id", "u-1", set, true, "id")

	assert.Equal(t, "UPDATE users SET name = $1, sector = $2, updated_at = NOW() WHERE id = $3 RETURNING id", query)
	assert.Equal(t, []any{"Ann", nil, "u-1"}, args)
}

func TestStorage_FindLapsedSubscriptions(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := now.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.id, s.user_id, u.email, s.end_date`)).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email", "end_date"}).
			AddRow("s-1", "u-1", "a@example.com", end).
			AddRow("s-2", "u-2", "b@example.com", end))

	got, err := storage.FindLapsedSubscriptions(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.LapsedSubscription{SubscriptionID: "s-1", UserID: "u-1", Email: "a@example.com", EndDate: end}, got[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ExpireSubscription(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "active subscription flipped", affected: 1, want: true},
		{name: "already expired", affected: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, mock := newMockStorage(t)
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions`)).
				WithArgs(models.SubscriptionStatusExpired, "s-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			got, err := storage.ExpireSubscription(context.Background(), "s-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_MarkUserUnsubscribed(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, storage.MarkUserUnsubscribed(context.Background(), "u-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetAccountByProvider_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts`)).
		WithArgs("google", "123").
		WillReturnError(sql.ErrNoRows)

	_, err := storage.GetAccountByProvider(context.Background(), "google", "123")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_CreateAccount_Conflict(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_provider_account_key"})

	_, err := storage.CreateAccount(context.Background(), models.Account{UserID: "u-1", Provider: "google", ProviderAccountID: "123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestStorage_CreateUserWithAccount_RollsBackOnAccountFailure(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "normalized_email", "password_hash", "oauth_provider",
			"oauth_provider_id", "is_admin", "is_verified", "verification_token", "reset_token",
			"reset_token_expiry", "is_subscribed", "subscription_id", "num_subscription_id",
			"subscription_end_date", "sector", "is_profile_completed", "created_at", "updated_at",
		}).AddRow("u-1", "Ann", "Ann@Example.com", "ann@example.com", nil, nil,
			nil, false, true, nil, nil,
			nil, false, nil, nil,
			nil, nil, false, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()

	_, err := storage.CreateUserWithAccount(context.Background(),
		models.User{Name: "Ann", Email: "Ann@Example.com", NormalizedEmail: "ann@example.com", IsVerified: true},
		models.Account{Provider: "google", ProviderAccountID: "123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_DeleteAnalysis_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM analyses WHERE id = $1`)).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.DeleteAnalysis(context.Background(), "a-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_CanceledContext(t *testing.T) {
	storage, _ := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetUserByID(ctx, "u-1")
	assert.ErrorIs(t, err, context.Canceled)
}
