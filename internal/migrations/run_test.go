package migrations

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bdd"),
		postgres.WithUsername("bdd"),
		postgres.WithPassword("bdd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRun(t *testing.T) {
	db := startPostgres(t)

	require.NoError(t, Run(db))

	t.Run("tables", func(t *testing.T) {
		for _, table := range []string{
			"users", "accounts", "subscriptions", "quotes",
			"quote_requests", "professional_profiles", "analyses",
		} {
			var n int
			err := db.QueryRow(`SELECT count(*) FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1`, table).Scan(&n)
			require.NoError(t, err)
			assert.Equal(t, 1, n, "table %s", table)
		}
	})

	t.Run("indexes", func(t *testing.T) {
		for _, index := range []string{
			"idx_subscriptions_active_end_date",
			"idx_accounts_user_id",
			"idx_quote_requests_user_id",
		} {
			var n int
			err := db.QueryRow(`SELECT count(*) FROM pg_indexes
				WHERE schemaname = 'public' AND indexname = $1`, index).Scan(&n)
			require.NoError(t, err)
			assert.Equal(t, 1, n, "index %s", index)
		}
	})

	t.Run("provider pair is unique", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO users (id, name, email, normalized_email)
			VALUES ('00000000-0000-0000-0000-000000000001', 'Ann', 'a.nn@gmail.com', 'ann@gmail.com')`)
		require.NoError(t, err)

		insert := `INSERT INTO accounts (id, user_id, provider, provider_account_id)
			VALUES ($1, '00000000-0000-0000-0000-000000000001', 'google', 'g-1')`
		_, err = db.Exec(insert, "00000000-0000-0000-0000-00000000000a")
		require.NoError(t, err)
		_, err = db.Exec(insert, "00000000-0000-0000-0000-00000000000b")
		assert.Error(t, err)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		assert.NoError(t, Run(db))
	})
}
