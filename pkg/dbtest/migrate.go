package dbtest

import (
	"context"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
)

const envDSN = "TEST_PG_DSN"

// Connect opens the database from TEST_PG_DSN and applies migrate. The test is
// skipped when the variable is not set.
func Connect(t *testing.T, migrate func(context.Context, *sqlx.DB) error) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(envDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envDSN)
	}

	ctx := context.Background()

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.ConnectContext: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if migrate != nil {
		if err := migrate(ctx, db); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	return db
}
