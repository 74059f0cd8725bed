package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

const defaultTestMigrationsPath = "../../../migrations"

// CreateTestPool connects to TEST_POSTGRESQL_URL with migrations applied.
// The test is skipped when the variable is not set.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set")
	}
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = defaultTestMigrationsPath
	}
	if err := ApplyMigrations(migrationsPath, connString); err != nil {
		t.Fatalf("%v", err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("Could not connect to the database: %v", err)
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE tasks")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
