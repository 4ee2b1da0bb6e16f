// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"nordicos/internal/database"
	"nordicos/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "nordicos")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "nordicos")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway account removed when the test ends.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	name := "st-" + uuid.NewString()[:12]
	u, err := NewUserStore(db).Create(context.Background(), name, name+"@store-test.local", "pw-123456", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testCategory creates a category; its votes and nominees are purged on cleanup.
func testCategory(t *testing.T, db *sql.DB, allowMultiple bool) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{
		Name:               "Store Test " + uuid.NewString()[:8],
		IsActive:           true,
		VotingEnabled:      true,
		AllowMultipleVotes: allowMultiple,
		MaxNominees:        5,
		Year:               2026,
	}, nil)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { cleanCategory(db, c.ID) })
	return c
}

func testNominee(t *testing.T, db *sql.DB, categoryID uuid.UUID, name string) *models.Nominee {
	t.Helper()
	n, err := NewNomineeStore(db).Create(context.Background(), &models.Nominee{
		CategoryID: categoryID,
		Name:       name,
		MediaType:  models.DisplayNone,
		IsActive:   true,
	}, nil)
	if err != nil {
		t.Fatalf("create test nominee: %v", err)
	}
	return n
}

// cleanCategory removes a category and everything that references it.
func cleanCategory(db *sql.DB, id uuid.UUID) {
	db.Exec("DELETE FROM votes WHERE category_id = $1", id)
	db.Exec("DELETE FROM nominees WHERE category_id = $1", id)
	db.Exec("DELETE FROM categories WHERE id = $1", id)
}
