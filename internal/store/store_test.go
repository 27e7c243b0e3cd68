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

	"storefront/internal/database"
	"storefront/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "storefront")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "storefront")
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

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns a short unique suffix so parallel runs never collide on
// unique columns.
func uniq() string {
	return uuid.NewString()[:8]
}

// cleanUsers removes test users by id. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM users WHERE id = $1", id)
	}
}

// cleanCategories removes test categories (and their sub-categories).
func cleanCategories(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM products WHERE category_id = $1", id)
		db.Exec("DELETE FROM categories WHERE id = $1", id)
	}
}

// seedSeller creates a seller account and returns it.
func seedSeller(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	u, err := NewUserStore(db).UpsertByEmail(context.Background(), &models.User{
		ID:    "user_test_" + uniq(),
		Email: "seller-" + uniq() + "@store-test.local",
		Name:  "Test Seller",
	})
	if err != nil {
		t.Fatalf("seed seller: %v", err)
	}
	if err := NewUserStore(db).SetRole(context.Background(), u.ID, models.RoleSeller); err != nil {
		t.Fatalf("seed seller role: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, u.ID) })
	return u
}

// seedCategoryTree creates a category with one sub-category.
func seedCategoryTree(t *testing.T, db *sql.DB) (*models.Category, *models.SubCategory) {
	t.Helper()
	ctx := context.Background()
	u := uniq()

	c, err := NewCategoryStore(db).Upsert(ctx, &models.Category{
		Name: "Cat " + u, URL: "cat-" + u, Image: "https://cdn.test/cat.png",
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, c.ID) })

	sc, err := NewSubCategoryStore(db).Upsert(ctx, &models.SubCategory{
		Name: "Sub " + u, URL: "sub-" + u, Image: "https://cdn.test/sub.png", CategoryID: c.ID,
	})
	if err != nil {
		t.Fatalf("seed sub-category: %v", err)
	}
	return c, sc
}

// seedStore creates a store owned by owner.
func seedStore(t *testing.T, db *sql.DB, owner *models.User) *models.Store {
	t.Helper()
	u := uniq()
	st, err := NewStoreStore(db).Upsert(context.Background(), &models.Store{
		Name:        "Shop " + u,
		Description: "A store used by the store package integration tests.",
		Email:       "shop-" + u + "@store-test.local",
		Phone:       "+8491" + u[:4] + "0000",
		URL:         "shop-" + u,
		Logo:        "https://cdn.test/logo.png",
		Cover:       "https://cdn.test/cover.png",
		UserID:      owner.ID,
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return st
}
