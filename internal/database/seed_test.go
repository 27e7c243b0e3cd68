package database

import (
	"strings"
	"testing"
)

func TestLocalUserID(t *testing.T) {
	a, b := LocalUserID(), LocalUserID()
	if !strings.HasPrefix(a, "local_") {
		t.Errorf("LocalUserID() = %q, want local_ prefix", a)
	}
	if a == b {
		t.Error("LocalUserID() returned the same id twice")
	}
}

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes into an empty users table, so running it twice
	// against a shared database must not fail.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var users int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users < 1 {
		t.Errorf("expected at least 1 user after seeding, got %d", users)
	}
}
