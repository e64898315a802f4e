package store

import (
	"database/sql"
	"testing"

	"github.com/shophouse/shophouse/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// An in-memory database exists per connection; pin the pool to one
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	us := NewUserStore(db)
	u, err := us.Create(email, "hashed-password")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u.ID
}
