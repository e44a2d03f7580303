package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
)

func TestGetJWTSecret(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if len(secret) != 64 {
		t.Errorf("expected 64-char hex secret, got %d chars", len(secret))
	}

	// The secret is stable across calls.
	again, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret (second call): %v", err)
	}
	if again != secret {
		t.Error("expected the same secret on repeated calls")
	}
}
