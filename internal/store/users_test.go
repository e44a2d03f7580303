package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "alice", "alice@test.local", "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@test.local" {
		t.Errorf("unexpected user %+v", user)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", user.Role)
	}

	got, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("expected to find alice by username, got %+v", got)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "alice", "alice@test.local", "hash", model.RoleUser)

	if _, err := CreateUser(ctx, database, "alice", "other@test.local", "hash", model.RoleUser); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists for duplicate username, got %v", err)
	}
	if _, err := CreateUser(ctx, database, "bob", "alice@test.local", "hash", model.RoleUser); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestSoftDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "alice@test.local", "hash", model.RoleUser)
	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected 0 users after soft delete, got %d", len(users))
	}

	// Still fetchable by ID so claims and reports keep their joins.
	got, _ := GetUser(ctx, database, user.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted user to remain fetchable with deleted_at set")
	}

	// The username is reusable after soft deletion.
	if _, err := CreateUser(ctx, database, "alice", "alice2@test.local", "hash", model.RoleUser); err != nil {
		t.Errorf("expected username reuse after soft delete, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "alice@test.local", "hash", model.RoleUser)
	if err := UpdateUserRole(ctx, database, user.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", got.Role)
	}
}
