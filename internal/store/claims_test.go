package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func createTestUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), database, username, username+"@test.local", "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return user
}

func createTestItem(t *testing.T, database *sql.DB, name string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, ItemInput{
		Name:      name,
		Category:  "electronics",
		Location:  "library",
		DateFound: "2024-05-01",
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return item
}

func TestSubmitClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	item := createTestItem(t, database, "Headphones")

	claim, err := SubmitClaim(ctx, database, user.ID, item.ID)
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	if claim.Status != model.ClaimStatusPending {
		t.Errorf("expected status 'pending', got %q", claim.Status)
	}
	if claim.Code == "" {
		t.Error("expected a generated claim code")
	}
	if claim.ClaimantName != "alice" || claim.ItemName != "Headphones" {
		t.Errorf("expected joined fields populated, got %+v", claim)
	}

	// Item stays unclaimed until approval.
	got, _ := GetItem(ctx, database, item.ID)
	if got.IsClaimed {
		t.Error("expected item to remain unclaimed after submission")
	}
}

func TestSubmitClaimItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	user := createTestUser(t, database, "alice")

	_, err := SubmitClaim(context.Background(), database, user.ID, 999)
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSubmitClaimDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	item := createTestItem(t, database, "Wallet")

	if _, err := SubmitClaim(ctx, database, user.ID, item.ID); err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	_, err := SubmitClaim(ctx, database, user.ID, item.ID)
	if !errors.Is(err, ErrDuplicateClaim) {
		t.Errorf("expected ErrDuplicateClaim, got %v", err)
	}
}

func TestApproveClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	item := createTestItem(t, database, "Umbrella")
	claim, _ := SubmitClaim(ctx, database, user.ID, item.ID)

	approved, err := ApproveClaim(ctx, database, claim.ID, "ID verified")
	if err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}
	if approved.Status != model.ClaimStatusApproved {
		t.Errorf("expected status 'approved', got %q", approved.Status)
	}
	if approved.Remarks != "ID verified" {
		t.Errorf("expected remarks stored, got %q", approved.Remarks)
	}

	// Approval binds the item to the claimant.
	got, _ := GetItem(ctx, database, item.ID)
	if !got.IsClaimed {
		t.Error("expected item claimed after approval")
	}
	if got.OwnerID == nil || *got.OwnerID != user.ID {
		t.Errorf("expected owner %d, got %v", user.ID, got.OwnerID)
	}
}

func TestApproveClaimRejectsSiblings(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item := createTestItem(t, database, "Backpack")

	aliceClaim, _ := SubmitClaim(ctx, database, alice.ID, item.ID)
	bobClaim, _ := SubmitClaim(ctx, database, bob.ID, item.ID)

	if _, err := ApproveClaim(ctx, database, aliceClaim.ID, ""); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}

	// Bob's pending claim loses automatically.
	got, _ := GetClaim(ctx, database, bobClaim.ID)
	if got.Status != model.ClaimStatusRejected {
		t.Errorf("expected sibling claim rejected, got %q", got.Status)
	}
	if got.Remarks == "" {
		t.Error("expected system remark on auto-rejected sibling")
	}
}

func TestApproveClaimItemAlreadyClaimed(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item := createTestItem(t, database, "Phone")

	aliceClaim, _ := SubmitClaim(ctx, database, alice.ID, item.ID)
	bobClaim, _ := SubmitClaim(ctx, database, bob.ID, item.ID)

	if _, err := ApproveClaim(ctx, database, aliceClaim.ID, ""); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}

	// Bob's claim was auto-rejected, so deciding it again is a conflict.
	_, err := ApproveClaim(ctx, database, bobClaim.ID, "")
	if !errors.Is(err, ErrClaimNotPending) {
		t.Errorf("expected ErrClaimNotPending, got %v", err)
	}
}

func TestApproveClaimNotPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	item := createTestItem(t, database, "Keys")
	claim, _ := SubmitClaim(ctx, database, user.ID, item.ID)

	RejectClaim(ctx, database, claim.ID, "not yours")

	_, err := ApproveClaim(ctx, database, claim.ID, "")
	if !errors.Is(err, ErrClaimNotPending) {
		t.Errorf("expected ErrClaimNotPending, got %v", err)
	}
}

func TestRejectedClaimBlocksResubmission(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	item := createTestItem(t, database, "Laptop")
	claim, _ := SubmitClaim(ctx, database, user.ID, item.ID)

	rejected, err := RejectClaim(ctx, database, claim.ID, "not yours")
	if err != nil {
		t.Fatalf("RejectClaim: %v", err)
	}
	if rejected.Status != model.ClaimStatusRejected {
		t.Errorf("expected status 'rejected', got %q", rejected.Status)
	}

	// The item itself stays claimable by others.
	got, _ := GetItem(ctx, database, item.ID)
	if got.IsClaimed {
		t.Error("expected item unclaimed after rejection")
	}

	// Rejection is a permanent per-item block for this user.
	_, err = SubmitClaim(ctx, database, user.ID, item.ID)
	if !errors.Is(err, ErrClaimBlocked) {
		t.Errorf("expected ErrClaimBlocked, got %v", err)
	}
}

func TestWithdrawClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice")
	item := createTestItem(t, database, "Scarf")
	claim, _ := SubmitClaim(ctx, database, user.ID, item.ID)

	if err := WithdrawClaim(ctx, database, user.ID, claim.ID); err != nil {
		t.Fatalf("WithdrawClaim: %v", err)
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got != nil {
		t.Error("expected claim deleted after withdrawal")
	}

	// Withdrawal is not a rejection, so the user may claim again.
	if _, err := SubmitClaim(ctx, database, user.ID, item.ID); err != nil {
		t.Errorf("expected resubmission after withdrawal to succeed, got %v", err)
	}
}

func TestWithdrawClaimErrors(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item := createTestItem(t, database, "Glasses")
	claim, _ := SubmitClaim(ctx, database, alice.ID, item.ID)

	if err := WithdrawClaim(ctx, database, bob.ID, claim.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if err := WithdrawClaim(ctx, database, alice.ID, 999); !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("expected ErrClaimNotFound, got %v", err)
	}

	ApproveClaim(ctx, database, claim.ID, "")
	if err := WithdrawClaim(ctx, database, alice.ID, claim.ID); !errors.Is(err, ErrClaimNotPending) {
		t.Errorf("expected ErrClaimNotPending, got %v", err)
	}
}

func TestSubmitClaimOnClaimedItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item := createTestItem(t, database, "Charger")

	claim, _ := SubmitClaim(ctx, database, alice.ID, item.ID)
	ApproveClaim(ctx, database, claim.ID, "")

	_, err := SubmitClaim(ctx, database, bob.ID, item.ID)
	if !errors.Is(err, ErrItemAlreadyClaimed) {
		t.Errorf("expected ErrItemAlreadyClaimed, got %v", err)
	}
}

func TestListClaims(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice")
	bob := createTestUser(t, database, "bob")
	item1 := createTestItem(t, database, "Book")
	item2 := createTestItem(t, database, "Pen")

	SubmitClaim(ctx, database, alice.ID, item1.ID)
	SubmitClaim(ctx, database, bob.ID, item1.ID)
	bobClaim, _ := SubmitClaim(ctx, database, bob.ID, item2.ID)
	RejectClaim(ctx, database, bobClaim.ID, "")

	all, pagination, err := ListClaims(ctx, database, ClaimFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(all) != 3 || pagination.Total != 3 {
		t.Errorf("expected 3 claims, got %d (total %d)", len(all), pagination.Total)
	}

	pending, _, _ := ListClaims(ctx, database, ClaimFilter{Status: model.ClaimStatusPending}, 1, 20)
	if len(pending) != 2 {
		t.Errorf("expected 2 pending claims, got %d", len(pending))
	}

	bobs, _, _ := ListClaims(ctx, database, ClaimFilter{UserID: bob.ID}, 1, 20)
	if len(bobs) != 2 {
		t.Errorf("expected 2 claims for bob, got %d", len(bobs))
	}

	// Free-text search matches claimant name and codes.
	byName, _, _ := ListClaims(ctx, database, ClaimFilter{Query: "alice"}, 1, 20)
	if len(byName) != 1 {
		t.Errorf("expected 1 claim matching 'alice', got %d", len(byName))
	}
	byItemCode, _, _ := ListClaims(ctx, database, ClaimFilter{Query: item2.Code}, 1, 20)
	if len(byItemCode) != 1 {
		t.Errorf("expected 1 claim matching item code, got %d", len(byItemCode))
	}
}
