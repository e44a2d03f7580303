package model

import "time"

// Claim represents a user's request to take ownership of a catalogued item.
// A claim starts pending and is decided exactly once by an admin; a pending
// claim can instead be withdrawn (deleted) by its claimant.
type Claim struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Status    string    `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ClaimantName  string `json:"claimant_name,omitempty"`
	ClaimantEmail string `json:"claimant_email,omitempty"`
	ItemCode      string `json:"item_code,omitempty"`
	ItemName      string `json:"item_name,omitempty"`
}

// Claim statuses.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)
