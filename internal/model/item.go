package model

import "time"

// Item represents a found object catalogued by an admin. An item is claimable
// until a claim on it is approved, at which point it is permanently bound to
// its owner.
type Item struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	DateFound   string    `json:"date_found"`
	Description string    `json:"description,omitempty"`
	IsClaimed   bool      `json:"is_claimed"`
	OwnerID     *int64    `json:"owner_id,omitempty"`
	PhotoMime   string    `json:"photo_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	OwnerName string `json:"owner_name,omitempty"`
}
