package store

// Listing defaults and bounds.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// normalizePage clamps page and limit to sane values so every listing shares
// the same paging behavior.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
