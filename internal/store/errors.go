package store

import "errors"

// Business-rule errors. Handlers map these to HTTP statuses; stores never
// surface raw sql errors for rule violations.
var (
	ErrItemNotFound       = errors.New("item not found")
	ErrItemAlreadyClaimed = errors.New("item is already claimed")
	ErrDuplicateClaim     = errors.New("an active claim for this item already exists")
	ErrClaimBlocked       = errors.New("a rejected claim permanently blocks this item")
	ErrClaimNotFound      = errors.New("claim not found")
	ErrClaimNotPending    = errors.New("claim has already been decided")
	ErrReportNotFound     = errors.New("report not found")
	ErrReportNotActive    = errors.New("report is not active")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already in use")
	ErrNotOwner           = errors.New("entity belongs to another user")
	ErrTooManyPhotos      = errors.New("report already has the maximum number of photos")
	ErrPhotoNotFound      = errors.New("photo not found")
)

// ValidationError describes a single malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
