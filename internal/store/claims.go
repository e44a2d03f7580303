package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// siblingRemark is stamped on pending claims that lose to an approved claim
// on the same item.
const siblingRemark = "item was awarded to another claimant"

// ClaimFilter selects claims for listing.
type ClaimFilter struct {
	Status string
	Query  string // substring match over claimant username/email, claim code, item code
	UserID int64  // restrict to one claimant; 0 means all (admin view)
}

// SubmitClaim creates a pending claim by userID on itemID.
//
// Preconditions, checked in one transaction: the item exists and is
// unclaimed, the user has no active (non-rejected) claim on it, and no
// rejected claim on it either — a rejection blocks the item for that user
// permanently. Duplicate submissions racing past the checks are caught by
// the partial unique index on (user_id, item_id) over non-rejected claims.
func SubmitClaim(ctx context.Context, db *sql.DB, userID, itemID int64) (*model.Claim, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var isClaimed bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_claimed FROM items WHERE id = ?`, itemID,
	).Scan(&isClaimed)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if isClaimed {
		return nil, ErrItemAlreadyClaimed
	}

	var rejected, active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FILTER (WHERE status = 'rejected'),
		        COUNT(*) FILTER (WHERE status != 'rejected')
		 FROM claims WHERE user_id = ? AND item_id = ?`,
		userID, itemID,
	).Scan(&rejected, &active)
	if err != nil {
		return nil, fmt.Errorf("checking existing claims: %w", err)
	}
	if rejected > 0 {
		return nil, ErrClaimBlocked
	}
	if active > 0 {
		return nil, ErrDuplicateClaim
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO claims (code, user_id, item_id) VALUES (?, ?, ?)`,
		newCode(claimCodePrefix), userID, itemID,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateClaim
	}
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetClaim(ctx, db, id)
}

// ApproveClaim decides a pending claim in the claimant's favor: the claim
// becomes approved, the item becomes claimed with the claimant as owner, and
// every other pending claim on the item is auto-rejected with a system
// remark. The item update is conditional on is_claimed = 0 so that two
// concurrent approvals on the same item cannot both win.
func ApproveClaim(ctx context.Context, db *sql.DB, claimID int64, remarks string) (*model.Claim, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var userID, itemID int64
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, item_id, status FROM claims WHERE id = ?`, claimID,
	).Scan(&userID, &itemID, &status)
	if err == sql.ErrNoRows {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	if status != model.ClaimStatusPending {
		return nil, ErrClaimNotPending
	}

	// Conditional write: only one approval per item can ever succeed.
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET is_claimed = 1, owner_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_claimed = 0`,
		userID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrItemAlreadyClaimed
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE claims SET status = 'approved', remarks = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		remarks, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("approving claim: %w", err)
	}

	// Losing pending claims on the same item are rejected so their owners
	// are not left with claims that can never resolve.
	_, err = tx.ExecContext(ctx,
		`UPDATE claims SET status = 'rejected', remarks = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE item_id = ? AND status = 'pending' AND id != ?`,
		siblingRemark, itemID, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("rejecting sibling claims: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	return GetClaim(ctx, db, claimID)
}

// RejectClaim decides a pending claim against the claimant. The item is
// untouched; the rejection permanently blocks the claimant from re-claiming
// this item.
func RejectClaim(ctx context.Context, db *sql.DB, claimID int64, remarks string) (*model.Claim, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE claims SET status = 'rejected', remarks = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'pending'`,
		remarks, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("rejecting claim: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		claim, err := GetClaim(ctx, db, claimID)
		if err != nil {
			return nil, err
		}
		if claim == nil {
			return nil, ErrClaimNotFound
		}
		return nil, ErrClaimNotPending
	}

	return GetClaim(ctx, db, claimID)
}

// WithdrawClaim deletes a pending claim on behalf of its claimant. Decided
// claims cannot be withdrawn. After withdrawal the claimant may claim the
// item again.
func WithdrawClaim(ctx context.Context, db *sql.DB, userID, claimID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var claimantID int64
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, status FROM claims WHERE id = ?`, claimID,
	).Scan(&claimantID, &status)
	if err == sql.ErrNoRows {
		return ErrClaimNotFound
	}
	if err != nil {
		return fmt.Errorf("getting claim: %w", err)
	}
	if claimantID != userID {
		return ErrNotOwner
	}
	if status != model.ClaimStatusPending {
		return ErrClaimNotPending
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, claimID); err != nil {
		return fmt.Errorf("deleting claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing withdrawal: %w", err)
	}
	return nil
}

const claimColumns = `c.id, c.code, c.user_id, c.item_id, c.status, c.remarks,
	c.created_at, c.updated_at,
	u.username AS claimant_name, u.email AS claimant_email,
	i.code AS item_code, i.name AS item_name`

// GetClaim returns a claim by ID with claimant and item details, or nil if
// it does not exist.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimColumns+`
		 FROM claims c
		 JOIN users u ON u.id = c.user_id
		 JOIN items i ON i.id = c.item_id
		 WHERE c.id = ?`, id,
	)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return claim, nil
}

// ListClaims returns a filtered, paginated page of claims, newest first with
// id tie-break.
func ListClaims(ctx context.Context, db *sql.DB, f ClaimFilter, page, limit int) ([]model.Claim, model.Pagination, error) {
	page, limit = normalizePage(page, limit)

	where := `WHERE 1=1`
	var args []any

	if f.Status != "" {
		where += ` AND c.status = ?`
		args = append(args, f.Status)
	}
	if f.UserID > 0 {
		where += ` AND c.user_id = ?`
		args = append(args, f.UserID)
	}
	if f.Query != "" {
		where += ` AND (lower(u.username) LIKE '%'||lower(?)||'%'
			OR lower(u.email) LIKE '%'||lower(?)||'%'
			OR lower(c.code) LIKE '%'||lower(?)||'%'
			OR lower(i.code) LIKE '%'||lower(?)||'%')`
		args = append(args, f.Query, f.Query, f.Query, f.Query)
	}

	joins := ` FROM claims c
		JOIN users u ON u.id = c.user_id
		JOIN items i ON i.id = c.item_id `

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*)`+joins+where, args...).Scan(&total)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("counting claims: %w", err)
	}

	query := `SELECT ` + claimColumns + joins + where + `
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, model.Pagination{}, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *claim)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Pagination{}, err
	}

	return claims, model.NewPagination(page, limit, total), nil
}

func scanClaim(row rowScanner) (*model.Claim, error) {
	claim := &model.Claim{}
	var remarks sql.NullString
	err := row.Scan(&claim.ID, &claim.Code, &claim.UserID, &claim.ItemID, &claim.Status,
		&remarks, &claim.CreatedAt, &claim.UpdatedAt,
		&claim.ClaimantName, &claim.ClaimantEmail, &claim.ItemCode, &claim.ItemName)
	if err != nil {
		return nil, err
	}
	claim.Remarks = remarks.String
	return claim, nil
}
