package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// ItemInput holds the admin-supplied fields of a catalog item.
type ItemInput struct {
	Code        string // optional, auto-generated when empty
	Name        string
	Category    string
	Location    string
	DateFound   string // YYYY-MM-DD
	Description string
}

// ItemFilter selects items for listing. All fields are optional and
// AND-combined.
type ItemFilter struct {
	Query    string // substring match over name/description/location
	Category string
	Location string
	Claimed  *bool
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive
}

func validateItemInput(in ItemInput) error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if in.Location == "" {
		return &ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if err := validateDate("date_found", in.DateFound); err != nil {
		return err
	}
	return nil
}

// validateDate checks that value is a YYYY-MM-DD date not in the future.
func validateDate(field, value string) error {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return &ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD format"}
	}
	if d.After(time.Now()) {
		return &ValidationError{Field: field, Reason: "must not be in the future"}
	}
	return nil
}

// CreateItem catalogues a new found item. A code is generated when none is
// supplied; supplied codes must be unique.
func CreateItem(ctx context.Context, db *sql.DB, in ItemInput) (*model.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	code := in.Code
	if code == "" {
		code = newCode(itemCodePrefix)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (code, name, category, location, date_found, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		code, in.Name, in.Category, in.Location, in.DateFound, in.Description,
	)
	if isUniqueViolation(err) {
		return nil, &ValidationError{Field: "code", Reason: "already in use"}
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

const itemColumns = `i.id, i.code, i.name, i.category, i.location, i.date_found,
	i.description, i.is_claimed, i.owner_id, i.photo_mime, i.created_at, i.updated_at,
	COALESCE(u.username, '') AS owner_name`

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i
		 LEFT JOIN users u ON u.id = i.owner_id
		 WHERE i.id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns a filtered, paginated page of the catalog, newest found
// first. The order is deterministic: date_found DESC with id DESC tie-break.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter, page, limit int) ([]model.Item, model.Pagination, error) {
	page, limit = normalizePage(page, limit)

	where := `WHERE 1=1`
	var args []any

	if f.Query != "" {
		where += ` AND (lower(i.name) LIKE '%'||lower(?)||'%'
			OR lower(COALESCE(i.description, '')) LIKE '%'||lower(?)||'%'
			OR lower(i.location) LIKE '%'||lower(?)||'%')`
		args = append(args, f.Query, f.Query, f.Query)
	}
	if f.Category != "" {
		where += ` AND lower(i.category) LIKE '%'||lower(?)||'%'`
		args = append(args, f.Category)
	}
	if f.Location != "" {
		where += ` AND lower(i.location) LIKE '%'||lower(?)||'%'`
		args = append(args, f.Location)
	}
	if f.Claimed != nil {
		where += ` AND i.is_claimed = ?`
		args = append(args, *f.Claimed)
	}
	if f.DateFrom != "" {
		if _, err := time.Parse(time.DateOnly, f.DateFrom); err != nil {
			return nil, model.Pagination{}, &ValidationError{Field: "date_from", Reason: "must be a date in YYYY-MM-DD format"}
		}
		where += ` AND i.date_found >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		if _, err := time.Parse(time.DateOnly, f.DateTo); err != nil {
			return nil, model.Pagination{}, &ValidationError{Field: "date_to", Reason: "must be a date in YYYY-MM-DD format"}
		}
		where += ` AND i.date_found <= ?`
		args = append(args, f.DateTo)
	}

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items i `+where, args...).Scan(&total)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("counting items: %w", err)
	}

	query := `SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN users u ON u.id = i.owner_id ` + where + `
		ORDER BY i.date_found DESC, i.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, model.Pagination{}, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Pagination{}, err
	}

	return items, model.NewPagination(page, limit, total), nil
}

// UpdateItem updates an item's admin-editable fields. The claim state and
// owner are owned by the claim lifecycle and cannot be changed here.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, in ItemInput) (*model.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, location = ?, date_found = ?,
		        description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Category, in.Location, in.DateFound, in.Description, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrItemNotFound
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item and all claims on it in one transaction.
// Claims on a deleted item carry no meaning and would break listing joins.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting item claims: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// SetItemPhoto sets an item's photo data.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrItemNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description sql.NullString
	var photoMime sql.NullString
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Category, &item.Location,
		&item.DateFound, &description, &item.IsClaimed, &item.OwnerID, &photoMime,
		&item.CreatedAt, &item.UpdatedAt, &item.OwnerName)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.PhotoMime = photoMime.String
	return item, nil
}
