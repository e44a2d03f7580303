package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/erazemk/najdeno/internal/model"
)

// Description length bounds for reports.
const (
	MinReportDescription = 2
	MaxReportDescription = 200
)

// ReportInput holds the user-supplied fields of a lost-item report.
type ReportInput struct {
	Description string
	Category    string
	Location    string
	DateLost    string // YYYY-MM-DD
	Details     string
	Photos      []string // external photo URIs, at most model.MaxReportPhotos
}

// ReportFilter selects reports for listing.
type ReportFilter struct {
	Status   string
	Category string
	Query    string // substring match over description/location/details
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive
	UserID   int64  // restrict to one reporter; 0 means all (admin view)
}

func validateReportInput(in ReportInput) error {
	if len(in.Description) < MinReportDescription || len(in.Description) > MaxReportDescription {
		return &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must be between %d and %d characters", MinReportDescription, MaxReportDescription),
		}
	}
	if in.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if in.Location == "" {
		return &ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if err := validateDate("date_lost", in.DateLost); err != nil {
		return err
	}
	if len(in.Photos) > model.MaxReportPhotos {
		return &ValidationError{
			Field:  "photos",
			Reason: fmt.Sprintf("at most %d photos allowed", model.MaxReportPhotos),
		}
	}
	for _, p := range in.Photos {
		u, err := url.Parse(p)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return &ValidationError{Field: "photos", Reason: "each photo must be an absolute URI"}
		}
	}
	return nil
}

// CreateReport files a new lost-item report for userID with status active.
func CreateReport(ctx context.Context, db *sql.DB, userID int64, in ReportInput) (*model.Report, error) {
	if err := validateReportInput(in); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reports (code, user_id, description, category, location, date_lost, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		newCode(reportCodePrefix), userID, in.Description, in.Category, in.Location, in.DateLost, in.Details,
	)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}

	for _, p := range in.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_photos (report_id, url) VALUES (?, ?)`, id, p,
		); err != nil {
			return nil, fmt.Errorf("attaching report photo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing report: %w", err)
	}

	return GetReport(ctx, db, id)
}

const reportColumns = `r.id, r.code, r.user_id, r.description, r.category, r.location,
	r.date_lost, r.details, r.status, r.created_at, r.updated_at,
	u.username AS reporter_name`

// GetReport returns a report by ID with its photos, or nil if it does not
// exist. Visibility (owner or admin) is the caller's responsibility.
func GetReport(ctx context.Context, db *sql.DB, id int64) (*model.Report, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+reportColumns+`
		 FROM reports r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.id = ?`, id,
	)
	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}

	photos, err := listReportPhotos(ctx, db, id)
	if err != nil {
		return nil, err
	}
	report.Photos = photos
	return report, nil
}

// ListReports returns a filtered, paginated page of reports, newest first
// with id tie-break. Photos are not populated in listings.
func ListReports(ctx context.Context, db *sql.DB, f ReportFilter, page, limit int) ([]model.Report, model.Pagination, error) {
	page, limit = normalizePage(page, limit)

	where := `WHERE 1=1`
	var args []any

	if f.Status != "" {
		where += ` AND r.status = ?`
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where += ` AND lower(r.category) LIKE '%'||lower(?)||'%'`
		args = append(args, f.Category)
	}
	if f.UserID > 0 {
		where += ` AND r.user_id = ?`
		args = append(args, f.UserID)
	}
	if f.Query != "" {
		where += ` AND (lower(r.description) LIKE '%'||lower(?)||'%'
			OR lower(r.location) LIKE '%'||lower(?)||'%'
			OR lower(COALESCE(r.details, '')) LIKE '%'||lower(?)||'%')`
		args = append(args, f.Query, f.Query, f.Query)
	}
	if f.DateFrom != "" {
		where += ` AND r.date_lost >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where += ` AND r.date_lost <= ?`
		args = append(args, f.DateTo)
	}

	joins := ` FROM reports r JOIN users u ON u.id = r.user_id `

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*)`+joins+where, args...).Scan(&total)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("counting reports: %w", err)
	}

	query := `SELECT ` + reportColumns + joins + where + `
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, model.Pagination{}, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Pagination{}, err
	}

	return reports, model.NewPagination(page, limit, total), nil
}

// ResolveReport marks an active report resolved ("found it elsewhere").
// Only the owning user may resolve.
func ResolveReport(ctx context.Context, db *sql.DB, userID, reportID int64) (*model.Report, error) {
	return transitionReport(ctx, db, reportID, userID, model.ReportStatusResolved)
}

// CloseReport marks an active report closed. Admin-only; the capability
// check happens at the API boundary, so no user is threaded here.
func CloseReport(ctx context.Context, db *sql.DB, reportID int64) (*model.Report, error) {
	return transitionReport(ctx, db, reportID, 0, model.ReportStatusClosed)
}

// transitionReport moves an active report to a terminal status. ownerID > 0
// enforces ownership.
func transitionReport(ctx context.Context, db *sql.DB, reportID, ownerID int64, status string) (*model.Report, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var reporterID int64
	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, status FROM reports WHERE id = ?`, reportID,
	).Scan(&reporterID, &current)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	if ownerID > 0 && reporterID != ownerID {
		return nil, ErrNotOwner
	}
	if current != model.ReportStatusActive {
		return nil, ErrReportNotActive
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating report status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing report transition: %w", err)
	}

	return GetReport(ctx, db, reportID)
}

// DeleteReport removes a report and its photos. The owner may delete in any
// status; admins may delete any report.
func DeleteReport(ctx context.Context, db *sql.DB, reportID, userID int64, isAdmin bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var reporterID int64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM reports WHERE id = ?`, reportID,
	).Scan(&reporterID)
	if err == sql.ErrNoRows {
		return ErrReportNotFound
	}
	if err != nil {
		return fmt.Errorf("getting report: %w", err)
	}
	if !isAdmin && reporterID != userID {
		return ErrNotOwner
	}

	// Photos cascade via the foreign key.
	if _, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, reportID); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing report deletion: %w", err)
	}
	return nil
}

// AddReportPhoto stores an uploaded, already-processed photo for a report and
// returns the photo record. Fails once the report holds model.MaxReportPhotos.
func AddReportPhoto(ctx context.Context, db *sql.DB, reportID int64, data []byte, mime string) (*model.ReportPhoto, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM report_photos WHERE report_id = ?`, reportID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("counting report photos: %w", err)
	}
	if count >= model.MaxReportPhotos {
		return nil, ErrTooManyPhotos
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO report_photos (report_id, url, data, mime) VALUES (?, '', ?, ?)`,
		reportID, data, mime,
	)
	if err != nil {
		return nil, fmt.Errorf("storing report photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting photo id: %w", err)
	}

	// Uploaded photos are addressed by their serving path.
	photoURL := fmt.Sprintf("/api/reports/%d/photos/%d", reportID, id)
	if _, err := tx.ExecContext(ctx,
		`UPDATE report_photos SET url = ? WHERE id = ?`, photoURL, id,
	); err != nil {
		return nil, fmt.Errorf("setting photo url: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing report photo: %w", err)
	}

	photo := &model.ReportPhoto{ID: id, ReportID: reportID, URL: photoURL, Mime: mime}
	return photo, nil
}

// GetReportPhoto returns an uploaded photo's data and MIME type.
func GetReportPhoto(ctx context.Context, db *sql.DB, reportID, photoID int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM report_photos WHERE id = ? AND report_id = ?`,
		photoID, reportID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrPhotoNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting report photo: %w", err)
	}
	if data == nil {
		// Externally referenced photo, nothing stored locally.
		return nil, "", ErrPhotoNotFound
	}
	return data, mime.String, nil
}

func listReportPhotos(ctx context.Context, db *sql.DB, reportID int64) ([]model.ReportPhoto, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, report_id, url, COALESCE(mime, ''), created_at
		 FROM report_photos WHERE report_id = ? ORDER BY id`, reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing report photos: %w", err)
	}
	defer rows.Close()

	var photos []model.ReportPhoto
	for rows.Next() {
		var p model.ReportPhoto
		if err := rows.Scan(&p.ID, &p.ReportID, &p.URL, &p.Mime, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func scanReport(row rowScanner) (*model.Report, error) {
	report := &model.Report{}
	var details sql.NullString
	err := row.Scan(&report.ID, &report.Code, &report.UserID, &report.Description,
		&report.Category, &report.Location, &report.DateLost, &details, &report.Status,
		&report.CreatedAt, &report.UpdatedAt, &report.ReporterName)
	if err != nil {
		return nil, err
	}
	report.Details = details.String
	return report, nil
}
