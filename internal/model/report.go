package model

import "time"

// Report represents a user's declaration of a lost item. Reports are private
// to their owner and admins; they are never linked to items or claims at the
// data layer.
type Report struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	DateLost    string    `json:"date_lost"`
	Details     string    `json:"details,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ReporterName string        `json:"reporter_name,omitempty"`
	Photos       []ReportPhoto `json:"photos,omitempty"`
}

// ReportPhoto is a photo attached to a report, addressable by URL.
type ReportPhoto struct {
	ID        int64     `json:"id"`
	ReportID  int64     `json:"report_id"`
	URL       string    `json:"url"`
	Mime      string    `json:"mime,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Report statuses.
const (
	ReportStatusActive   = "active"
	ReportStatusResolved = "resolved"
	ReportStatusClosed   = "closed"
)

// MaxReportPhotos is the photo limit per report.
const MaxReportPhotos = 3
