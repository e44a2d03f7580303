package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// ReportsHandler handles lost-item report endpoints.
type ReportsHandler struct {
	DB *sql.DB
}

type reportRequest struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	DateLost    string   `json:"date_lost"`
	Details     string   `json:"details"`
	Photos      []string `json:"photos"`
}

// Create handles POST /api/reports.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := store.CreateReport(r.Context(), h.DB, sess.UserID, store.ReportInput{
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		DateLost:    req.DateLost,
		Details:     req.Details,
		Photos:      req.Photos,
	})
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("report created", "report", report.Code, "user", sess.Username)
	jsonResponse(w, http.StatusCreated, report)
}

// List handles GET /api/reports. Admins see all reports; users see their own.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	q := r.URL.Query()
	f := store.ReportFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Query:    q.Get("q"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	if !sess.IsAdmin() {
		f.UserID = sess.UserID
	}

	page, limit := parsePagination(r)
	reports, pagination, err := store.ListReports(r.Context(), h.DB, f, page, limit)
	if err != nil {
		storeError(w, err)
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"reports":    reports,
		"pagination": pagination,
	})
}

// Get handles GET /api/reports/{id}. Visible to the owner and admins only.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	report, ok := h.loadVisible(w, r, sess.UserID, sess.IsAdmin())
	if !ok {
		return
	}

	jsonResponse(w, http.StatusOK, report)
}

// Resolve handles PUT /api/reports/{id}/resolve (owner only).
func (h *ReportsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := store.ResolveReport(r.Context(), h.DB, sess.UserID, id)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("report resolved", "report", report.Code, "user", sess.Username)
	jsonResponse(w, http.StatusOK, report)
}

// Close handles PUT /api/reports/{id}/close (admin only).
func (h *ReportsHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := store.CloseReport(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("report closed", "report", report.Code, "admin", sess.Username)
	jsonResponse(w, http.StatusOK, report)
}

// Delete handles DELETE /api/reports/{id}.
func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	if err := store.DeleteReport(r.Context(), h.DB, id, sess.UserID, sess.IsAdmin()); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("report deleted", "report_id", id, "user", sess.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

// UploadPhoto handles POST /api/reports/{id}/photos (owner only).
func (h *ReportsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	report, ok := h.loadVisible(w, r, sess.UserID, false)
	if !ok {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	photo, err := store.AddReportPhoto(r.Context(), h.DB, report.ID, processed.Data, processed.MIME)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, photo)
}

// GetPhoto handles GET /api/reports/{id}/photos/{photoID} (owner or admin).
func (h *ReportsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	report, ok := h.loadVisible(w, r, sess.UserID, sess.IsAdmin())
	if !ok {
		return
	}

	photoID, err := strconv.ParseInt(r.PathValue("photoID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	data, mime, err := store.GetReportPhoto(r.Context(), h.DB, report.ID, photoID)
	if err != nil {
		storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// loadVisible parses the report ID, loads the report, and enforces
// owner/admin visibility. Writes the error response itself when it fails.
func (h *ReportsHandler) loadVisible(w http.ResponseWriter, r *http.Request, userID int64, isAdmin bool) (*model.Report, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return nil, false
	}

	report, err := store.GetReport(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return nil, false
	}
	if report == nil {
		jsonError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	if !isAdmin && report.UserID != userID {
		jsonError(w, http.StatusForbidden, "report belongs to another user")
		return nil, false
	}
	return report, true
}
