package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps store errors to HTTP statuses: missing entities to 404,
// state-transition conflicts to 409, ownership violations to 403, malformed
// input to 400 (with the failing field), everything else to 500.
func storeError(w http.ResponseWriter, err error) {
	var verr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrClaimNotFound),
		errors.Is(err, store.ErrReportNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrPhotoNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrItemAlreadyClaimed),
		errors.Is(err, store.ErrDuplicateClaim),
		errors.Is(err, store.ErrClaimBlocked),
		errors.Is(err, store.ErrClaimNotPending),
		errors.Is(err, store.ErrReportNotActive),
		errors.Is(err, store.ErrTooManyPhotos),
		errors.Is(err, store.ErrUserExists):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotOwner):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &verr):
		jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error": verr.Error(),
			"field": verr.Field,
		})
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// parsePagination reads page/limit query parameters with listing defaults.
func parsePagination(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", 1)
	limit = queryInt(r, "limit", store.DefaultPageLimit)
	return page, limit
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
