package api

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// ClaimsHandler handles claim lifecycle endpoints.
type ClaimsHandler struct {
	DB *sql.DB
}

type submitClaimRequest struct {
	ItemID int64 `json:"item_id"`
}

type decideClaimRequest struct {
	Remarks string `json:"remarks"`
}

// Submit handles POST /api/claims.
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id required")
		return
	}

	claim, err := store.SubmitClaim(r.Context(), h.DB, sess.UserID, req.ItemID)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("claim submitted", "claim", claim.Code, "user", sess.Username, "item", claim.ItemCode)
	jsonResponse(w, http.StatusCreated, claim)
}

// List handles GET /api/claims. Admins see all claims; users see their own.
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	f := store.ClaimFilter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}
	if !sess.IsAdmin() {
		f.UserID = sess.UserID
	}

	page, limit := parsePagination(r)
	claims, pagination, err := store.ListClaims(r.Context(), h.DB, f, page, limit)
	if err != nil {
		storeError(w, err)
		return
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"claims":     claims,
		"pagination": pagination,
	})
}

// Get handles GET /api/claims/{id}. Visible to the claimant and admins.
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}
	if !sess.IsAdmin() && claim.UserID != sess.UserID {
		jsonError(w, http.StatusForbidden, "claim belongs to another user")
		return
	}

	jsonResponse(w, http.StatusOK, claim)
}

// Approve handles PUT /api/claims/{id}/approve.
func (h *ClaimsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, store.ApproveClaim, "claim approved")
}

// Reject handles PUT /api/claims/{id}/reject.
func (h *ClaimsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, store.RejectClaim, "claim rejected")
}

func (h *ClaimsHandler) decide(w http.ResponseWriter, r *http.Request,
	decision func(ctx context.Context, db *sql.DB, claimID int64, remarks string) (*model.Claim, error),
	logMsg string,
) {
	sess := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req decideClaimRequest
	if err := decodeJSON(r, &req); err != nil && err != io.EOF {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := decision(r.Context(), h.DB, id, req.Remarks)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info(logMsg, "claim", claim.Code, "admin", sess.Username, "item", claim.ItemCode)
	jsonResponse(w, http.StatusOK, claim)
}

// Withdraw handles DELETE /api/claims/{id}.
func (h *ClaimsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	if err := store.WithdrawClaim(r.Context(), h.DB, sess.UserID, id); err != nil {
		storeError(w, err)
		return
	}

	slog.Info("claim withdrawn", "claim_id", id, "user", sess.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "claim withdrawn"})
}
