package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	claimsHandler := &ClaimsHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}
	exportHandler := &ExportHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	admin := func(h http.HandlerFunc) http.Handler { return authMW(RequireAdmin(h)) }
	user := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Public: registration, login, and browsing the catalog.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/photo", itemsHandler.GetPhoto)

	// Authenticated session management.
	mux.Handle("POST /api/auth/logout", user(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", user(authHandler.ChangePassword))

	// Catalog curation (admin only). The literal export route takes
	// precedence over GET /api/items/{id}.
	mux.Handle("GET /api/items/export", admin(exportHandler.Items))
	mux.Handle("POST /api/items", admin(itemsHandler.Create))
	mux.Handle("PUT /api/items/{id}", admin(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", admin(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{id}/photo", admin(itemsHandler.UploadPhoto))

	// Claims: users submit/withdraw, admins decide.
	mux.Handle("POST /api/claims", user(claimsHandler.Submit))
	mux.Handle("GET /api/claims", user(claimsHandler.List))
	mux.Handle("GET /api/claims/{id}", user(claimsHandler.Get))
	mux.Handle("DELETE /api/claims/{id}", user(claimsHandler.Withdraw))
	mux.Handle("PUT /api/claims/{id}/approve", admin(claimsHandler.Approve))
	mux.Handle("PUT /api/claims/{id}/reject", admin(claimsHandler.Reject))

	// Reports: private to their owner and admins.
	mux.Handle("POST /api/reports", user(reportsHandler.Create))
	mux.Handle("GET /api/reports", user(reportsHandler.List))
	mux.Handle("GET /api/reports/{id}", user(reportsHandler.Get))
	mux.Handle("PUT /api/reports/{id}/resolve", user(reportsHandler.Resolve))
	mux.Handle("PUT /api/reports/{id}/close", admin(reportsHandler.Close))
	mux.Handle("DELETE /api/reports/{id}", user(reportsHandler.Delete))
	mux.Handle("POST /api/reports/{id}/photos", user(reportsHandler.UploadPhoto))
	mux.Handle("GET /api/reports/{id}/photos/{photoID}", user(reportsHandler.GetPhoto))

	// User management (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	return mux
}
