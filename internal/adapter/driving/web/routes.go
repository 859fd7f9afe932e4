package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// Every POST is CSRF-checked; /admin/* additionally requires a session.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public pages.
	mux.HandleFunc("GET /{$}", h.Services)
	mux.HandleFunc("GET /gallery", h.Gallery)
	mux.HandleFunc("GET /list", h.List)
	mux.HandleFunc("GET /events", h.Events)

	// Sign-in.
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.csrfProtect(h.Login))
	mux.HandleFunc("POST /logout", h.csrfProtect(h.Logout))

	// Operator dashboard.
	mux.HandleFunc("GET /admin", h.requireSession(h.Admin))
	mux.HandleFunc("POST /admin/services", h.csrfProtect(h.requireSession(h.CreateService)))
	mux.HandleFunc("POST /admin/services/{id}", h.csrfProtect(h.requireSession(h.UpdateService)))
	mux.HandleFunc("GET /admin/services/{id}/delete", h.requireSession(h.ConfirmDelete))
	mux.HandleFunc("POST /admin/services/{id}/delete", h.csrfProtect(h.requireSession(h.DeleteService)))
	mux.HandleFunc("GET /admin/seed", h.requireSession(h.ConfirmSeed))
	mux.HandleFunc("POST /admin/seed", h.csrfProtect(h.requireSession(h.Seed)))
}
