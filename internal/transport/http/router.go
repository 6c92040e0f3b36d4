package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"extynct-community/internal/handler"
	"extynct-community/internal/httputil"
	"extynct-community/internal/model"
	authmw "extynct-community/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	LoginHandler   *handler.LoginHandler
	Sessions       authmw.SessionResolver

	// Serve /uploads/* from this directory when set (disk media sink).
	UploadDir string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(model.MaxRequestBody))

		r.Post("/accounts", cfg.AccountHandler.Create)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", cfg.AuthHandler.SignIn)
			r.Post("/signout", cfg.AuthHandler.SignOut)
			r.Get("/session", cfg.AuthHandler.Session)
		})

		r.Get("/posts", cfg.PostHandler.List)
		r.With(authmw.RequireSession(cfg.Sessions)).Post("/posts", cfg.PostHandler.Create)

		// Legacy admin login kept for the marketing site
		r.Post("/login", cfg.LoginHandler.Login)
	})

	if cfg.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
