package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloghub/bloghub-go/internal/middleware"
)

const apiVersion = "1.0.0"

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Auth      *AuthHandler
	Posts     *PostHandler
	JWTSecret string
	Users     middleware.UserLoader

	// AuthLimit guards the credential endpoints, APILimit the rest.
	// They are separate middlewares so the budgets stay independent.
	AuthLimit func(http.Handler) http.Handler
	APILimit  func(http.Handler) http.Handler
}

// NewRouter assembles the full route table.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthLimit)
		r.Post("/api/auth/register", cfg.Auth.HandleRegister)
		r.Post("/api/auth/login", cfg.Auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(cfg.APILimit)

		r.With(middleware.JWTAuth(cfg.JWTSecret, cfg.Users)).Get("/api/auth/me", cfg.Auth.HandleMe)

		r.Get("/api/posts", cfg.Posts.HandleList)
		r.With(middleware.OptionalJWTAuth(cfg.JWTSecret, cfg.Users)).Get("/api/posts/{id}", cfg.Posts.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret, cfg.Users))
			r.Post("/api/posts", cfg.Posts.HandleCreate)
			r.Put("/api/posts/{id}", cfg.Posts.HandleUpdate)
			r.Delete("/api/posts/{id}", cfg.Posts.HandleDelete)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Blog REST API is running",
		"version": apiVersion,
	})
}
