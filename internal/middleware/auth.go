package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bloghub/bloghub-go/internal/crypto"
	"github.com/bloghub/bloghub-go/internal/model"
)

type contextKey string

const callerKey contextKey = "caller"

// UserLoader resolves a token subject to a live user record. The token
// only carries the user ID, so roles always come from the store.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// JWTAuth returns middleware that requires a valid Bearer token in the
// Authorization header and attaches the caller to the request context.
// Tokens whose subject no longer exists are rejected.
func JWTAuth(secret string, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := resolveCaller(r, secret, users)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "not authorized to access this route")
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuth attaches the caller when a valid Bearer token is
// present and otherwise lets the request through anonymously. Used on
// routes that are public but behave differently for the post's author.
func OptionalJWTAuth(secret string, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller, ok := resolveCaller(r, secret, users); ok {
				r = r.WithContext(context.WithValue(r.Context(), callerKey, caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveCaller(r *http.Request, secret string, users UserLoader) (model.AuthUser, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return model.AuthUser{}, false
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return model.AuthUser{}, false
	}

	claims, err := crypto.ValidateToken(token, secret)
	if err != nil {
		return model.AuthUser{}, false
	}

	user, err := users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return model.AuthUser{}, false
	}

	return model.AuthUser{ID: user.ID, Role: user.Role}, true
}

// CallerFromContext extracts the authenticated caller from the request context.
func CallerFromContext(ctx context.Context) (model.AuthUser, bool) {
	caller, ok := ctx.Value(callerKey).(model.AuthUser)
	return caller, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
