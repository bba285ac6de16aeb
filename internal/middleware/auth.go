package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kokua/kokua-go/internal/crypto"
)

type contextKey string

const identityKey contextKey = "identity"

// Mode controls how authentication failures are handled.
type Mode int

const (
	// Strict rejects requests without a valid bearer token.
	Strict Mode = iota
	// Optional lets requests through with an anonymous identity when the
	// token is missing or invalid.
	Optional
)

// Identity is the authenticated caller. A zero Email means anonymous.
type Identity struct {
	Email string
}

// Anonymous reports whether the identity belongs to no account.
func (id Identity) Anonymous() bool {
	return id.Email == ""
}

// Auth returns middleware that validates a Bearer token from the
// Authorization header and stores the resulting identity in the request
// context. In Optional mode a missing or invalid token yields an anonymous
// identity instead of a 401.
func Auth(secret string, mode Mode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if mode == Strict {
					writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
					return
				}
				next.ServeHTTP(w, withIdentity(r, Identity{}))
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				if mode == Strict {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				next.ServeHTTP(w, withIdentity(r, Identity{}))
				return
			}

			next.ServeHTTP(w, withIdentity(r, Identity{Email: claims.Subject}))
		})
	}
}

// IdentityFromContext extracts the caller identity stored by Auth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func withIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
