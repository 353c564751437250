// ABOUTME: Static bearer-token authenticator for the MCP endpoint.
// ABOUTME: Pure predicate over the Authorization header plus an HTTP middleware.

package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Authenticator checks Authorization headers against a single configured token.
type Authenticator struct {
	token string
}

// NewAuthenticator creates an authenticator. An empty token disables checking.
func NewAuthenticator(token string) *Authenticator {
	return &Authenticator{token: token}
}

// Enabled reports whether a token is configured.
func (a *Authenticator) Enabled() bool {
	return a != nil && a.token != ""
}

// Allow reports whether the given Authorization header value is acceptable.
func (a *Authenticator) Allow(authHeader string) bool {
	if !a.Enabled() {
		return true
	}

	token, ok := extractBearerToken(authHeader)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// extractBearerToken extracts a bearer token from the Authorization header.
func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}

// Require wraps next so that requests failing Allow get a bare 401.
func Require(a *Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Allow(r.Header.Get("Authorization")) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
