// ABOUTME: Tests for the static bearer authenticator and its middleware.
// ABOUTME: Covers insecure mode, header format variants, and 401 short-circuiting.

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticator_Allow(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   bool
	}{
		{"no token configured allows missing header", "", "", true},
		{"no token configured allows anything", "", "Basic abc", true},
		{"exact bearer token", "s3cret", "Bearer s3cret", true},
		{"missing header", "s3cret", "", false},
		{"wrong scheme", "s3cret", "Basic s3cret", false},
		{"lowercase scheme", "s3cret", "bearer s3cret", false},
		{"wrong token", "s3cret", "Bearer nope", false},
		{"empty token", "s3cret", "Bearer ", false},
		{"token prefix only", "s3cret", "Bearer s3c", false},
		{"trailing garbage", "s3cret", "Bearer s3cret ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthenticator(tt.token)
			assert.Equal(t, tt.want, a.Allow(tt.header))
		})
	}
}

func TestAuthenticator_Enabled(t *testing.T) {
	assert.False(t, NewAuthenticator("").Enabled())
	assert.True(t, NewAuthenticator("x").Enabled())

	var nilAuth *Authenticator
	assert.False(t, nilAuth.Enabled())
	assert.True(t, nilAuth.Allow(""))
}

func TestRequire(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})
	h := Require(NewAuthenticator("s3cret"), next)

	t.Run("rejects without calling next", func(t *testing.T) {
		called = false
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mcp", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
		assert.NotContains(t, rr.Body.String(), "s3cret")
	})

	t.Run("passes valid token through", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.True(t, called)
	})
}
