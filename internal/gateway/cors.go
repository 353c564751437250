// ABOUTME: CORS middleware for browser-based MCP clients
// ABOUTME: Answers preflight requests before auth and exposes the session header

package gateway

import (
	"net/http"
	"strings"
)

// CORS header names.
const (
	AllowOriginHeader    = "Access-Control-Allow-Origin"
	AllowHeadersHeader   = "Access-Control-Allow-Headers"
	AllowMethodsHeader   = "Access-Control-Allow-Methods"
	ExposeHeadersHeader  = "Access-Control-Expose-Headers"
	MaxAgeHeader         = "Access-Control-Max-Age"
	separator            = ", "
	preflightMaxAgeValue = "86400"
)

var (
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	corsAllowedHeaders = []string{"Content-Type", "Authorization", "Mcp-Session-Id", "MCP-Protocol-Version"}
	corsExposedHeaders = []string{"Mcp-Session-Id"}
)

// Cors holds the origin allow-list. An empty list disables CORS headers.
type Cors struct {
	AllowOrigins []string
}

// NewCors creates a Cors policy for the given origins. "*" allows any origin.
func NewCors(origins []string) *Cors {
	return &Cors{AllowOrigins: origins}
}

func (c *Cors) originMap() map[string]bool {
	result := make(map[string]bool, len(c.AllowOrigins))
	for _, origin := range c.AllowOrigins {
		result[origin] = true
	}
	return result
}

// Middleware sets CORS headers and answers OPTIONS preflight with 204.
func (c *Cors) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.setHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *Cors) setHeaders(w http.ResponseWriter, r *http.Request) {
	if c == nil || len(c.AllowOrigins) == 0 {
		return
	}

	origin := r.Header.Get("Origin")
	allowed := c.originMap()
	switch {
	case allowed["*"] && origin == "":
		w.Header().Set(AllowOriginHeader, "*")
	case allowed["*"] || (origin != "" && allowed[origin]):
		w.Header().Set(AllowOriginHeader, origin)
		w.Header().Add("Vary", "Origin")
	default:
		return
	}

	w.Header().Set(AllowMethodsHeader, strings.Join(corsAllowedMethods, separator))
	w.Header().Set(AllowHeadersHeader, strings.Join(corsAllowedHeaders, separator))
	w.Header().Set(ExposeHeadersHeader, strings.Join(corsExposedHeaders, separator))
	if r.Method == http.MethodOptions {
		w.Header().Set(MaxAgeHeader, preflightMaxAgeValue)
	}
}
