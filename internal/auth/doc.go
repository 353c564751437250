// Package auth guards the MCP endpoint with a static bearer token.
//
// When a token is configured every /mcp request must carry
//
//	Authorization: Bearer <token>
//
// with exactly that token. Anything else (no header, another scheme, an empty
// or different token) is rejected with 401 and no body detail. When no token is
// configured the server runs in explicit insecure mode and every request is
// allowed; the gateway logs a warning at startup.
package auth
