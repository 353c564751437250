// Package session tracks MCP client sessions in process memory.
//
// # Overview
//
// A session correlates a sequence of MCP requests from one client. Sessions are
// minted on the first request that carries no Mcp-Session-Id header, or one the
// server does not know, and are destroyed by an explicit DELETE /mcp.
//
// Nothing is persisted: restarting the server forgets every session and clients
// simply re-initialize.
//
// # Expiry
//
// The store bounds its own growth two ways:
//
//   - Idle TTL: a session not seen for longer than the TTL is dropped. Every
//     Resolve of a known id refreshes its last-seen time. A zero TTL disables
//     expiry entirely.
//   - Capacity: when MaxSessions is reached the least recently used session is
//     evicted to make room. Zero disables the bound.
//
// A background goroutine sweeps expired sessions once a minute until Close.
//
// # Usage
//
//	store := session.New(session.Options{TTL: 24 * time.Hour, MaxSessions: 10000})
//	defer store.Close()
//
//	sess, created := store.Resolve(r.Header.Get("Mcp-Session-Id"))
//	w.Header().Set("Mcp-Session-Id", sess.ID)
package session
