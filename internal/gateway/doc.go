// Package gateway orchestrates the trustydata-mcp server components.
//
// # Overview
//
// The gateway owns every long-lived component and wires them together:
// upstream client, tool registry, session store, optional SQLite call ledger,
// MCP endpoint, and the HTTP server (on TCP or a Tailscale node).
//
// # HTTP Surface
//
//   - /mcp: MCP Streamable HTTP endpoint (see package mcp)
//   - GET /health: liveness JSON with the live session count, no auth
//   - GET /: landing page describing the endpoint and its tools, no auth
//
// Every route sits behind the CORS middleware, which also answers OPTIONS
// preflight requests before authentication runs.
//
// # Tailscale
//
// With tailscale.enabled the server joins the tailnet through tsnet and listens
// on :80, or on :443 through Funnel when tailscale.funnel is set. Funnel gives
// hosted clients such as claude.ai a public HTTPS URL for the connector.
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return gw.Run(ctx) // blocks until ctx is canceled, then shuts down
package gateway
