// Package mcp implements the Model Context Protocol endpoint over Streamable HTTP.
//
// # Protocol
//
// A single path, /mcp, carries JSON-RPC 2.0 messages:
//
//   - POST /mcp: one JSON-RPC message per request, answered inline with JSON
//   - GET /mcp: SSE probe; always refused (406 without text/event-stream, 405 with it)
//   - DELETE /mcp: terminate the session named by Mcp-Session-Id
//
// The server answers initialize, tools/list and tools/call. Every other method,
// and every client response, is acknowledged with 202 Accepted and no body.
// Protocol failures (unreadable JSON, missing method, unknown tool, panics) are
// reported as JSON-RPC errors with code -32603 and HTTP 500.
//
// # Sessions
//
// Each POST resolves the Mcp-Session-Id request header against the session
// store. Unknown or missing ids get a freshly minted session. The resolved id
// is echoed in the Mcp-Session-Id response header, including on errors.
//
// # Authentication
//
// When a bearer token is configured, /mcp requires
//
//	Authorization: Bearer <token>
//
// Rejected requests get 401 before any session is touched.
//
// # Tool Execution
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "search_localities",
//	    "arguments": {"q": "Paris", "limit": 3}
//	  },
//	  "id": 2
//	}
//
// Arguments are decoded with json.Number so numeric filters reach the upstream
// query unchanged. Tool-domain failures come back as ordinary results with
// isError set, never as JSON-RPC errors.
//
// # Integration with Claude
//
// Add the endpoint as a custom connector, or to a client's MCP configuration:
//
//	{
//	  "mcpServers": {
//	    "trustydata": {
//	      "url": "http://localhost:8500/mcp",
//	      "headers": {"Authorization": "Bearer <token>"}
//	    }
//	  }
//	}
package mcp
