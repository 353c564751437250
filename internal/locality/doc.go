// Package locality implements the search_localities MCP tool.
//
// The tool is a thin pass-through: every non-null argument the client sends
// becomes a query parameter on the upstream search, unchanged, and the JSON
// answer is rendered as one readable text block.
//
// Failures never escape as protocol errors. A missing API key, an upstream
// HTTP error, or a network/timeout/decode failure each becomes a single text
// block describing the problem, so the calling model always gets something it
// can read.
package locality
