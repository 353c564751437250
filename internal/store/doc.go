// Package store persists the tool-call ledger in SQLite.
//
// Every tools/call handled by the MCP endpoint can be recorded as a ToolCall
// row: which session made it, which tool ran, the raw arguments, whether the
// tool reported an error, and how long it took. The ledger is optional; the
// server runs without it when no database path is configured.
//
// SQLiteStore uses the pure-Go modernc.org/sqlite driver, so no cgo toolchain
// is needed. The schema is created on open and WAL mode is enabled.
//
// # Usage
//
//	s, err := store.NewSQLiteStore("~/.config/trustydata/mcp.db")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	err = s.RecordToolCall(ctx, &store.ToolCall{
//		SessionID: sessionID,
//		ToolName:  "search_localities",
//	})
//
//	recent, err := s.ListToolCalls(ctx, 20)
package store
