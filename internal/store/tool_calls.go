// ABOUTME: Tool-call ledger rows: one per tools/call handled by the MCP endpoint
// ABOUTME: Insert, list most recent, and count operations

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ToolCall is a single recorded tools/call invocation.
type ToolCall struct {
	ID            string
	SessionID     string
	ToolName      string
	ArgumentsJSON string
	IsError       bool
	Duration      time.Duration
	CreatedAt     time.Time
}

// RecordToolCall stores a tool call. ID and CreatedAt are filled in when empty.
func (s *SQLiteStore) RecordToolCall(ctx context.Context, call *ToolCall) error {
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now()
	}
	args := call.ArgumentsJSON
	if args == "" {
		args = "{}"
	}

	query := `
		INSERT INTO tool_calls (id, session_id, tool_name, arguments_json, is_error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		call.ID,
		call.SessionID,
		call.ToolName,
		args,
		call.IsError,
		call.Duration.Milliseconds(),
		call.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting tool call: %w", err)
	}

	s.logger.Debug("recorded tool call",
		"id", call.ID,
		"session_id", call.SessionID,
		"tool_name", call.ToolName,
		"is_error", call.IsError,
	)
	return nil
}

// ListToolCalls returns the most recent tool calls, newest first.
// If limit is 0 or negative, all calls are returned.
func (s *SQLiteStore) ListToolCalls(ctx context.Context, limit int) ([]*ToolCall, error) {
	query := `
		SELECT id, session_id, tool_name, arguments_json, is_error, duration_ms, created_at
		FROM tool_calls
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tool calls: %w", err)
	}
	defer rows.Close()

	var calls []*ToolCall
	for rows.Next() {
		call, err := scanToolCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tool calls: %w", err)
	}

	return calls, nil
}

// CountToolCalls returns the number of recorded tool calls.
func (s *SQLiteStore) CountToolCalls(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tool_calls`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tool calls: %w", err)
	}
	return count, nil
}

// scanToolCall scans a single tool_calls row.
func scanToolCall(rows *sql.Rows) (*ToolCall, error) {
	var call ToolCall
	var durationMS int64
	var createdAtStr string

	err := rows.Scan(
		&call.ID,
		&call.SessionID,
		&call.ToolName,
		&call.ArgumentsJSON,
		&call.IsError,
		&durationMS,
		&createdAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning tool call row: %w", err)
	}

	call.Duration = time.Duration(durationMS) * time.Millisecond
	call.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &call, nil
}
