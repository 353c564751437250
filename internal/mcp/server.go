// ABOUTME: MCP Streamable HTTP endpoint exposing the in-process tool registry.
// ABOUTME: Resolves sessions, dispatches JSON-RPC methods, and records tool calls.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/trustydata/trustydata-mcp/internal/auth"
	"github.com/trustydata/trustydata-mcp/internal/session"
	"github.com/trustydata/trustydata-mcp/internal/store"
	"github.com/trustydata/trustydata-mcp/internal/tools"
)

// ProtocolVersion is the MCP version advertised in initialize responses.
const ProtocolVersion = "2025-06-18"

// DefaultClientProtocolVersion is assumed when a request omits MCP-Protocol-Version.
const DefaultClientProtocolVersion = "2025-03-26"

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// Header names used by the Streamable HTTP transport.
const (
	HeaderSessionID       = "Mcp-Session-Id"
	HeaderProtocolVersion = "MCP-Protocol-Version"
)

// CallRecorder persists a ledger entry for each executed tool call.
type CallRecorder interface {
	RecordToolCall(ctx context.Context, call *store.ToolCall) error
}

// Config holds configuration for the MCP server.
type Config struct {
	Registry *tools.Registry
	Sessions *session.Store
	Auth     *auth.Authenticator // nil or empty token allows every request
	Recorder CallRecorder        // optional
	Logger   *slog.Logger
	Info     ServerInfo // zero value uses DefaultServerInfo
}

// Server implements the /mcp endpoint.
type Server struct {
	registry *tools.Registry
	sessions *session.Store
	auth     *auth.Authenticator
	recorder CallRecorder
	logger   *slog.Logger
	info     ServerInfo
}

// DefaultServerInfo is the identity reported to clients during initialize.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "trustydata-mcp",
		Version: "1.0.0",
		Icon: &Icon{
			Type: "url",
			URL:  "https://mcp.trustydata.app/favicon.ico",
		},
	}
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := cfg.Info
	if info.Name == "" {
		info = DefaultServerInfo()
	}

	return &Server{
		registry: cfg.Registry,
		sessions: cfg.Sessions,
		auth:     cfg.Auth,
		recorder: cfg.Recorder,
		logger:   logger,
		info:     info,
	}, nil
}

// Handler returns the authenticated /mcp handler.
func (s *Server) Handler() http.Handler {
	return auth.Require(s.auth, http.HandlerFunc(s.handleMCP))
}

// RegisterRoutes registers the MCP endpoint on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/mcp", s.Handler())
}

// handleMCP is the single MCP endpoint supporting POST, GET, and DELETE.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleGet answers the SSE probe. Server-initiated streams are not offered.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get(HeaderSessionID); id != "" {
		if _, ok := s.sessions.Get(id); ok {
			w.Header().Set(HeaderSessionID, id)
		}
	}

	if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		http.Error(w, "Not Acceptable: client must accept text/event-stream", http.StatusNotAcceptable)
		return
	}

	w.Header().Set("Allow", "POST, DELETE")
	http.Error(w, "Method Not Allowed: server-initiated streaming is not supported", http.StatusMethodNotAllowed)
}

// handleDelete terminates a session.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" || !s.sessions.Terminate(sessionID) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.logger.Info("MCP session terminated", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// handlePost processes JSON-RPC messages sent via HTTP POST.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var reqID json.RawMessage
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic while handling MCP request",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			s.sendJSONRPCError(w, reqID, JSONRPCInternalError, fmt.Sprint(rec))
		}
	}()

	protoVersion := r.Header.Get(HeaderProtocolVersion)
	if protoVersion == "" {
		protoVersion = DefaultClientProtocolVersion
	}

	sess, created := s.sessions.Resolve(r.Header.Get(HeaderSessionID))
	w.Header().Set(HeaderSessionID, sess.ID)

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.sendJSONRPCError(w, nil, JSONRPCInternalError, "failed to read request body")
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.sendJSONRPCError(w, nil, JSONRPCInternalError, "request body too large")
		return
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.sendJSONRPCError(w, nil, JSONRPCInternalError, "invalid JSON: "+err.Error())
		return
	}
	reqID = msg.ID

	if msg.Method == "" {
		if msg.isResponse() {
			s.logger.Debug("accepted client response", "session_id", sess.ID)
			w.WriteHeader(http.StatusAccepted)
			return
		}
		s.sendJSONRPCError(w, reqID, JSONRPCInternalError, "missing method")
		return
	}

	method := ParseMethod(msg.Method)
	s.logger.Debug("MCP request",
		"method", msg.Method,
		"session_id", sess.ID,
		"session_created", created,
		"protocol_version", protoVersion,
	)

	switch method {
	case MethodInitialize:
		s.handleInitialize(w, sess, msg)
	case MethodToolsList:
		s.handleToolsList(w, msg)
	case MethodToolsCall:
		s.handleToolsCall(w, r, sess, msg)
	case MethodUnhandled:
		s.logger.Debug("accepted unhandled MCP message", "method", msg.Method)
		w.WriteHeader(http.StatusAccepted)
	}
}

// handleInitialize completes the handshake for the resolved session.
func (s *Server) handleInitialize(w http.ResponseWriter, sess session.Session, msg JSONRPCMessage) {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.logger.Debug("ignoring unreadable initialize params", "error", err)
		}
	}

	s.sessions.MarkInitialized(sess.ID, params.ProtocolVersion)
	s.logger.Info("MCP session initialized",
		"session_id", sess.ID,
		"client_protocol_version", params.ProtocolVersion,
		"client_name", params.ClientInfo.Name,
	)

	s.sendJSONRPCResult(w, msg.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
		ServerInfo:      s.info,
	})
}

// handleToolsList handles tools/list requests.
func (s *Server) handleToolsList(w http.ResponseWriter, msg JSONRPCMessage) {
	defs := s.registry.Definitions()
	result := MCPListToolsResult{
		Tools: make([]MCPToolInfo, len(defs)),
	}
	for i, def := range defs {
		result.Tools[i] = MCPToolInfo{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
	}

	s.logger.Debug("tools/list", "count", len(defs))
	s.sendJSONRPCResult(w, msg.ID, result)
}

// handleToolsCall handles tools/call requests.
func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request, sess session.Session, msg JSONRPCMessage) {
	var params MCPCallToolParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.sendJSONRPCError(w, msg.ID, JSONRPCInternalError, "invalid params: "+err.Error())
			return
		}
	}

	args, err := decodeArguments(params.Arguments)
	if err != nil {
		s.sendJSONRPCError(w, msg.ID, JSONRPCInternalError, err.Error())
		return
	}

	start := time.Now()
	res, err := s.registry.Call(r.Context(), params.Name, args)
	if err != nil {
		s.logger.Warn("tool call failed",
			"tool_name", params.Name,
			"session_id", sess.ID,
			"error", err,
		)
		s.sendJSONRPCError(w, msg.ID, JSONRPCInternalError, err.Error())
		return
	}
	elapsed := time.Since(start)

	content, err := encodeContent(res.Content)
	if err != nil {
		s.sendJSONRPCError(w, msg.ID, JSONRPCInternalError, err.Error())
		return
	}

	s.logger.Info("tools/call complete",
		"tool_name", params.Name,
		"session_id", sess.ID,
		"is_error", res.IsError,
		"duration", elapsed,
	)
	s.record(r.Context(), sess.ID, params, res.IsError, elapsed)

	s.sendJSONRPCResult(w, msg.ID, MCPCallToolResult{
		Content: content,
		IsError: res.IsError,
	})
}

// record writes a ledger entry. Failures are logged and never reach the client.
func (s *Server) record(ctx context.Context, sessionID string, params MCPCallToolParams, isError bool, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}

	args := string(params.Arguments)
	if args == "" || args == "null" {
		args = "{}"
	}
	call := &store.ToolCall{
		SessionID:     sessionID,
		ToolName:      params.Name,
		ArgumentsJSON: args,
		IsError:       isError,
		Duration:      elapsed,
	}
	if err := s.recorder.RecordToolCall(context.WithoutCancel(ctx), call); err != nil {
		s.logger.Warn("failed to record tool call", "tool_name", params.Name, "error", err)
	}
}

// decodeArguments decodes tool arguments, keeping numbers as json.Number so
// they reach the tool with their original digits.
func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args, nil
}

// encodeContent converts tool output into wire content blocks.
func encodeContent(items []tools.Content) ([]MCPContent, error) {
	out := make([]MCPContent, 0, len(items))
	for _, item := range items {
		switch c := item.(type) {
		case tools.TextContent:
			out = append(out, MCPContent{Type: c.Type(), Text: c.Text})
		default:
			return nil, fmt.Errorf("unsupported content type %T", item)
		}
	}
	return out, nil
}

// sendJSONRPCResult sends a successful JSON-RPC response.
func (s *Server) sendJSONRPCResult(w http.ResponseWriter, id json.RawMessage, result any) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}

// sendJSONRPCError sends a JSON-RPC error envelope with HTTP 500.
func (s *Server) sendJSONRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC error response", "error", err)
	}
}
