// ABOUTME: JSON-RPC 2.0 envelopes and MCP payload types for the /mcp endpoint.
// ABOUTME: Includes the closed Method enum used for dispatch.

package mcp

import "encoding/json"

// JSONRPCMessage is any inbound JSON-RPC message: request, notification, or
// a client's response to a server request.
type JSONRPCMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

func (m JSONRPCMessage) isResponse() bool {
	return len(m.Result) > 0 || len(m.Error) > 0
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSONRPCInternalError is the code used for every protocol-level failure.
const JSONRPCInternalError = -32603

// Method is the closed set of JSON-RPC methods the server answers.
type Method int

const (
	MethodUnhandled Method = iota
	MethodInitialize
	MethodToolsList
	MethodToolsCall
)

// ParseMethod maps a wire method name onto the Method enum.
func ParseMethod(name string) Method {
	switch name {
	case "initialize":
		return MethodInitialize
	case "tools/list":
		return MethodToolsList
	case "tools/call":
		return MethodToolsCall
	default:
		return MethodUnhandled
	}
}

func (m Method) String() string {
	switch m {
	case MethodInitialize:
		return "initialize"
	case MethodToolsList:
		return "tools/list"
	case MethodToolsCall:
		return "tools/call"
	default:
		return "unhandled"
	}
}

// InitializeParams is the subset of initialize params the server reads.
type InitializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
	ClientInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
}

// InitializeResult is the result for initialize.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities lists what the server offers. Only tools today.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability is an empty marker object.
type ToolsCapability struct{}

// ServerInfo is the server identity block.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Icon    *Icon  `json:"icon,omitempty"`
}

// Icon points clients at the server's icon.
type Icon struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MCPToolInfo represents an MCP tool definition.
type MCPToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// MCPListToolsResult is the result for tools/list.
type MCPListToolsResult struct {
	Tools []MCPToolInfo `json:"tools"`
}

// MCPCallToolParams are the params for tools/call.
type MCPCallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// MCPCallToolResult is the result for tools/call.
type MCPCallToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent is one content block on the wire.
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
