// ABOUTME: Static registry of in-process tools exposed over MCP.
// ABOUTME: Built once at startup; lookups of unknown names fail hard with ErrUnknownTool.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownTool indicates a tools/call named a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrToolCollision indicates two tools were registered under the same name.
var ErrToolCollision = errors.New("tool name collision")

// Handler executes a tool. Arguments are the decoded JSON object from
// tools/call (nil when the client sent none). Tool-domain failures belong in
// the Result; a non-nil error is a protocol-level fault.
type Handler func(ctx context.Context, args map[string]any) (Result, error)

// Definition describes a tool the way tools/list advertises it.
type Definition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Tool pairs a definition with its handler.
type Tool struct {
	Definition Definition
	Handler    Handler
}

// Registry holds the fixed set of tools. It is immutable after construction
// and therefore safe for concurrent use.
type Registry struct {
	ordered []*Tool
	byName  map[string]*Tool
}

// NewRegistry validates and indexes the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		ordered: make([]*Tool, 0, len(tools)),
		byName:  make(map[string]*Tool, len(tools)),
	}

	for i := range tools {
		t := tools[i]
		if t.Definition.Name == "" {
			return nil, errors.New("tool name is required")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", t.Definition.Name)
		}
		if _, exists := r.byName[t.Definition.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrToolCollision, t.Definition.Name)
		}
		r.ordered = append(r.ordered, &t)
		r.byName[t.Definition.Name] = &t
	}
	return r, nil
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, len(r.ordered))
	for i, t := range r.ordered {
		defs[i] = t.Definition
	}
	return defs
}

// Call runs the named tool.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (Result, error) {
	t, ok := r.byName[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Handler(ctx, args)
}
