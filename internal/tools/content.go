// ABOUTME: Typed tool output: a sealed sum type over MCP content kinds.
// ABOUTME: Text is the only kind produced today; the interface leaves room for more.

package tools

// ContentTypeText is the MCP type tag for text content.
const ContentTypeText = "text"

// Content is one block of tool output. The set of implementations is closed:
// only this package can add variants.
type Content interface {
	Type() string
	isContent()
}

// TextContent is a plain-text block.
type TextContent struct {
	Text string
}

func (TextContent) Type() string { return ContentTypeText }
func (TextContent) isContent()   {}

// Result is what a tool hands back to the protocol layer.
type Result struct {
	Content []Content
	// IsError marks tool-domain failures (bad configuration, upstream errors).
	// They are still ordinary results, never protocol errors.
	IsError bool
}

// TextResult builds a single-block text result.
func TextResult(text string) Result {
	return Result{Content: []Content{TextContent{Text: text}}}
}

// ErrorResult builds a single-block text result flagged as a tool error.
func ErrorResult(text string) Result {
	return Result{Content: []Content{TextContent{Text: text}}, IsError: true}
}
