// ABOUTME: Landing page served on / describing the connector
// ABOUTME: Builds markdown from live settings and renders it to HTML with goldmark

package gateway

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/trustydata/trustydata-mcp/internal/mcp"
)

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="icon" href="{{.Icon}}">
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; color: #1f2933; }
code, pre { background: #f3f4f6; border-radius: 4px; }
pre { padding: 0.75rem; overflow-x: auto; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

// landingMarkdown describes the endpoint, its auth requirement, and the tools.
func (g *Gateway) landingMarkdown() string {
	var b strings.Builder
	info := mcp.DefaultServerInfo()

	fmt.Fprintf(&b, "# %s\n\n", info.Name)
	b.WriteString("MCP connector for the TrustyData French locality API.\n\n")

	b.WriteString("## Endpoint\n\n")
	fmt.Fprintf(&b, "- URL: `%s`\n", g.mcpEndpoint)
	b.WriteString("- Transport: Streamable HTTP, JSON responses\n")
	fmt.Fprintf(&b, "- Protocol version: `%s`\n", mcp.ProtocolVersion)
	if g.config.Auth.Token != "" {
		b.WriteString("- Authentication: `Authorization: Bearer <token>` required\n\n")
	} else {
		b.WriteString("- Authentication: none (insecure mode)\n\n")
	}

	b.WriteString("## Tools\n\n")
	for _, def := range g.registry.Definitions() {
		fmt.Fprintf(&b, "### `%s`\n\n%s\n\n", def.Name, def.Description)
	}
	return b.String()
}

// handleLanding renders the landing page.
func (g *Gateway) handleLanding(w http.ResponseWriter, _ *http.Request) {
	var htmlBuf bytes.Buffer
	if err := goldmark.Convert([]byte(g.landingMarkdown()), &htmlBuf); err != nil {
		g.logger.Error("failed to convert markdown", "error", err)
		htmlBuf.Reset()
		htmlBuf.WriteString("<p>Failed to render page.</p>")
	}

	info := mcp.DefaultServerInfo()
	data := struct {
		Title   string
		Icon    string
		Content template.HTML
	}{
		Title:   info.Name,
		Icon:    info.Icon.URL,
		Content: template.HTML(htmlBuf.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := landingTemplate.Execute(w, data); err != nil {
		g.logger.Warn("failed to render landing page", "error", err)
	}
}
