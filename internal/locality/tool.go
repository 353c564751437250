// ABOUTME: search_localities tool handler: passthrough query, upstream call, text rendering.
// ABOUTME: Absorbs every tool-domain failure into a readable text result.

package locality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/trustydata/trustydata-mcp/internal/tools"
	"github.com/trustydata/trustydata-mcp/internal/trustydata"
)

// NotConfiguredMessage is returned when no upstream API key is set.
const NotConfiguredMessage = "Error: TRUSTYDATA_API_KEY is not configured. Please configure your API key."

// Searcher runs locality searches against the upstream API.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query url.Values) (*trustydata.SearchResponse, error)
}

type handler struct {
	searcher Searcher
	logger   *slog.Logger
}

// Tool builds the search_localities tool around the given searcher.
func Tool(searcher Searcher, logger *slog.Logger) tools.Tool {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{searcher: searcher, logger: logger}
	return tools.Tool{
		Definition: tools.Definition{
			Name:        ToolName,
			Description: toolDescription,
			InputSchema: inputSchema,
		},
		Handler: h.search,
	}
}

func (h *handler) search(ctx context.Context, args map[string]any) (tools.Result, error) {
	if !h.searcher.Configured() {
		h.logger.Warn("search_localities called without an upstream API key")
		return tools.ErrorResult(NotConfiguredMessage), nil
	}

	query := EncodeArguments(args)
	h.logger.Info("searching localities", "params", query.Encode())

	resp, err := h.searcher.Search(ctx, query)
	if err != nil {
		return h.failure(err), nil
	}

	text, err := Format(resp)
	if err != nil {
		return h.failure(err), nil
	}

	h.logger.Debug("locality search complete",
		"status", resp.Status,
		"count", resp.Count,
	)
	return tools.TextResult(text), nil
}

// failure renders an upstream or rendering error as a text result.
func (h *handler) failure(err error) tools.Result {
	var httpErr *trustydata.HTTPError
	if errors.As(err, &httpErr) {
		msg := fmt.Sprintf("API Error (%d): %s", httpErr.StatusCode, httpErr.Body)
		h.logger.Error("upstream API error", "status", httpErr.StatusCode)
		return tools.ErrorResult(msg)
	}

	h.logger.Error("locality search failed", "error", err)
	return tools.ErrorResult("Error searching localities: " + err.Error())
}
