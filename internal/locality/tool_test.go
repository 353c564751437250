// ABOUTME: Tests for the search_localities handler against stubbed upstreams.
// ABOUTME: Verifies passthrough to the real client and soft-fail rendering of every error path.

package locality

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustydata/trustydata-mcp/internal/tools"
	"github.com/trustydata/trustydata-mcp/internal/trustydata"
)

// fakeSearcher records calls and returns canned answers.
type fakeSearcher struct {
	configured bool
	resp       *trustydata.SearchResponse
	err        error
	calls      []url.Values
}

func (f *fakeSearcher) Configured() bool { return f.configured }

func (f *fakeSearcher) Search(_ context.Context, q url.Values) (*trustydata.SearchResponse, error) {
	f.calls = append(f.calls, q)
	return f.resp, f.err
}

func resultText(t *testing.T, res tools.Result) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(tools.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestTool_Definition(t *testing.T) {
	tool := Tool(&fakeSearcher{}, nil)

	assert.Equal(t, "search_localities", tool.Definition.Name)
	assert.Contains(t, tool.Definition.Description, "French localities")
	assert.Contains(t, string(tool.Definition.InputSchema), `"maximum": 1000`)
	assert.NotNil(t, tool.Handler)
}

func TestTool_NotConfigured(t *testing.T) {
	s := &fakeSearcher{configured: false}
	res, err := Tool(s, nil).Handler(context.Background(), map[string]any{"q": "Paris"})

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, NotConfiguredMessage, resultText(t, res))
	assert.Empty(t, s.calls, "upstream must not be called without a key")
}

func TestTool_UpstreamHTTPError(t *testing.T) {
	s := &fakeSearcher{configured: true, err: &trustydata.HTTPError{StatusCode: 502, Body: "bad gateway"}}
	res, err := Tool(s, nil).Handler(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "API Error (502): bad gateway", resultText(t, res))
}

func TestTool_GenericFailure(t *testing.T) {
	s := &fakeSearcher{configured: true, err: errors.New("dial tcp: connection refused")}
	res, err := Tool(s, nil).Handler(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error searching localities: dial tcp: connection refused", resultText(t, res))
}

func TestTool_NoResultsIsNotAnError(t *testing.T) {
	s := &fakeSearcher{configured: true, resp: &trustydata.SearchResponse{Status: "OK", Count: 0}}
	res, err := Tool(s, nil).Handler(context.Background(), map[string]any{"q": "XYZ_NONEXISTENT_CITY_123"})

	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "No localities found matching your criteria.")
}

func TestTool_EndToEndWithClient(t *testing.T) {
	var gotQuery url.Values
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","message":"","count":2,"choices":[
			{"nom_commune":"Paris","code_postal":"75001","cog":{"insee":"75056"}},
			{"nom_commune":"Paris-l'Hôpital","code_postal":"71150","cog":{"insee":"71343"}}
		]}`))
	}))
	defer upstream.Close()

	client, err := trustydata.NewClient(trustydata.Config{BaseURL: upstream.URL, APIKey: "k"})
	require.NoError(t, err)

	args := decodeArgs(t, `{"q":"Paris","limit":3,"department_code":["75","71"],"details":true,"region_name":null}`)
	res, err := Tool(client, nil).Handler(context.Background(), args)
	require.NoError(t, err)

	text := resultText(t, res)
	assert.True(t, strings.HasPrefix(text, "Found 2 localities:"), text)
	assert.Contains(t, text, "1. **Paris**")
	assert.Contains(t, text, "2. **Paris-l'Hôpital**")

	// Every non-null argument reached the upstream unchanged.
	for key, value := range args {
		if value == nil {
			_, present := gotQuery[key]
			assert.False(t, present, "null argument %q should be dropped", key)
			continue
		}
		assert.Equal(t, EncodeArguments(map[string]any{key: value})[key], gotQuery[key], "argument %q", key)
	}
	assert.Equal(t, "Paris", gotQuery.Get("q"))
	assert.Equal(t, "3", gotQuery.Get("limit"))
	assert.Equal(t, []string{"75", "71"}, gotQuery["department_code"])
	assert.Equal(t, "true", gotQuery.Get("details"))
}
