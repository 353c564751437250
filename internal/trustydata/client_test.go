// ABOUTME: Tests for the locality search client against an httptest upstream.
// ABOUTME: Covers auth headers, query passthrough, HTTP errors, timeouts, and decoding.

package trustydata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, APIKey: "key-123"}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "://bad"})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "https://api.example.com/", SearchPath: "v2/search"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v2/search", c.searchURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.False(t, c.Configured())
}

func TestClient_Search_SendsAuthAndQuery(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	var gotAuth, gotAccept string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"status":"OK","message":"","count":1,"choices":[{"nom_commune":"Lyon"}]}`))
	}, nil)

	q := url.Values{}
	q.Set("q", "Lyon")
	q.Add("department_code", "69")
	q.Add("department_code", "01")

	resp, err := c.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/locality/search", gotPath)
	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Lyon", gotQuery.Get("q"))
	assert.Equal(t, []string{"69", "01"}, gotQuery["department_code"])

	assert.Equal(t, StatusOK, resp.Status)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Lyon", resp.Choices[0].Name)
}

func TestClient_Search_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"bad key"}`))
	}, nil)

	_, err := c.Search(context.Background(), nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, `{"detail":"bad key"}`, httpErr.Body)
}

func TestClient_Search_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}, nil)

	_, err := c.Search(context.Background(), nil)
	require.Error(t, err)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.Contains(t, err.Error(), "decoding response")
}

func TestClient_Search_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(cfg *Config) {
		cfg.Timeout = 20 * time.Millisecond
	})
	defer close(release)

	_, err := c.Search(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Search_NotConfigured(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called without a key")
	}, func(cfg *Config) {
		cfg.APIKey = ""
	})

	_, err := c.Search(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFigure_Unmarshal(t *testing.T) {
	var p Population
	err := json.Unmarshal([]byte(`{"periode":2022,"totale":"2133111","municipale":2113705,"comptee_a_part":null}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "2022", p.Period.String())
	assert.Equal(t, "2133111", p.Total.String())
	assert.Equal(t, "2113705", p.Municipal.String())
	assert.False(t, p.CountedSeparately.Present())
	assert.Equal(t, "N/A", p.CountedSeparately.String())
}
