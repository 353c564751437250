// ABOUTME: Tests for CLI helpers: config path resolution, calls flags, health URL, and logging
// ABOUTME: Exercises the color and JSON slog handlers against a buffer

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustydata/trustydata-mcp/internal/config"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("TRUSTYDATA_MCP_CONFIG", "/etc/trustydata/mcp.toml")
	assert.Equal(t, "/etc/trustydata/mcp.toml", getConfigPath())

	t.Setenv("TRUSTYDATA_MCP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "trustydata", "mcp.yaml"), getConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".config", "trustydata", "mcp.yaml"), getConfigPath())
}

func TestParseCallsArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 20},
		{args: []string{"-n", "5"}, want: 5},
		{args: []string{"--limit", "0"}, want: 0},
		{args: []string{"-n=7"}, want: 7},
		{args: []string{"--limit=3"}, want: 3},
		{args: []string{"-n"}, wantErr: true},
		{args: []string{"-n", "many"}, wantErr: true},
		{args: []string{"-n", "-1"}, wantErr: true},
		{args: []string{"--verbose"}, wantErr: true},
		{args: []string{"extra"}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseCallsArgs(tt.args)
		if tt.wantErr {
			assert.Error(t, err, "args %v", tt.args)
			continue
		}
		require.NoError(t, err, "args %v", tt.args)
		assert.Equal(t, tt.want, got, "args %v", tt.args)
	}
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8500/health", healthURL("127.0.0.1:8500"))
	assert.Equal(t, "http://127.0.0.1:8500/health", healthURL("0.0.0.0:8500"))
	assert.Equal(t, "http://127.0.0.1:9000/health", healthURL(":9000"))
	assert.Equal(t, "http://mcp.local:80/health", healthURL("mcp.local:80"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("12345678-aaaa-bbbb"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestIsYes(t *testing.T) {
	assert.True(t, isYes("y"))
	assert.True(t, isYes(" YES "))
	assert.False(t, isYes("no"))
	assert.False(t, isYes(""))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("visible", "session_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
}

func TestNewLogger_Color(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)

	logger.With("component", "mcp").WithGroup("req").Debug("tools/call", "tool_name", "search_localities")

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "tools/call")
	assert.Contains(t, out, "component=")
	assert.Contains(t, out, "req.tool_name=")
	assert.Contains(t, out, "search_localities")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARN").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
