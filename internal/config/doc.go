// Package config handles configuration loading for trustydata-mcp.
//
// # Overview
//
// Configuration is loaded from a YAML file (or TOML, for files ending in
// .toml) with environment variable expansion. Missing fields get defaults, and
// a handful of environment variables override file values so the server can
// run from the environment alone.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from TRUSTYDATA_MCP_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/trustydata/mcp.yaml
//  3. ~/.config/trustydata/mcp.yaml
//
// A missing file is not an error for LoadOrDefault.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	upstream:
//	  api_key: "${TRUSTYDATA_API_KEY}"
//
// # Environment Overrides
//
// Applied after the file is read:
//
//   - API_BASE_URL: upstream.base_url
//   - TRUSTYDATA_API_KEY: upstream.api_key
//   - SERVER_AUTH_TOKEN: auth.token
//   - HOST, PORT: host and port parts of server.http_addr
//   - TRUSTYDATA_DB_PATH: database.path
//
// # Configuration Sections
//
//	server:
//	  http_addr: "127.0.0.1:8500"
//	  public_url: "https://mcp.trustydata.app"
//
//	upstream:
//	  base_url: "http://127.0.0.1:8080"
//	  api_key: "${TRUSTYDATA_API_KEY}"
//	  search_path: "/locality/search"
//	  timeout: "30s"
//
//	auth:
//	  token: "${SERVER_AUTH_TOKEN}"   # empty runs without auth
//
//	sessions:
//	  ttl: "24h"            # "0s" keeps sessions until deleted
//	  max_sessions: 10000   # 0 removes the bound
//
//	cors:
//	  allowed_origins: ["*"]
//
//	database:
//	  path: "~/.config/trustydata/mcp.db"   # empty disables the call ledger
//
//	tailscale:
//	  enabled: false
//	  hostname: "trustydata-mcp"
//	  auth_key: "${TS_AUTHKEY}"
//	  funnel: false
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
