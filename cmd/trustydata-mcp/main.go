// ABOUTME: Entry point for the trustydata-mcp connector server
// ABOUTME: Subcommands to serve, write a config, probe health, and list recorded tool calls

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/trustydata/trustydata-mcp/internal/config"
	"github.com/trustydata/trustydata-mcp/internal/gateway"
	"github.com/trustydata/trustydata-mcp/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _                 _             _       _
| |_ _ __ _   _ __| |_ _   _  __| | __ _| |_ __ _       _ __ ___   ___ _ __
| __| '__| | | / __| __| | | |/ _' |/ _' | __/ _' |_____| '_ ' _ \ / __| '_ \
| |_| |  | |_| \__ \ |_| |_| | (_| | (_| | || (_| |_____| | | | | | (__| |_) |
 \__|_|   \__,_|___/\__|\__, |\__,_|\__,_|\__\__,_|     |_| |_| |_|\___| .__/
                        |___/                                          |_|
`

// getConfigPath returns the path to the config file.
// Priority: TRUSTYDATA_MCP_CONFIG env var > XDG_CONFIG_HOME/trustydata/mcp.yaml > ~/.config/trustydata/mcp.yaml
func getConfigPath() string {
	if envPath := os.Getenv("TRUSTYDATA_MCP_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "mcp.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "trustydata", "mcp.yaml")
}

func usage() {
	fmt.Println("Usage: trustydata-mcp [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve             Start the MCP server (default)")
	fmt.Println("  init              Create a new config file interactively")
	fmt.Println("  health            Check server health")
	fmt.Println("  calls [-n N]      List the most recent recorded tool calls")
}

func main() {
	command := "serve"
	if len(os.Args) >= 2 {
		command = os.Args[1]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch command {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	case "calls":
		err = runCalls(ctx, os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Upstream:  %s\n", cfg.Upstream.BaseURL)
	green.Print("    ▶ ")
	fmt.Printf("Auth:      ")
	if cfg.Auth.Token != "" {
		fmt.Println("bearer token")
	} else {
		yellow.Println("disabled (insecure)")
	}
	if cfg.Database.Path != "" {
		green.Print("    ▶ ")
		fmt.Printf("Ledger:    %s\n", cfg.Database.Path)
	}

	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel {
			yellow.Print(" [funnel]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	}

	fmt.Println()

	logger.Info("starting trustydata-mcp",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"upstream", cfg.Upstream.BaseURL,
	)

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

// healthURL builds the local /health URL, dialing loopback for wildcard binds.
func healthURL(httpAddr string) string {
	host, port, err := net.SplitHostPort(httpAddr)
	if err != nil {
		return "http://" + httpAddr + "/health"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/health"
}

func runHealth(ctx context.Context) error {
	cfg, err := config.LoadOrDefault(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(cfg.Server.HTTPAddr), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	var status gateway.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("decoding health response: %w", err)
	}

	color.New(color.FgGreen).Print(status.Status)
	fmt.Printf(" %s %s (protocol %s, %d sessions)\n",
		status.Service, status.Version, status.ProtocolVersion, status.Sessions)
	return nil
}

// parseCallsArgs parses "-n N", "--limit N", "-n=N" and "--limit=N".
func parseCallsArgs(args []string) (int, error) {
	limit := 20
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var raw string
		switch {
		case arg == "-n" || arg == "--limit":
			if i+1 >= len(args) {
				return 0, fmt.Errorf("%s requires a value", arg)
			}
			raw = args[i+1]
			i++
		case strings.HasPrefix(arg, "-n="):
			raw = strings.TrimPrefix(arg, "-n=")
		case strings.HasPrefix(arg, "--limit="):
			raw = strings.TrimPrefix(arg, "--limit=")
		case strings.HasPrefix(arg, "-"):
			return 0, fmt.Errorf("unknown flag: %s", arg)
		default:
			return 0, fmt.Errorf("unexpected argument: %s", arg)
		}

		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid limit %q", raw)
		}
		limit = n
	}
	return limit, nil
}

func runCalls(ctx context.Context, args []string) error {
	limit, err := parseCallsArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path is not set: tool calls are not being recorded")
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	total, err := s.CountToolCalls(ctx)
	if err != nil {
		return err
	}
	calls, err := s.ListToolCalls(ctx, limit)
	if err != nil {
		return err
	}

	printCalls(calls, total)
	return nil
}

func printCalls(calls []*store.ToolCall, total int) {
	gray := color.New(color.FgHiBlack)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	if len(calls) == 0 {
		fmt.Println("No tool calls recorded.")
		return
	}

	for _, c := range calls {
		gray.Print(c.CreatedAt.Local().Format("2006-01-02 15:04:05"), " ")
		if c.IsError {
			red.Print("ERR ")
		} else {
			green.Print("OK  ")
		}
		fmt.Printf("%-18s %6dms ", c.ToolName, c.Duration.Milliseconds())
		gray.Printf("session=%s ", shortID(c.SessionID))
		fmt.Println(c.ArgumentsJSON)
	}
	gray.Printf("\n%d of %d calls shown\n", len(calls), total)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("trustydata-mcp configuration setup")
	fmt.Println("==================================")
	fmt.Println()

	defaultConfigPath := getConfigPath()
	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.Default()

	fmt.Println("\n--- Server Configuration ---")
	cfg.Server.HTTPAddr = prompt(reader, "HTTP address", cfg.Server.HTTPAddr)
	cfg.Server.PublicURL = prompt(reader, "Public URL (leave empty to derive)", "")
	cfg.Auth.Token = prompt(reader, "Server bearer token (leave empty to use ${SERVER_AUTH_TOKEN})", "${SERVER_AUTH_TOKEN}")

	fmt.Println("\n--- Upstream Configuration ---")
	cfg.Upstream.BaseURL = prompt(reader, "TrustyData API base URL", cfg.Upstream.BaseURL)
	cfg.Upstream.APIKey = prompt(reader, "TrustyData API key", "${TRUSTYDATA_API_KEY}")
	cfg.Upstream.TimeoutRaw = prompt(reader, "Request timeout", config.DefaultTimeout.String())

	fmt.Println("\n--- Sessions ---")
	cfg.Sessions.TTLRaw = prompt(reader, "Session idle TTL (0s disables expiry)", config.DefaultSessionTTL.String())
	maxSessions, err := strconv.Atoi(prompt(reader, "Max sessions (0 removes the bound)", strconv.Itoa(config.DefaultMaxSessions)))
	if err != nil {
		return fmt.Errorf("max sessions must be a number: %w", err)
	}
	cfg.Sessions.MaxSessionsRaw = &maxSessions

	fmt.Println("\n--- Tool Call Ledger ---")
	cfg.Database.Path = prompt(reader, "SQLite database path (leave empty to disable)", "~/.local/share/trustydata/mcp.db")

	fmt.Println("\n--- Tailscale Configuration ---")
	cfg.Tailscale.Enabled = isYes(prompt(reader, "Enable Tailscale?", "no"))
	if cfg.Tailscale.Enabled {
		cfg.Tailscale.Hostname = prompt(reader, "Tailscale hostname", "trustydata-mcp")
		cfg.Tailscale.AuthKey = prompt(reader, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		cfg.Tailscale.Ephemeral = isYes(prompt(reader, "Ephemeral node?", "no"))
		cfg.Tailscale.Funnel = isYes(prompt(reader, "Enable Funnel (public HTTPS)?", "no"))
	}

	fmt.Println("\n--- Logging Configuration ---")
	cfg.Logging.Level = prompt(reader, "Log level (debug/info/warn/error)", cfg.Logging.Level)
	cfg.Logging.Format = prompt(reader, "Log format (text/json)", cfg.Logging.Format)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	var out strings.Builder
	out.WriteString("# trustydata-mcp configuration\n")
	out.WriteString("# Generated by trustydata-mcp init\n\n")
	out.Write(data)

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// The file may hold secrets.
	if err := os.WriteFile(outputFile, []byte(out.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  trustydata-mcp serve\n")

	return nil
}

func isYes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "yes" || a == "y"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
