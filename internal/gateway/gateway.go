// ABOUTME: Gateway orchestrator that wires the MCP endpoint, upstream client, and HTTP server
// ABOUTME: Manages listeners (TCP or Tailscale), health and landing routes, and shutdown lifecycle

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/trustydata/trustydata-mcp/internal/auth"
	"github.com/trustydata/trustydata-mcp/internal/config"
	"github.com/trustydata/trustydata-mcp/internal/locality"
	"github.com/trustydata/trustydata-mcp/internal/mcp"
	"github.com/trustydata/trustydata-mcp/internal/session"
	"github.com/trustydata/trustydata-mcp/internal/store"
	"github.com/trustydata/trustydata-mcp/internal/tools"
	"github.com/trustydata/trustydata-mcp/internal/trustydata"
)

// ServiceName identifies the service in health responses.
const ServiceName = "trustydata-mcp"

// Gateway orchestrates the trustydata-mcp server components.
type Gateway struct {
	config      *config.Config
	sessions    *session.Store
	registry    *tools.Registry
	ledger      *store.SQLiteStore // nil when database.path is empty
	mcpServer   *mcp.Server
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	logger      *slog.Logger

	// mcpEndpoint is the public URL of the MCP endpoint (e.g., "http://localhost:8500/mcp")
	mcpEndpoint string
}

// determineMCPEndpoint resolves the advertised MCP endpoint URL from config.
func determineMCPEndpoint(cfg *config.Config) string {
	if cfg.Server.PublicURL != "" {
		return strings.TrimSuffix(cfg.Server.PublicURL, "/") + "/mcp"
	}
	if cfg.Tailscale.Enabled {
		scheme := "http"
		if cfg.Tailscale.Funnel {
			scheme = "https"
		}
		return scheme + "://" + cfg.Tailscale.Hostname + "/mcp"
	}
	return "http://" + cfg.Server.HTTPAddr + "/mcp"
}

// initLedger opens the tool-call ledger if a database path is configured.
func initLedger(cfg *config.Config) (*store.SQLiteStore, error) {
	if cfg.Database.Path == "" {
		return nil, nil
	}
	return store.NewSQLiteStore(cfg.Database.Path)
}

// warnInsecureSettings logs startup warnings for missing secrets.
func warnInsecureSettings(cfg *config.Config, logger *slog.Logger) {
	if cfg.Auth.Token == "" {
		logger.Warn("auth.token is not set: /mcp accepts unauthenticated requests")
	}
	if cfg.Upstream.APIKey == "" {
		logger.Warn("upstream.api_key is not set: search_localities will report a configuration error")
	}
}

// New creates a new Gateway instance with all components wired together.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	warnInsecureSettings(cfg, logger)

	client, err := trustydata.NewClient(trustydata.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		APIKey:     cfg.Upstream.APIKey,
		SearchPath: cfg.Upstream.SearchPath,
		Timeout:    cfg.Upstream.Timeout,
		Logger:     logger.With("component", "upstream"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating upstream client: %w", err)
	}

	registry, err := tools.NewRegistry(
		locality.Tool(client, logger.With("component", "locality")),
	)
	if err != nil {
		return nil, fmt.Errorf("building tool registry: %w", err)
	}

	ledger, err := initLedger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	sessions := session.New(session.Options{
		TTL:         cfg.Sessions.TTL,
		MaxSessions: cfg.Sessions.MaxSessions,
		Logger:      logger.With("component", "sessions"),
	})

	gw := &Gateway{
		config:      cfg,
		sessions:    sessions,
		registry:    registry,
		ledger:      ledger,
		logger:      logger,
		mcpEndpoint: determineMCPEndpoint(cfg),
	}

	mcpCfg := mcp.Config{
		Registry: registry,
		Sessions: sessions,
		Auth:     auth.NewAuthenticator(cfg.Auth.Token),
		Logger:   logger.With("component", "mcp"),
	}
	if ledger != nil {
		mcpCfg.Recorder = ledger
	}
	gw.mcpServer, err = mcp.NewServer(mcpCfg)
	if err != nil {
		gw.closeOptionalComponents()
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", gw.handleHealth)
	mux.HandleFunc("GET /{$}", gw.handleLanding)
	gw.mcpServer.RegisterRoutes(mux)

	cors := NewCors(cfg.CORS.AllowedOrigins)
	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           cors.Middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// Handler returns the root HTTP handler, CORS included.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}

// MCPEndpoint returns the advertised MCP endpoint URL.
func (g *Gateway) MCPEndpoint() string {
	return g.mcpEndpoint
}

// setupTCPListener creates a standard TCP listener for HTTP.
func (g *Gateway) setupTCPListener() (net.Listener, error) {
	g.logger.Info("starting gateway", "http_addr", g.config.Server.HTTPAddr)

	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// setupListener creates the listener based on configuration (Tailscale or TCP).
func (g *Gateway) setupListener(ctx context.Context) (net.Listener, error) {
	if g.config.Tailscale.Enabled {
		g.logger.Warn("server.http_addr is ignored when tailscale is enabled",
			"http_addr", g.config.Server.HTTPAddr,
		)
		return g.setupTailscaleListener(ctx)
	}
	return g.setupTCPListener()
}

// startServer serves HTTP in a goroutine, returning its error channel.
func (g *Gateway) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening",
			"addr", ln.Addr().String(),
			"mcp_endpoint", g.mcpEndpoint,
		)
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		return err
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := g.setupListener(ctx)
	if err != nil {
		g.closeOptionalComponents()
		return err
	}

	errCh := g.startServer(ln)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() since the original context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// resolveTailscaleStateDir returns the state directory, using default if not configured.
func resolveTailscaleStateDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for tailscale state (set tailscale.state_dir explicitly): %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "trustydata-mcp", "tailscale"), nil
}

// resolveTailscaleAuthKey returns the auth key from config or environment.
func resolveTailscaleAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set auth_key in config or TS_AUTHKEY environment variable (get one at https://login.tailscale.com/admin/settings/keys)")
	}
	return authKey, nil
}

// setupTailscaleListener starts a tsnet node and returns its HTTP listener.
func (g *Gateway) setupTailscaleListener(ctx context.Context) (net.Listener, error) {
	tsCfg := g.config.Tailscale

	stateDir, err := resolveTailscaleStateDir(tsCfg.StateDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}

	authKey, err := resolveTailscaleAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, err
	}

	g.tsnetServer = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}

	g.logger.Info("starting tailscale node", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := g.tsnetServer.Up(ctx)
	if err != nil {
		_ = g.tsnetServer.Close()
		return nil, fmt.Errorf("starting tailscale: %w", err)
	}

	g.logTailscaleStatus(tsCfg.Hostname, status)
	g.updateMCPEndpointFromStatus(status)

	return g.createTailscaleHTTPListener(tsCfg)
}

// logTailscaleStatus logs info about the tailscale node status.
func (g *Gateway) logTailscaleStatus(hostname string, status *ipnstate.Status) {
	var tsAddr, dnsName string
	if len(status.TailscaleIPs) > 0 {
		tsAddr = status.TailscaleIPs[0].String()
	} else {
		g.logger.Warn("tailscale node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = status.Self.DNSName
	}
	g.logger.Info("tailscale node ready", "hostname", hostname, "tailscale_ip", tsAddr, "dns_name", dnsName)
}

// updateMCPEndpointFromStatus switches the advertised endpoint to the node's DNS name.
func (g *Gateway) updateMCPEndpointFromStatus(status *ipnstate.Status) {
	if g.config.Server.PublicURL != "" || status.Self == nil || status.Self.DNSName == "" {
		return
	}
	scheme := "http"
	if g.config.Tailscale.Funnel {
		scheme = "https"
	}
	cleanDNS := strings.TrimSuffix(status.Self.DNSName, ".")
	newEndpoint := scheme + "://" + cleanDNS + "/mcp"
	if newEndpoint != g.mcpEndpoint {
		g.logger.Info("updated MCP endpoint to use Tailscale DNS name", "old", g.mcpEndpoint, "new", newEndpoint)
		g.mcpEndpoint = newEndpoint
	}
}

// createTailscaleHTTPListener listens on :443 via Funnel or :80 on the tailnet.
func (g *Gateway) createTailscaleHTTPListener(tsCfg config.TailscaleConfig) (net.Listener, error) {
	if tsCfg.Funnel {
		g.logger.Info("enabling tailscale funnel (public HTTPS) on :443")
		ln, err := g.tsnetServer.ListenFunnel("tcp", ":443")
		if err != nil {
			_ = g.tsnetServer.Close()
			return nil, fmt.Errorf("listening on tailscale funnel port: %w", err)
		}
		return ln, nil
	}

	ln, err := g.tsnetServer.Listen("tcp", ":80")
	if err != nil {
		_ = g.tsnetServer.Close()
		return nil, fmt.Errorf("listening on tailscale HTTP port: %w", err)
	}
	return ln, nil
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// closeOptionalComponents releases components that outlive a failed startup.
func (g *Gateway) closeOptionalComponents() []error {
	var errs []error
	if g.sessions != nil {
		g.sessions.Close()
	}
	if g.ledger != nil {
		errs = appendCloseError(errs, "store close", g.ledger.Close())
		g.ledger = nil
	}
	return errs
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", g.httpServer.Shutdown(ctx))

	if g.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", g.tsnetServer.Close())
	}

	errs = append(errs, g.closeOptionalComponents()...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// HealthStatus is the JSON body served on /health.
type HealthStatus struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Sessions        int    `json:"sessions"`
}

// handleHealth reports liveness plus the live session count.
func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := HealthStatus{
		Status:          "healthy",
		Service:         ServiceName,
		Version:         mcp.DefaultServerInfo().Version,
		ProtocolVersion: mcp.ProtocolVersion,
		Sessions:        g.sessions.Count(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		g.logger.Warn("failed to encode health response", "error", err)
	}
}
