// MediaWiki MCP Server - A Model Context Protocol server for MediaWiki wikis
// Provides tools for searching, reading, and editing MediaWiki content
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/mediawiki-mcp-server/internal/base"
	"github.com/olgasafonova/mediawiki-mcp-server/internal/mediawiki"
	"github.com/olgasafonova/mediawiki-mcp-server/metrics"
	"github.com/olgasafonova/mediawiki-mcp-server/tools"
	"github.com/olgasafonova/mediawiki-mcp-server/tracing"
	"github.com/spf13/cobra"
)

const (
	ServerName    = "mediawiki-mcp-server"
	ServerVersion = "1.0.0"
)

// Set via ldflags at build time.
var version = ServerVersion

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   ServerName,
		Short: "MCP server for a MediaWiki wiki",
		Long: `Serves MediaWiki search, read and edit tools over the Model Context Protocol on stdio.

The wiki is configured with MEDIAWIKI_URL; flags override the environment.`,
		Version: version,
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		RunE:         runServer,
	}

	cmd.Flags().String("wiki-url", "", "Wiki base URL, api.php is appended (overrides MEDIAWIKI_URL)")
	cmd.Flags().String("metrics-addr", "", "Listen address for the Prometheus /metrics endpoint (overrides METRICS_ADDR)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	return cmd
}

// envSettings holds process settings that are not part of the wiki config.
type envSettings struct {
	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// settings is the resolved startup configuration.
type settings struct {
	Wiki        *base.Config
	MetricsAddr string
	LogLevel    slog.Level
}

// loadSettings reads the environment and applies any flags that were set.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	env := envSettings{LogLevel: "info"}
	if err := envdecode.Decode(&env); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	wiki, err := base.LoadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("wiki-url") {
		wiki.BaseURL, _ = flags.GetString("wiki-url")
		if err := wiki.Validate(); err != nil {
			return nil, err
		}
	}
	if flags.Changed("metrics-addr") {
		env.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("log-level") {
		env.LogLevel, _ = flags.GetString("log-level")
	}

	level, err := parseLogLevel(env.LogLevel)
	if err != nil {
		return nil, err
	}

	return &settings{
		Wiki:        wiki,
		MetricsAddr: env.MetricsAddr,
		LogLevel:    level,
	}, nil
}

// parseLogLevel accepts debug, info, warn or error in any case.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger writes text logs to w. stdout is reserved for the MCP protocol.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	traceCfg := tracing.DefaultConfig()
	traceCfg.ServiceName = ServerName
	traceCfg.ServiceVersion = version
	traceCfg.WikiURL = cfg.Wiki.BaseURL
	shutdownTracing, err := tracing.Setup(ctx, traceCfg)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	if cfg.MetricsAddr != "" {
		metricsServer := startMetricsServer(cfg.MetricsAddr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	client := mediawiki.NewClient(cfg.Wiki, mediawiki.WithLogger(logger))
	server := newServer(client, logger)

	logger.Info("Starting MediaWiki MCP Server",
		"name", ServerName,
		"version", version,
		"wiki_url", cfg.Wiki.BaseURL,
		"tracing", traceCfg.Enabled,
		"metrics_addr", cfg.MetricsAddr,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// newServer creates the MCP server with every tool registered.
func newServer(client *mediawiki.Client, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: instructions(),
	})

	tools.NewHandlerRegistry(client, logger).RegisterAll(server)
	return server
}

// instructions describes the server and lists the registered tools.
func instructions() string {
	var b strings.Builder
	b.WriteString("MediaWiki MCP Server provides tools for reading and editing a MediaWiki wiki.\n\n")
	b.WriteString("Available tools:\n")
	for _, spec := range tools.AllTools {
		fmt.Fprintf(&b, "- %s: %s\n", spec.Name, spec.Title)
	}
	b.WriteString(`
Every tool returns {"success": true, ...} or {"success": false, "error": "..."}.
Draft tools write to the Draft namespace and mark the page for review.

Configure via environment variables:
- MEDIAWIKI_URL: Wiki base URL (e.g., https://wiki.example.com/w)
- MEDIAWIKI_TIMEOUT: HTTP timeout (default 30s)`)
	return b.String()
}

// metricsMux serves the Prometheus registry at /metrics.
func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func startMetricsServer(addr string, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
