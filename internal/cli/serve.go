package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/slack-notion-mcp/internal/mcp"
	"github.com/adamancini/slack-notion-mcp/internal/state"
)

var serveHTTPAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server.

The server talks MCP over stdin/stdout by default, which is what local
assistants expect. Use --http to serve Streamable HTTP instead.

Missing credentials do not stop the server; the tools that need them report
which variable is not set.

Examples:
  slack-notion serve
  slack-notion serve --http 127.0.0.1:8483`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "serve Streamable HTTP on this address instead of stdio")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []mcp.Option{
		mcp.WithLogger(logger),
		mcp.WithThreadWorkers(cfg.Slack.ThreadWorkers),
		mcp.WithMissingCredentials(cfg.MissingSlack(), cfg.MissingNotion()),
		mcp.WithPreferences(state.NewPreferences(cfg.State.PreferencesPath)),
	}

	if sc := newSlackClient(cfg); sc != nil {
		opts = append(opts, mcp.WithSlack(sc))
	} else {
		logger.Warn("slack tools disabled", zap.Strings("missing", cfg.MissingSlack()))
	}

	if pub := newPublisher(cfg); pub != nil {
		opts = append(opts, mcp.WithPublisher(pub))
	} else {
		logger.Warn("notion tools disabled", zap.Strings("missing", cfg.MissingNotion()))
	}

	db, err := openHistory(cfg)
	if err != nil {
		logger.Warn("publish history disabled", zap.Error(err))
	} else {
		defer db.Close()
		opts = append(opts, mcp.WithHistory(db))
	}

	srv := mcp.New(opts...)

	addr := serveHTTPAddr
	if addr == "" {
		addr = cfg.Server.HTTPAddr
	}
	if addr != "" {
		return srv.ServeHTTP(ctx, addr)
	}
	return srv.ServeStdio(ctx)
}

// contextOrBackground returns the command context, which is nil when a command
// runs outside Execute.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
