// Package cli implements the Cobra-based command-line interface for slack-notion.
//
// The CLI runs the MCP server and exposes the Notion conversion and publishing
// pipeline directly for scripting and debugging.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/slack-notion-mcp/internal/config"
	"github.com/adamancini/slack-notion-mcp/internal/mcp"
)

var (
	// Version information set at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags.
	cfgFile string
	verbose bool

	// Loaded configuration and logger.
	cfg    *config.Config
	logger = zap.NewNop()
)

// SetVersion sets the version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	mcp.Version = v
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf("slack-notion %s (commit: %s, built: %s)\n", version, commit, date)
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slack-notion",
	Short: "Summarize Slack conversations into Notion pages",
	Long: `slack-notion is an MCP server that reads Slack channels and threads
and publishes summaries as Notion pages.

Markdown written by the assistant is converted to native Notion blocks:
headings, lists, dividers, code blocks, tables and inline formatting.

Credentials are read from the environment or a .env file:
  SLACK_BOT_TOKEN        Slack bot token (xoxb-...)
  NOTION_API_KEY         Notion integration token
  NOTION_PARENT_PAGE_ID  Parent page URL or ID for new pages

Use 'slack-notion serve' to start the MCP server on stdio.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init writes the config; it must run without one.
		if cmd.Name() == "init" {
			return nil
		}

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		lg, err := newLogger(level)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = lg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .slack-notion.yaml or $HOME/.config/slack-notion/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetVersionTemplate(versionTemplate())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(historyCmd)
}

// ErrNoConfig is returned when no configuration is available.
var ErrNoConfig = fmt.Errorf("no configuration loaded")

// getConfig returns the loaded configuration or an error if not available.
func getConfig() (*config.Config, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	return cfg, nil
}
