// Package main provides the entry point for the slack-notion CLI and MCP
// server.
//
// slack-notion reads Slack channels and threads for an assistant and
// publishes the resulting summaries as Notion pages, converting markdown to
// native Notion blocks.
package main

import (
	"os"

	"github.com/adamancini/slack-notion-mcp/internal/cli"
)

// Version information set by build flags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
