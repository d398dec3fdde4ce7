package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adamancini/slack-notion-mcp/internal/state"
)

var historyLimit int

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently published pages",
	Long: `List pages published by the server or the publish command, newest first.

Example output:
  2026-02-15 10:04  complete   42 blocks  Weekly sync
                    https://www.notion.so/Weekly-sync-1234...`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.ListHistory(historyLimit)
	if err != nil {
		return err
	}

	printHistory(cmd.OutOrStdout(), entries)
	return nil
}

func printHistory(w io.Writer, entries []*state.Publish) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No pages published yet.")
		return
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-8s %4d %s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Status,
			e.Blocks,
			pluralize(e.Blocks, "block", "blocks"),
			e.Title,
		)
		if e.URL != "" {
			fmt.Fprintf(w, "%18s%s\n", "", e.URL)
		}
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
