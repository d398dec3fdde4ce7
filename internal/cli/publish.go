package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/slack-notion-mcp/internal/notion"
	"github.com/adamancini/slack-notion-mcp/internal/state"
)

var (
	publishTitle  string
	publishDryRun bool
)

// publishCmd represents the publish command.
var publishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Publish markdown text as a Notion page",
	Long: `Publish markdown text as a new page under NOTION_PARENT_PAGE_ID.

Reads the file argument, or stdin when no file is given. The title must not
already exist under the parent page.

Examples:
  slack-notion publish --title "Weekly sync" summary.md
  slack-notion publish --title "Weekly sync" --dry-run summary.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVarP(&publishTitle, "title", "t", "", "page title (required)")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "convert and report the block count without publishing")

	_ = publishCmd.MarkFlagRequired("title")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if publishDryRun {
		page := newTransformer(cfg).Page(publishTitle, text)
		fmt.Fprintf(out, "Would publish %q with %d blocks\n", page.Title, len(page.Children))
		fmt.Fprintln(out, "(dry-run mode - no changes made)")
		return nil
	}

	if missing := cfg.MissingNotion(); len(missing) > 0 {
		return missingError(missing)
	}
	pub := newPublisher(cfg)

	db, err := openHistory(cfg)
	if err != nil {
		logger.Warn("publish history disabled", zap.Error(err))
	} else {
		defer db.Close()
	}

	result, err := pub.Publish(contextOrBackground(cmd), publishTitle, text)

	var partial *notion.PartialUploadError
	switch {
	case errors.Is(err, notion.ErrDuplicateTitle):
		return fmt.Errorf("a page titled %q already exists under the parent page", publishTitle)
	case errors.As(err, &partial):
		recordPublish(db, &state.Publish{
			Title:  publishTitle,
			PageID: partial.PageID,
			URL:    partial.URL,
			Status: state.StatusPartial,
			Blocks: partial.Uploaded,
		})
		return fmt.Errorf("page created but incomplete (%d of %d blocks): %s: %s",
			partial.Uploaded, partial.Total, partial.URL, notion.UserMessage(partial.Err))
	case err != nil:
		return fmt.Errorf("publish: %s", notion.UserMessage(err))
	}

	recordPublish(db, &state.Publish{
		Title:  publishTitle,
		PageID: result.PageID,
		URL:    result.URL,
		Status: state.StatusComplete,
		Blocks: result.Blocks,
	})

	fmt.Fprintf(out, "Published %q (%d blocks)\n", publishTitle, result.Blocks)
	fmt.Fprintln(out, result.URL)
	return nil
}

func recordPublish(db *state.DB, p *state.Publish) {
	if db == nil {
		return
	}
	if err := db.RecordPublish(p); err != nil {
		logger.Warn("record publish failed", zap.Error(err))
	}
}
