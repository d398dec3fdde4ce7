package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamancini/slack-notion-mcp/internal/config"
	"github.com/adamancini/slack-notion-mcp/internal/notion"
)

var (
	initPath          string
	initParentPage    string
	initThreadWorkers int
	initForce         bool
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter slack-notion configuration file.

Tokens are not written to the file. The generated config references
${SLACK_BOT_TOKEN} and ${NOTION_API_KEY}; set them in the environment or a
.env file next to the config.

Example:
  slack-notion init --parent-page https://www.notion.so/Team-1234567890abcdef1234567890abcdef`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", ".slack-notion.yaml", "config file to write")
	initCmd.Flags().StringVar(&initParentPage, "parent-page", "", "Notion parent page URL or ID")
	initCmd.Flags().IntVar(&initThreadWorkers, "thread-workers", config.DefaultThreadWorkers, "threads fetched at once by fetch_threads")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", initPath)
	}

	c := config.DefaultConfig()
	c.Slack.Token = "${" + config.EnvSlackToken + "}"
	c.Slack.ThreadWorkers = initThreadWorkers
	c.Notion.APIKey = "${" + config.EnvNotionKey + "}"
	if initParentPage != "" {
		c.Notion.ParentPageID = notion.ExtractPageID(initParentPage)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := c.Save(initPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", initPath)
	if c.Notion.ParentPageID == "" {
		fmt.Fprintf(out, "Set %s or notion.parent_page_id before publishing.\n", config.EnvNotionParent)
	}
	return nil
}
