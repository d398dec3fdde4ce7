package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamancini/slack-notion-mcp/internal/config"
	"github.com/adamancini/slack-notion-mcp/internal/notion"
	"github.com/adamancini/slack-notion-mcp/internal/slackclient"
	"github.com/adamancini/slack-notion-mcp/internal/state"
	"github.com/adamancini/slack-notion-mcp/internal/transformer"
)

func newTransformer(cfg *config.Config) *transformer.Transformer {
	return transformer.New(&transformer.Config{
		MaxTextLength: cfg.Notion.MaxTextLength,
	})
}

// newSlackClient returns nil when the Slack token is not set.
func newSlackClient(cfg *config.Config) *slackclient.Client {
	if len(cfg.MissingSlack()) > 0 {
		return nil
	}

	opts := []slackclient.ClientOption{slackclient.WithLogger(logger)}
	if cfg.Slack.RateLimit > 0 {
		opts = append(opts, slackclient.WithRateLimit(cfg.Slack.RateLimit))
	}
	return slackclient.New(cfg.Slack.Token, opts...)
}

// newPublisher returns nil when a Notion credential is not set.
func newPublisher(cfg *config.Config) *notion.Publisher {
	if len(cfg.MissingNotion()) > 0 {
		return nil
	}

	var clientOpts []notion.ClientOption
	if cfg.Notion.RateLimit > 0 {
		clientOpts = append(clientOpts, notion.WithRateLimit(cfg.Notion.RateLimit))
	}
	client := notion.New(cfg.Notion.APIKey, clientOpts...)

	return notion.NewPublisher(client, cfg.Notion.ParentPageID,
		notion.WithBatchSize(cfg.Notion.BatchSize),
		notion.WithTransformer(newTransformer(cfg)),
		notion.WithLogger(logger),
	)
}

// openHistory opens the publish history database, creating its directory.
func openHistory(cfg *config.Config) (*state.DB, error) {
	if dir := filepath.Dir(cfg.State.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := state.Open(cfg.State.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return db, nil
}

func missingError(missing []string) error {
	return fmt.Errorf("%s is not set", strings.Join(missing, ", "))
}
