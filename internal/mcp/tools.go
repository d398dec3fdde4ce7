package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/adamancini/slack-notion-mcp/internal/digest"
	"github.com/adamancini/slack-notion-mcp/internal/notion"
	"github.com/adamancini/slack-notion-mcp/internal/slackclient"
	"github.com/adamancini/slack-notion-mcp/internal/state"
	"github.com/adamancini/slack-notion-mcp/internal/workers"
)

func slackFailure(op string, err error) *mcplib.CallToolResult {
	return resultErr(fmt.Errorf("%s failed: %s", op, slackclient.UserMessage(err)))
}

// list_channels

func (s *Server) toolListChannels() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_channels",
		mcplib.WithDescription("List the Slack channels the bot can see. Returns id, name, topic and member count for each channel."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListChannels}
}

func (s *Server) handleListChannels(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.slack == nil {
		return resultErr(s.slackUnavailable()), nil
	}

	channels, err := s.slack.ListChannels(ctx)
	if err != nil {
		return slackFailure("list channels", err), nil
	}
	if channels == nil {
		channels = []slackclient.Channel{}
	}

	result, err := resultJSON(channels)
	if err != nil {
		return resultErr(fmt.Errorf("list_channels: serialise: %w", err)), nil
	}
	return result, nil
}

// fetch_messages

func (s *Server) toolFetchMessages() mcpsrv.ServerTool {
	tool := mcplib.NewTool("fetch_messages",
		mcplib.WithDescription(`Fetch recent messages from a channel, formatted for summarization.

Each line reads "user (M/D HH:MM) — text". Messages with replies are marked
with their reply count; use fetch_thread or fetch_threads to read them.`),
		mcplib.WithString("channel_id",
			mcplib.Description("Slack channel ID (e.g. C01234ABCD)"),
			mcplib.Required(),
		),
		mcplib.WithNumber("limit",
			mcplib.Description(fmt.Sprintf("Number of messages to fetch (1-%d, default %d)", maxMessageLimit, defaultMessageLimit)),
			mcplib.DefaultNumber(defaultMessageLimit),
		),
		mcplib.WithString("oldest",
			mcplib.Description("Only messages after this Slack timestamp (e.g. 1739612400.000000)"),
		),
		mcplib.WithString("channel_name",
			mcplib.Description("Channel name shown in the header; defaults to the channel ID"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleFetchMessages}
}

func (s *Server) handleFetchMessages(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.slack == nil {
		return resultErr(s.slackUnavailable()), nil
	}

	channelID, ok := stringArg(req, "channel_id")
	if !ok || channelID == "" {
		return resultErr(errors.New("fetch_messages: channel_id is required")), nil
	}
	limit := clampLimit(intArg(req, "limit", defaultMessageLimit))
	oldest, _ := stringArg(req, "oldest")
	channelName, _ := stringArg(req, "channel_name")
	if channelName == "" {
		channelName = channelID
	}

	messages, err := s.slack.FetchMessages(ctx, channelID, limit, oldest)
	if err != nil {
		return slackFailure("fetch messages", err), nil
	}
	messages = s.slack.ResolveUserNames(ctx, messages)

	s.logger.Debug("fetched messages",
		zap.String("channel", channelID),
		zap.Int("limit", limit),
		zap.Int("count", len(messages)),
	)
	return resultText(digest.FormatMessages(messages, channelName)), nil
}

func clampLimit(n int) int {
	return max(1, min(n, maxMessageLimit))
}

// fetch_thread

func (s *Server) toolFetchThread() mcpsrv.ServerTool {
	tool := mcplib.NewTool("fetch_thread",
		mcplib.WithDescription("Fetch all messages of one thread, parent first, as JSON with resolved user names."),
		mcplib.WithString("channel_id",
			mcplib.Description("Slack channel ID"),
			mcplib.Required(),
		),
		mcplib.WithString("thread_ts",
			mcplib.Description("Timestamp of the thread's parent message"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleFetchThread}
}

func (s *Server) handleFetchThread(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.slack == nil {
		return resultErr(s.slackUnavailable()), nil
	}

	channelID, _ := stringArg(req, "channel_id")
	threadTS, _ := stringArg(req, "thread_ts")
	if channelID == "" || threadTS == "" {
		return resultErr(errors.New("fetch_thread: channel_id and thread_ts are required")), nil
	}

	messages, err := s.slack.FetchThread(ctx, channelID, threadTS)
	if err != nil {
		return slackFailure("fetch thread", err), nil
	}
	messages = s.slack.ResolveUserNames(ctx, messages)
	if messages == nil {
		messages = []slackclient.Message{}
	}

	result, err := resultJSON(messages)
	if err != nil {
		return resultErr(fmt.Errorf("fetch_thread: serialise: %w", err)), nil
	}
	return result, nil
}

// fetch_threads

func (s *Server) toolFetchThreads() mcpsrv.ServerTool {
	tool := mcplib.NewTool("fetch_threads",
		mcplib.WithDescription(`Fetch several threads of one channel, formatted for summarization.

A thread that cannot be fetched is listed with the reason; the others are
still returned.`),
		mcplib.WithString("channel_id",
			mcplib.Description("Slack channel ID"),
			mcplib.Required(),
		),
		mcplib.WithArray("thread_ts",
			mcplib.Description("Timestamps of the threads' parent messages"),
			mcplib.WithStringItems(),
			mcplib.Required(),
		),
		mcplib.WithString("channel_name",
			mcplib.Description("Channel name shown in the header; defaults to the channel ID"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleFetchThreads}
}

func (s *Server) handleFetchThreads(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.slack == nil {
		return resultErr(s.slackUnavailable()), nil
	}

	channelID, _ := stringArg(req, "channel_id")
	if channelID == "" {
		return resultErr(errors.New("fetch_threads: channel_id is required")), nil
	}
	timestamps := stringsArg(req, "thread_ts")
	if len(timestamps) == 0 {
		return resultErr(errors.New("fetch_threads: thread_ts must list at least one thread")), nil
	}
	channelName, _ := stringArg(req, "channel_name")
	if channelName == "" {
		channelName = channelID
	}

	tasks := workers.Process(ctx, s.pool, timestamps, func(ctx context.Context, ts string) ([]slackclient.Message, error) {
		msgs, err := s.slack.FetchThread(ctx, channelID, ts)
		if err != nil {
			return nil, err
		}
		return s.slack.ResolveUserNames(ctx, msgs), nil
	})

	threads := make([]digest.Thread, len(tasks))
	for i, t := range tasks {
		threads[i] = digest.Thread{TS: t.Input, Messages: t.Result, Err: t.Err}
		if t.Err != nil {
			s.logger.Warn("thread fetch failed",
				zap.String("channel", channelID),
				zap.String("thread_ts", t.Input),
				zap.Error(t.Err),
			)
		}
	}

	if errs := workers.Errors(tasks); len(errs) == len(tasks) {
		return slackFailure("fetch threads", errs[0]), nil
	}
	return resultText(digest.FormatThreads(threads, channelName)), nil
}

// fetch_channel_info

func (s *Server) toolFetchChannelInfo() mcpsrv.ServerTool {
	tool := mcplib.NewTool("fetch_channel_info",
		mcplib.WithDescription("Get details of one channel: name, topic, purpose, member count, visibility."),
		mcplib.WithString("channel_id",
			mcplib.Description("Slack channel ID"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleFetchChannelInfo}
}

func (s *Server) handleFetchChannelInfo(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.slack == nil {
		return resultErr(s.slackUnavailable()), nil
	}

	channelID, _ := stringArg(req, "channel_id")
	if channelID == "" {
		return resultErr(errors.New("fetch_channel_info: channel_id is required")), nil
	}

	info, err := s.slack.ChannelInfo(ctx, channelID)
	if err != nil {
		return slackFailure("fetch channel info", err), nil
	}

	result, err := resultJSON(info)
	if err != nil {
		return resultErr(fmt.Errorf("fetch_channel_info: serialise: %w", err)), nil
	}
	return result, nil
}

// create_notion_page

func (s *Server) toolCreateNotionPage() mcpsrv.ServerTool {
	tool := mcplib.NewTool("create_notion_page",
		mcplib.WithDescription(`Create a Notion page under the configured parent page.

The content is markdown. Headings (#, ##, ###), bullet and numbered lists,
dividers (---), fenced code blocks, pipe tables and inline **bold**, *italic*,
~~strikethrough~~, `+"`code`"+` and [links](url) are converted. Titles must be
unique under the parent page.`),
		mcplib.WithString("title",
			mcplib.Description("Page title"),
			mcplib.Required(),
		),
		mcplib.WithString("content",
			mcplib.Description("Page body in markdown"),
			mcplib.Required(),
		),
		mcplib.WithDestructiveHintAnnotation(false),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleCreateNotionPage}
}

func (s *Server) handleCreateNotionPage(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.publisher == nil {
		return resultErr(s.notionUnavailable()), nil
	}

	title, _ := stringArg(req, "title")
	title = strings.TrimSpace(title)
	if title == "" {
		return resultErr(errors.New("create_notion_page: title is required")), nil
	}
	content, ok := stringArg(req, "content")
	if !ok {
		return resultErr(errors.New("create_notion_page: content is required")), nil
	}

	page, err := s.publisher.Publish(ctx, title, content)

	var partial *notion.PartialUploadError
	switch {
	case errors.Is(err, notion.ErrDuplicateTitle):
		return resultErr(fmt.Errorf("a page titled %q already exists under the parent page. Choose a different title", title)), nil
	case errors.As(err, &partial):
		s.record(&state.Publish{
			Title:  title,
			PageID: partial.PageID,
			URL:    partial.URL,
			Status: state.StatusPartial,
			Blocks: partial.Uploaded,
		})
		return resultErr(fmt.Errorf("page created but incomplete: %d of %d blocks uploaded (%s). %s",
			partial.Uploaded, partial.Total, partial.URL, notion.UserMessage(partial.Err))), nil
	case err != nil:
		return resultErr(fmt.Errorf("create page failed: %s", notion.UserMessage(err))), nil
	}

	s.record(&state.Publish{
		Title:  title,
		PageID: page.PageID,
		URL:    page.URL,
		Status: state.StatusComplete,
		Blocks: page.Blocks,
	})
	return resultText(fmt.Sprintf("Notion page created: %s\nTitle: %s\nBlocks: %d", page.URL, title, page.Blocks)), nil
}

// record stores a publish. A history failure does not fail the tool call.
func (s *Server) record(p *state.Publish) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordPublish(p); err != nil {
		s.logger.Warn("record publish failed", zap.String("title", p.Title), zap.Error(err))
	}
}

// get_analysis_guide

func (s *Server) toolGetAnalysisGuide() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_analysis_guide",
		mcplib.WithDescription("Get guidance for asking the user how the collected messages should be summarized."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetAnalysisGuide}
}

func (s *Server) handleGetAnalysisGuide(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return resultText(digest.AnalysisGuide()), nil
}

// save_preference

func (s *Server) toolSavePreference() mcpsrv.ServerTool {
	tool := mcplib.NewTool("save_preference",
		mcplib.WithDescription("Save a summarization preference the user wants applied in future sessions."),
		mcplib.WithString("text",
			mcplib.Description("The preference, in the user's words"),
			mcplib.Required(),
		),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSavePreference}
}

func (s *Server) handleSavePreference(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.prefs == nil {
		return resultErr(errors.New("preferences are not configured")), nil
	}

	text, _ := stringArg(req, "text")
	if strings.TrimSpace(text) == "" {
		return resultErr(errors.New("save_preference: text is required")), nil
	}

	if err := s.prefs.Append(text); err != nil {
		return resultErr(fmt.Errorf("save preference: %w", err)), nil
	}
	return resultText("Preference saved."), nil
}

// get_preferences

func (s *Server) toolGetPreferences() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_preferences",
		mcplib.WithDescription("Get the saved summarization preferences."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetPreferences}
}

func (s *Server) handleGetPreferences(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.prefs == nil {
		return resultErr(errors.New("preferences are not configured")), nil
	}

	content, err := s.prefs.Load()
	if err != nil {
		return resultErr(fmt.Errorf("load preferences: %w", err)), nil
	}
	if content == "" {
		return resultText("No saved preferences."), nil
	}
	return resultText(content), nil
}

// list_history

func (s *Server) toolListHistory() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_history",
		mcplib.WithDescription("List recently published Notion pages, newest first."),
		mcplib.WithNumber("limit",
			mcplib.Description(fmt.Sprintf("Maximum number of entries (default %d)", defaultHistoryLimit)),
			mcplib.DefaultNumber(defaultHistoryLimit),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListHistory}
}

func (s *Server) handleListHistory(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.history == nil {
		return resultErr(errors.New("publish history is not configured")), nil
	}

	limit := intArg(req, "limit", defaultHistoryLimit)
	if limit < 1 {
		limit = defaultHistoryLimit
	}

	history, err := s.history.ListHistory(limit)
	if err != nil {
		return resultErr(fmt.Errorf("list history: %w", err)), nil
	}
	if history == nil {
		history = []*state.Publish{}
	}

	result, err := resultJSON(history)
	if err != nil {
		return resultErr(fmt.Errorf("list_history: serialise: %w", err)), nil
	}
	return result, nil
}
