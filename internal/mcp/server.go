// Package mcp exposes Slack reading and Notion publishing as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/adamancini/slack-notion-mcp/internal/notion"
	"github.com/adamancini/slack-notion-mcp/internal/slackclient"
	"github.com/adamancini/slack-notion-mcp/internal/state"
	"github.com/adamancini/slack-notion-mcp/internal/workers"
)

const (
	serverName = "slack-to-notion"

	defaultMessageLimit = 100
	maxMessageLimit     = 1000
	defaultHistoryLimit = 10
)

// Version is reported to MCP clients.
var Version = "dev"

// SlackReader reads channels, messages and threads.
type SlackReader interface {
	ListChannels(ctx context.Context) ([]slackclient.Channel, error)
	FetchMessages(ctx context.Context, channelID string, limit int, oldest string) ([]slackclient.Message, error)
	FetchThread(ctx context.Context, channelID, threadTS string) ([]slackclient.Message, error)
	ChannelInfo(ctx context.Context, channelID string) (*slackclient.ChannelInfo, error)
	ResolveUserNames(ctx context.Context, messages []slackclient.Message) []slackclient.Message
}

// PagePublisher creates Notion pages from text.
type PagePublisher interface {
	Publish(ctx context.Context, title, content string) (*notion.PageResult, error)
}

// HistoryStore records publishes.
type HistoryStore interface {
	RecordPublish(p *state.Publish) error
	ListHistory(limit int) ([]*state.Publish, error)
}

// PreferenceStore keeps summarization preferences.
type PreferenceStore interface {
	Append(text string) error
	Load() (string, error)
}

// Server wraps an MCP server and the clients its tools call.
type Server struct {
	mcp *mcpsrv.MCPServer

	slack     SlackReader
	publisher PagePublisher
	history   HistoryStore
	prefs     PreferenceStore
	pool      *workers.Pool

	missingSlack  []string
	missingNotion []string

	logger *zap.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSlack sets the Slack client used by the fetch tools.
func WithSlack(r SlackReader) Option {
	return func(s *Server) {
		s.slack = r
	}
}

// WithPublisher sets the Notion publisher used by create_notion_page.
func WithPublisher(p PagePublisher) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithHistory sets the publish history store.
func WithHistory(h HistoryStore) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithPreferences sets the preference store.
func WithPreferences(p PreferenceStore) Option {
	return func(s *Server) {
		s.prefs = p
	}
}

// WithThreadWorkers sets how many threads fetch_threads fetches at once.
func WithThreadWorkers(n int) Option {
	return func(s *Server) {
		s.pool = workers.NewPool(n)
	}
}

// WithMissingCredentials names the unset environment variables, reported by
// the tools that need them.
func WithMissingCredentials(slack, notion []string) Option {
	return func(s *Server) {
		s.missingSlack = slack
		s.missingNotion = notion
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server with all tools registered. It does not listen until
// one of the Serve methods is called.
func New(opts ...Option) *Server {
	s := &Server{
		pool:   workers.NewPool(1),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcpsrv.NewMCPServer(
		serverName,
		Version,
		mcpsrv.WithInstructions(instructions),
	)
	for _, t := range s.tools() {
		s.mcp.AddTool(t.Tool, t.Handler)
	}

	return s
}

const instructions = `You are connected to the slack-to-notion MCP server.

Typical flow:
1. list_channels to find the channel, then fetch_messages or fetch_threads.
2. get_analysis_guide and get_preferences, then ask the user how to summarize.
3. Write the summary in markdown and publish it with create_notion_page.
4. save_preference when the user states a lasting preference.

Markdown headings, lists, dividers, fenced code, pipe tables and inline bold,
italic, strikethrough, code and links are converted to Notion blocks.`

func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolListChannels(),
		s.toolFetchMessages(),
		s.toolFetchThread(),
		s.toolFetchThreads(),
		s.toolFetchChannelInfo(),
		s.toolCreateNotionPage(),
		s.toolGetAnalysisGuide(),
		s.toolSavePreference(),
		s.toolGetPreferences(),
		s.toolListHistory(),
	}
}

// ServeStdio runs the server over stdin/stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.Info("mcp server listening on stdio")
	if err := srv.Listen(ctx, in, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

// ServeHTTP runs the server as a Streamable HTTP server on addr until ctx is
// cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr}
	streamSrv := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithStreamableHTTPServer(httpSrv),
	)

	s.logger.Info("mcp server listening on http", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := streamSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("mcp server shutting down")
		if err := streamSrv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("mcp http server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) slackUnavailable() error {
	return notConfigured("Slack", s.missingSlack)
}

func (s *Server) notionUnavailable() error {
	return notConfigured("Notion", s.missingNotion)
}

func notConfigured(service string, missing []string) error {
	if len(missing) == 0 {
		return fmt.Errorf("%s is not configured", service)
	}
	return fmt.Errorf("%s is not set. Add it to the environment or .env file", strings.Join(missing, ", "))
}

func resultText(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}

func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

func resultJSON(v any) (*mcplib.CallToolResult, error) {
	return mcplib.NewToolResultJSON(v)
}

// stringArg returns a named string argument, or ("", false) when absent or
// not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name].(string)
	return v, ok
}

// intArg returns a named number argument. JSON numbers arrive as float64.
func intArg(req mcplib.CallToolRequest, name string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	switch n := args[name].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return defaultVal
}

// stringsArg returns a named string array argument. A single string is split
// on commas.
func stringsArg(req mcplib.CallToolRequest, name string) []string {
	args := req.GetArguments()
	if args == nil {
		return nil
	}

	var raw []string
	switch v := args[name].(type) {
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok {
				raw = append(raw, str)
			}
		}
	case []string:
		raw = v
	case string:
		raw = strings.Split(v, ",")
	}

	var out []string
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
