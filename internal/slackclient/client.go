// Package slackclient reads channels, messages and threads from Slack.
package slackclient

import (
	"context"
	"errors"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source client.go -destination mock_api_test.go -package slackclient -mock_names api=mockAPI

const (
	// DefaultRateLimit is the default requests per second.
	DefaultRateLimit = 2

	// DefaultMaxAttempts is the number of tries for a rate limited call.
	DefaultMaxAttempts = 3

	channelPageSize = 200
)

var (
	allChannelTypes    = []string{"public_channel", "private_channel"}
	publicChannelTypes = []string{"public_channel"}
)

// api is the subset of slack.Client used by Client.
type api interface {
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) (channels []slack.Channel, nextCursor string, err error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) (msgs []slack.Message, hasMore bool, nextCursor string, err error)
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
}

// Client wraps the Slack Web API with rate limiting, retries on rate limit
// responses and a user name cache.
type Client struct {
	api         api
	limiter     *rate.Limiter
	maxAttempts int
	logger      *zap.Logger
	users       *userCache
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithMaxAttempts sets how many times a rate limited call is tried.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client authenticated with a bot token.
func New(token string, opts ...ClientOption) *Client {
	return newClient(slack.New(token), opts...)
}

func newClient(a api, opts ...ClientOption) *Client {
	c := &Client{
		api:         a,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
		users:       newUserCache(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// call runs fn after waiting for the limiter. Rate limited calls are retried
// after the delay Slack asks for, up to maxAttempts tries in total.
func (c *Client) call(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if werr := c.limiter.Wait(ctx); werr != nil {
			return werr
		}

		err = fn()

		var rle *slack.RateLimitedError
		if !errors.As(err, &rle) {
			return err
		}

		c.logger.Debug("rate limited",
			zap.Duration("retry_after", rle.RetryAfter),
			zap.Int("attempt", attempt+1),
		)
		if attempt == c.maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rle.RetryAfter):
		}
	}
	return err
}

// ListChannels returns the channels visible to the bot. Without the
// groups:read scope only public channels are listed.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	types := allChannelTypes

	err := c.call(ctx, func() error {
		_, _, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Types: types,
			Limit: 1,
		})
		return err
	})
	if err != nil {
		if errorCode(err) != "missing_scope" {
			return nil, newError("list channels", err)
		}
		c.logger.Info("private channels unavailable, listing public channels only")
		types = publicChannelTypes
	}

	var (
		channels []Channel
		cursor   string
	)
	for {
		var (
			page []slack.Channel
			next string
		)
		err := c.call(ctx, func() error {
			var err error
			page, next, err = c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
				Cursor: cursor,
				Limit:  channelPageSize,
				Types:  types,
			})
			return err
		})
		if err != nil {
			return nil, newError("list channels", err)
		}

		for _, ch := range page {
			channels = append(channels, channelFrom(ch))
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return channels, nil
}

// FetchMessages returns up to limit messages of a channel, newest first. An
// empty oldest fetches from the beginning of the history. limit is passed to
// Slack unchanged.
func (c *Client) FetchMessages(ctx context.Context, channelID string, limit int, oldest string) ([]Message, error) {
	var resp *slack.GetConversationHistoryResponse
	err := c.call(ctx, func() error {
		var err error
		resp, err = c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: channelID,
			Limit:     limit,
			Oldest:    oldest,
		})
		return err
	})
	if err != nil {
		return nil, newError("fetch messages", err)
	}

	return messagesFrom(resp.Messages), nil
}

// FetchThread returns every message of a thread, parent first.
func (c *Client) FetchThread(ctx context.Context, channelID, threadTS string) ([]Message, error) {
	var (
		messages []Message
		cursor   string
	)
	for {
		var (
			page    []slack.Message
			hasMore bool
			next    string
		)
		err := c.call(ctx, func() error {
			var err error
			page, hasMore, next, err = c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
				ChannelID: channelID,
				Timestamp: threadTS,
				Cursor:    cursor,
			})
			return err
		})
		if err != nil {
			return nil, newError("fetch thread", err)
		}

		messages = append(messages, messagesFrom(page)...)

		if !hasMore || next == "" {
			break
		}
		cursor = next
	}

	return messages, nil
}

// ChannelInfo returns the details of a channel.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*ChannelInfo, error) {
	var ch *slack.Channel
	err := c.call(ctx, func() error {
		var err error
		ch, err = c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
			ChannelID:         channelID,
			IncludeNumMembers: true,
		})
		return err
	})
	if err != nil {
		return nil, newError("channel info", err)
	}

	return channelInfoFrom(ch), nil
}
