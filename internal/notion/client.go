// Package notion publishes converted pages to Notion: a rate-limited API
// client, the batch uploader and the duplicate-title check.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default requests per second (Notion's limit is 3/sec).
	DefaultRateLimit = 3

	// DefaultBatchSize is the max blocks per create or append request.
	DefaultBatchSize = 100

	// listPageSize is the page size used when listing block children.
	listPageSize = 100

	// sdkAttempts makes the SDK return its first 429 instead of sleeping and
	// resending.
	sdkAttempts = 1
)

// Client wraps the Notion API client with rate limiting. It implements Sink.
type Client struct {
	pages      notionapi.PageService
	blocks     notionapi.BlockService
	limiter    *rate.Limiter
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new Notion API client with rate limiting. Failed requests,
// including 429 responses, are returned without retrying.
func New(token string, opts ...ClientOption) *Client {
	c := newClient(nil, nil, opts...)
	api := notionapi.NewClient(notionapi.Token(token),
		notionapi.WithRetry(sdkAttempts),
		notionapi.WithHTTPClient(c.httpClient),
	)
	c.pages, c.blocks = api.Page, api.Block
	return c
}

func newClient(pages notionapi.PageService, blocks notionapi.BlockService, opts ...ClientOption) *Client {
	c := &Client{
		pages:      pages,
		blocks:     blocks,
		limiter:    rate.NewLimiter(rate.Every(time.Second/DefaultRateLimit), 1),
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// CreatePage creates a titled child page under parentID with the given
// children as its initial content.
func (c *Client) CreatePage(ctx context.Context, parentID, title string, children []notionapi.Block) (*PageRef, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	created, err := c.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(parentID),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: []notionapi.RichText{
					{
						Type: notionapi.ObjectTypeText,
						Text: &notionapi.Text{Content: title},
					},
				},
			},
		},
		Children: children,
	})
	if err != nil {
		return nil, newTransportError("create page", err)
	}

	return &PageRef{ID: string(created.ID), URL: created.URL}, nil
}

// AppendChildren appends blocks to the end of a page or block.
func (c *Client) AppendChildren(ctx context.Context, blockID string, children []notionapi.Block) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	_, err := c.blocks.AppendChildren(ctx, notionapi.BlockID(blockID), &notionapi.AppendBlockChildrenRequest{
		Children: children,
	})
	if err != nil {
		return newTransportError("append children", err)
	}

	return nil
}

// ListChildren returns one page of the direct children of a block.
func (c *Client) ListChildren(ctx context.Context, blockID, cursor string) (*ChildList, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.blocks.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    listPageSize,
	})
	if err != nil {
		return nil, newTransportError("list children", err)
	}

	list := &ChildList{
		Entries:    make([]ChildEntry, 0, len(resp.Results)),
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}
	for _, block := range resp.Results {
		entry := ChildEntry{Kind: string(block.GetType())}
		if page, ok := block.(*notionapi.ChildPageBlock); ok {
			entry.Title = page.ChildPage.Title
		}
		list.Entries = append(list.Entries, entry)
	}

	return list, nil
}
