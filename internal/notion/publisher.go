package notion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/adamancini/slack-notion-mcp/internal/transformer"
)

// Publisher converts text and publishes it as a child page of a parent page.
type Publisher struct {
	sink        Sink
	transformer *transformer.Transformer
	parentID    string
	batchSize   int
	logger      *zap.Logger
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithBatchSize sets the number of blocks per create or append request.
func WithBatchSize(size int) PublisherOption {
	return func(p *Publisher) {
		p.batchSize = size
	}
}

// WithTransformer sets the text converter.
func WithTransformer(t *transformer.Transformer) PublisherOption {
	return func(p *Publisher) {
		p.transformer = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher creates a Publisher writing under parentID, which may be any
// form ExtractPageID accepts.
func NewPublisher(sink Sink, parentID string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:        sink,
		transformer: transformer.New(nil),
		parentID:    ExtractPageID(parentID),
		batchSize:   DefaultBatchSize,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParentID returns the normalized parent page ID.
func (p *Publisher) ParentID() string {
	return p.parentID
}

// Publish refuses titles that already exist under the parent, then converts
// content and uploads it as a new page.
func (p *Publisher) Publish(ctx context.Context, title, content string) (*PageResult, error) {
	exists, err := TitleExists(ctx, p.sink, p.parentID, title)
	if err != nil {
		return nil, fmt.Errorf("check duplicate title: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}

	page := p.transformer.Page(title, content)
	p.logger.Debug("uploading page",
		zap.String("title", title),
		zap.String("parent", p.parentID),
		zap.Int("blocks", len(page.Children)),
	)

	result, err := Upload(ctx, p.sink, p.parentID, page.Title, page.Children, p.batchSize)
	if err != nil {
		p.logger.Warn("page upload failed", zap.String("title", title), zap.Error(err))
		return nil, err
	}

	p.logger.Info("page published",
		zap.String("title", title),
		zap.String("page_id", result.PageID),
		zap.Int("blocks", result.Blocks),
	)
	return result, nil
}
