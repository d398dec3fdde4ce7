// Package transformer converts free-form markdown-like text into Notion blocks.
//
// Conversion is line oriented and never fails: headings, dividers, list items,
// fenced code and pipe tables are recognized, everything else becomes a
// paragraph, and inline bold, italic, strikethrough, code and links are mapped
// to rich text annotations.
package transformer

import (
	"github.com/jomei/notionapi"
)

// Transformer converts text into blocks.
type Transformer struct {
	config *Config
}

// Config holds transformer configuration options.
type Config struct {
	// MaxTextLength is the maximum number of code points in a single rich text
	// fragment.
	MaxTextLength int
}

// NotionPage is a page ready to be created in Notion.
type NotionPage struct {
	Title    string
	Children []notionapi.Block
}

// New creates a Transformer. A nil config uses DefaultConfig.
func New(cfg *Config) *Transformer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = DefaultMaxTextLength
	}
	return &Transformer{config: cfg}
}

// DefaultConfig returns the default transformer configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxTextLength: DefaultMaxTextLength,
	}
}

// Transform classifies text into blocks in document order.
func (t *Transformer) Transform(text string) []Block {
	return newClassifier(text, t.config.MaxTextLength).run()
}

// Page converts text into a page with the given title.
func (t *Transformer) Page(title, text string) *NotionPage {
	return &NotionPage{
		Title:    title,
		Children: ToNotion(t.Transform(text), t.config.MaxTextLength),
	}
}
