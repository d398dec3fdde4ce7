package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

// KindChildPage is the block type of a sub-page.
const KindChildPage = "child_page"

// Sink is the document store the uploader and the duplicate check talk to.
type Sink interface {
	CreatePage(ctx context.Context, parentID, title string, children []notionapi.Block) (*PageRef, error)
	AppendChildren(ctx context.Context, blockID string, children []notionapi.Block) error
	ListChildren(ctx context.Context, blockID, cursor string) (*ChildList, error)
}

// PageRef identifies a created page.
type PageRef struct {
	ID  string
	URL string
}

// ChildList is one page of a block's children.
type ChildList struct {
	Entries    []ChildEntry
	HasMore    bool
	NextCursor string
}

// ChildEntry is a child block. Title is set for child pages only.
type ChildEntry struct {
	Kind  string
	Title string
}
