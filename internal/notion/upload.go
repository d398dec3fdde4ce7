package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

// PageResult describes a fully uploaded page.
type PageResult struct {
	PageID string
	URL    string
	Blocks int
}

// MaxRequestElements is Notion's limit on the number of block elements,
// nested ones included, in one create or append request.
const MaxRequestElements = 1000

// Upload creates a page titled title under parentID and uploads blocks in
// order. The first batch goes into the page creation request; the rest is
// appended in batches of batchSize. A batch also closes early rather than
// exceed MaxRequestElements. A batchSize of zero or less uses
// DefaultBatchSize.
//
// A failed creation returns *UploadError. A failed append returns
// *PartialUploadError; the page and the batches already appended are kept.
func Upload(ctx context.Context, sink Sink, parentID, title string, blocks []notionapi.Block, batchSize int) (*PageResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	first := batchEnd(blocks, 0, batchSize)
	page, err := sink.CreatePage(ctx, parentID, title, blocks[:first])
	if err != nil {
		return nil, &UploadError{Title: title, Err: err}
	}

	for i, end := first, 0; i < len(blocks); i = end {
		end = batchEnd(blocks, i, batchSize)
		if err := sink.AppendChildren(ctx, page.ID, blocks[i:end]); err != nil {
			return nil, &PartialUploadError{
				PageID:   page.ID,
				URL:      page.URL,
				Uploaded: i,
				Total:    len(blocks),
				Err:      err,
			}
		}
	}

	return &PageResult{
		PageID: page.ID,
		URL:    page.URL,
		Blocks: len(blocks),
	}, nil
}

// batchEnd returns the end of the batch starting at start: at most batchSize
// blocks holding at most MaxRequestElements elements, and never empty.
func batchEnd(blocks []notionapi.Block, start, batchSize int) int {
	end, elements := start, 0
	for end < len(blocks) && end-start < batchSize {
		n := blockElements(blocks[end])
		if end > start && elements+n > MaxRequestElements {
			break
		}
		elements += n
		end++
	}
	return end
}

// blockElements counts a block and its nested table rows.
func blockElements(b notionapi.Block) int {
	if table, ok := b.(*notionapi.TableBlock); ok {
		return 1 + len(table.Table.Children)
	}
	return 1
}

// TitleExists reports whether parentID already has a child page titled title.
// Titles are compared exactly. Listing stops at the first match.
func TitleExists(ctx context.Context, sink Sink, parentID, title string) (bool, error) {
	var cursor string
	for {
		list, err := sink.ListChildren(ctx, parentID, cursor)
		if err != nil {
			return false, err
		}

		for _, entry := range list.Entries {
			if entry.Kind == KindChildPage && entry.Title == title {
				return true, nil
			}
		}

		if !list.HasMore || list.NextCursor == "" {
			return false, nil
		}
		cursor = list.NextCursor
	}
}
