package transformer

// Kind identifies the variant of a Block.
type Kind int

const (
	KindHeading Kind = iota + 1
	KindDivider
	KindBulletItem
	KindNumberedItem
	KindParagraph
	KindCode
	KindTable
)

// String returns the Notion block type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindDivider:
		return "divider"
	case KindBulletItem:
		return "bulleted_list_item"
	case KindNumberedItem:
		return "numbered_list_item"
	case KindParagraph:
		return "paragraph"
	case KindCode:
		return "code"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is one structural unit of the destination page. The concrete types are
// Heading, Divider, BulletItem, NumberedItem, Paragraph, Code and Table.
type Block interface {
	Kind() Kind
}

// Heading is a level 1-3 heading.
type Heading struct {
	Level int
	Text  []Fragment
}

// Divider is a horizontal rule.
type Divider struct{}

// BulletItem is an unordered list item.
type BulletItem struct {
	Text []Fragment
}

// NumberedItem is an ordered list item.
type NumberedItem struct {
	Text []Fragment
}

// Paragraph is a plain text block.
type Paragraph struct {
	Text []Fragment
}

// Code is a fenced code block. Content is kept raw; inline markers inside it
// are never interpreted.
type Code struct {
	Language string
	Content  string
}

// Table is a rectangular grid. Every row has exactly Width cells and every cell
// is a sequence of plain fragments.
type Table struct {
	Width     int
	Rows      [][][]Fragment
	HasHeader bool
}

func (Heading) Kind() Kind      { return KindHeading }
func (Divider) Kind() Kind      { return KindDivider }
func (BulletItem) Kind() Kind   { return KindBulletItem }
func (NumberedItem) Kind() Kind { return KindNumberedItem }
func (Paragraph) Kind() Kind    { return KindParagraph }
func (Code) Kind() Kind         { return KindCode }
func (Table) Kind() Kind        { return KindTable }
