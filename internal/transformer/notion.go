package transformer

import (
	"strings"

	"github.com/jomei/notionapi"
)

// MaxArrayLength is Notion's limit on the length of any array in a request,
// which covers rich text, table rows and table cells.
const MaxArrayLength = 100

// ToNotion serializes blocks into Notion API blocks, preserving order. Blocks
// that would exceed MaxArrayLength are split first (see splitOversized).
func ToNotion(blocks []Block, maxLen int) []notionapi.Block {
	result := make([]notionapi.Block, 0, len(blocks))
	for _, b := range blocks {
		for _, part := range splitOversized(b, maxLen) {
			if nb := toNotionBlock(part, maxLen); nb != nil {
				result = append(result, nb)
			}
		}
	}
	return result
}

// splitOversized breaks b into consecutive blocks whose arrays fit in
// MaxArrayLength. Overflowing text continues in paragraphs, overflowing code in
// code blocks of the same language, and long tables repeat their header row.
func splitOversized(b Block, maxLen int) []Block {
	switch block := b.(type) {
	case Heading:
		chunks := chunkFragments(block.Text)
		return continueAsParagraphs(Heading{Level: block.Level, Text: chunks[0]}, chunks[1:])
	case BulletItem:
		chunks := chunkFragments(block.Text)
		return continueAsParagraphs(BulletItem{Text: chunks[0]}, chunks[1:])
	case NumberedItem:
		chunks := chunkFragments(block.Text)
		return continueAsParagraphs(NumberedItem{Text: chunks[0]}, chunks[1:])
	case Paragraph:
		chunks := chunkFragments(block.Text)
		return continueAsParagraphs(Paragraph{Text: chunks[0]}, chunks[1:])
	case Code:
		return splitCode(block, maxLen)
	case Table:
		return splitTable(block)
	default:
		return []Block{b}
	}
}

// chunkFragments cuts text into runs of at most MaxArrayLength fragments. It
// always returns at least one run.
func chunkFragments(text []Fragment) [][]Fragment {
	if len(text) <= MaxArrayLength {
		return [][]Fragment{text}
	}
	chunks := make([][]Fragment, 0, (len(text)+MaxArrayLength-1)/MaxArrayLength)
	for i := 0; i < len(text); i += MaxArrayLength {
		chunks = append(chunks, text[i:min(i+MaxArrayLength, len(text))])
	}
	return chunks
}

func continueAsParagraphs(first Block, rest [][]Fragment) []Block {
	out := make([]Block, 0, 1+len(rest))
	out = append(out, first)
	for _, text := range rest {
		out = append(out, Paragraph{Text: text})
	}
	return out
}

// splitCode cuts code whose content needs more than MaxArrayLength fragments.
func splitCode(c Code, maxLen int) []Block {
	if maxLen <= 0 {
		maxLen = DefaultMaxTextLength
	}
	limit := maxLen * MaxArrayLength

	runes := []rune(c.Content)
	if len(runes) <= limit {
		return []Block{c}
	}
	out := make([]Block, 0, (len(runes)+limit-1)/limit)
	for i := 0; i < len(runes); i += limit {
		out = append(out, Code{
			Language: c.Language,
			Content:  string(runes[i:min(i+limit, len(runes))]),
		})
	}
	return out
}

// splitTable cuts a table into tables of at most MaxArrayLength rows. Each part
// starts with the header row when the table has one.
func splitTable(t Table) []Block {
	if len(t.Rows) <= MaxArrayLength {
		return []Block{t}
	}

	rows := t.Rows
	step := MaxArrayLength
	var header [][]Fragment
	if t.HasHeader {
		header, rows = rows[0], rows[1:]
		step--
	}

	out := make([]Block, 0, (len(rows)+step-1)/step)
	for i := 0; i < len(rows); i += step {
		part := Table{Width: t.Width, HasHeader: t.HasHeader}
		if header != nil {
			part.Rows = append(part.Rows, header)
		}
		part.Rows = append(part.Rows, rows[i:min(i+step, len(rows))]...)
		out = append(out, part)
	}
	return out
}

func toNotionBlock(b Block, maxLen int) notionapi.Block {
	switch block := b.(type) {
	case Heading:
		return heading(block)
	case Divider:
		return &notionapi.DividerBlock{
			BasicBlock: basic(notionapi.BlockTypeDivider),
		}
	case BulletItem:
		return &notionapi.BulletedListItemBlock{
			BasicBlock:       basic(notionapi.BlockTypeBulletedListItem),
			BulletedListItem: notionapi.ListItem{RichText: richText(block.Text)},
		}
	case NumberedItem:
		return &notionapi.NumberedListItemBlock{
			BasicBlock:       basic(notionapi.BlockTypeNumberedListItem),
			NumberedListItem: notionapi.ListItem{RichText: richText(block.Text)},
		}
	case Paragraph:
		return &notionapi.ParagraphBlock{
			BasicBlock: basic(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: richText(block.Text)},
		}
	case Code:
		return &notionapi.CodeBlock{
			BasicBlock: basic(notionapi.BlockTypeCode),
			Code: notionapi.Code{
				Language: NotionLanguage(block.Language),
				RichText: richText(plainFragments(block.Content, maxLen)),
			},
		}
	case Table:
		return table(block)
	default:
		return nil
	}
}

func basic(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   t,
	}
}

// heading picks the Notion heading type; levels outside 1..3 are clamped.
func heading(h Heading) notionapi.Block {
	text := notionapi.Heading{RichText: richText(h.Text)}

	switch {
	case h.Level <= 1:
		return &notionapi.Heading1Block{
			BasicBlock: basic(notionapi.BlockTypeHeading1),
			Heading1:   text,
		}
	case h.Level == 2:
		return &notionapi.Heading2Block{
			BasicBlock: basic(notionapi.BlockTypeHeading2),
			Heading2:   text,
		}
	default:
		return &notionapi.Heading3Block{
			BasicBlock: basic(notionapi.BlockTypeHeading3),
			Heading3:   text,
		}
	}
}

func table(t Table) notionapi.Block {
	rows := make([]notionapi.Block, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([][]notionapi.RichText, len(row))
		for i, cell := range row {
			// A cell cannot be split; text past the array limit is dropped.
			cells[i] = richText(cell[:min(len(cell), MaxArrayLength)])
		}
		rows = append(rows, &notionapi.TableRowBlock{
			BasicBlock: basic("table_row"),
			TableRow:   notionapi.TableRow{Cells: cells},
		})
	}

	return &notionapi.TableBlock{
		BasicBlock: basic("table"),
		Table: notionapi.Table{
			TableWidth:      t.Width,
			HasColumnHeader: t.HasHeader,
			HasRowHeader:    false,
			Children:        rows,
		},
	}
}

// richText converts fragments into Notion rich text objects.
func richText(fragments []Fragment) []notionapi.RichText {
	result := make([]notionapi.RichText, 0, len(fragments))
	for _, f := range fragments {
		text := &notionapi.Text{Content: f.Content}
		if f.Link != "" {
			text.Link = &notionapi.Link{Url: f.Link}
		}
		result = append(result, notionapi.RichText{
			Type: notionapi.ObjectTypeText,
			Text: text,
			Annotations: &notionapi.Annotations{
				Bold:          f.Style.Bold,
				Italic:        f.Style.Italic,
				Strikethrough: f.Style.Strikethrough,
				Code:          f.Style.Code,
				Color:         notionapi.ColorDefault,
			},
		})
	}
	return result
}

// notionLanguages are the code block languages the Notion API accepts.
var notionLanguages = map[string]bool{
	"abap": true, "arduino": true, "bash": true, "basic": true, "c": true,
	"clojure": true, "coffeescript": true, "c++": true, "c#": true, "css": true,
	"dart": true, "diff": true, "docker": true, "elixir": true, "elm": true,
	"erlang": true, "flow": true, "fortran": true, "f#": true, "gherkin": true,
	"glsl": true, "go": true, "graphql": true, "groovy": true, "haskell": true,
	"html": true, "java": true, "javascript": true, "json": true, "julia": true,
	"kotlin": true, "latex": true, "less": true, "lisp": true, "livescript": true,
	"lua": true, "makefile": true, "markdown": true, "markup": true, "matlab": true,
	"mermaid": true, "nix": true, "objective-c": true, "ocaml": true, "pascal": true,
	"perl": true, "php": true, "plain text": true, "powershell": true, "prolog": true,
	"protobuf": true, "python": true, "r": true, "reason": true, "ruby": true,
	"rust": true, "sass": true, "scala": true, "scheme": true, "scss": true,
	"shell": true, "sql": true, "swift": true, "typescript": true, "vb.net": true,
	"verilog": true, "vhdl": true, "visual basic": true, "webassembly": true,
	"xml": true, "yaml": true,
}

// languageAliases maps common fence tags to Notion language names.
var languageAliases = map[string]string{
	"py":         "python",
	"js":         "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"sh":         "shell",
	"zsh":        "shell",
	"console":    "shell",
	"yml":        "yaml",
	"golang":     "go",
	"rb":         "ruby",
	"rs":         "rust",
	"cpp":        "c++",
	"cs":         "c#",
	"csharp":     "c#",
	"kt":         "kotlin",
	"md":         "markdown",
	"dockerfile": "docker",
	"ps1":        "powershell",
	"proto":      "protobuf",
	"objc":       "objective-c",
	"text":       "plain text",
	"txt":        "plain text",
	"plaintext":  "plain text",
}

// NotionLanguage maps a fence language tag to a language Notion accepts.
// Unknown languages become "plain text".
func NotionLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	if notionLanguages[lang] {
		return lang
	}
	return defaultLanguage
}
