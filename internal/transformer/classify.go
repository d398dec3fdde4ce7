package transformer

import (
	"regexp"
	"strings"
)

// parseState is a state of the line classifier.
type parseState int

const (
	stateScanning parseState = iota
	stateInCodeFence
	stateInTable
)

func (s parseState) String() string {
	switch s {
	case stateScanning:
		return "Scanning"
	case stateInCodeFence:
		return "InCodeFence"
	case stateInTable:
		return "InTable"
	default:
		return "unknown"
	}
}

const (
	fenceMarker     = "```"
	defaultLanguage = "plain text"
)

var numberedPattern = regexp.MustCompile(`^\d+\. `)

// transition handles one line in a given state. It returns the next state and
// whether the line was consumed; an unconsumed line is fed again to the next
// state without moving the cursor.
type transition func(c *classifier, line string) (next parseState, consumed bool)

var transitions = [...]transition{
	stateScanning:    (*classifier).scanning,
	stateInCodeFence: (*classifier).inCodeFence,
	stateInTable:     (*classifier).inTable,
}

// classifier turns text into blocks with a single forward cursor over lines.
type classifier struct {
	lines  []string
	cursor int
	state  parseState
	maxLen int

	codeLanguage string
	codeLines    []string
	tableRows    []string

	blocks []Block
}

func newClassifier(text string, maxLen int) *classifier {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &classifier{
		lines:  strings.Split(text, "\n"),
		state:  stateScanning,
		maxLen: maxLen,
	}
}

// run walks every line and closes whatever construct is still open at the end
// of input.
func (c *classifier) run() []Block {
	for c.cursor < len(c.lines) {
		next, consumed := transitions[c.state](c, c.lines[c.cursor])
		c.state = next
		if consumed {
			c.cursor++
		}
	}

	switch c.state {
	case stateInCodeFence:
		c.closeCode()
	case stateInTable:
		c.closeTable()
	}
	c.state = stateScanning

	return c.blocks
}

func (c *classifier) scanning(line string) (parseState, bool) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return stateScanning, true

	case strings.HasPrefix(trimmed, fenceMarker):
		c.codeLanguage = strings.TrimSpace(trimmed[len(fenceMarker):])
		if c.codeLanguage == "" {
			c.codeLanguage = defaultLanguage
		}
		c.codeLines = nil
		return stateInCodeFence, true

	case strings.HasPrefix(trimmed, "|"):
		c.tableRows = []string{trimmed}
		return stateInTable, true

	default:
		c.blocks = append(c.blocks, c.classifyLine(trimmed))
		return stateScanning, true
	}
}

func (c *classifier) inCodeFence(line string) (parseState, bool) {
	if strings.HasPrefix(strings.TrimSpace(line), fenceMarker) {
		c.closeCode()
		return stateScanning, true
	}
	c.codeLines = append(c.codeLines, line)
	return stateInCodeFence, true
}

func (c *classifier) inTable(line string) (parseState, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "|") {
		c.tableRows = append(c.tableRows, trimmed)
		return stateInTable, true
	}
	c.closeTable()
	return stateScanning, false
}

func (c *classifier) closeCode() {
	c.blocks = append(c.blocks, Code{
		Language: c.codeLanguage,
		Content:  strings.Join(c.codeLines, "\n"),
	})
	c.codeLanguage = ""
	c.codeLines = nil
}

func (c *classifier) closeTable() {
	if table, ok := assembleTable(c.tableRows, c.maxLen); ok {
		c.blocks = append(c.blocks, table)
	}
	c.tableRows = nil
}

// classifyLine maps a single non-blank trimmed line to a block.
func (c *classifier) classifyLine(trimmed string) Block {
	switch {
	case strings.HasPrefix(trimmed, "# "):
		return Heading{Level: 1, Text: Segment(trimmed[2:], c.maxLen)}
	case strings.HasPrefix(trimmed, "## "):
		return Heading{Level: 2, Text: Segment(trimmed[3:], c.maxLen)}
	case strings.HasPrefix(trimmed, "### "):
		return Heading{Level: 3, Text: Segment(trimmed[4:], c.maxLen)}
	case trimmed == "---":
		return Divider{}
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return BulletItem{Text: Segment(trimmed[2:], c.maxLen)}
	}

	if loc := numberedPattern.FindStringIndex(trimmed); loc != nil {
		return NumberedItem{Text: Segment(trimmed[loc[1]:], c.maxLen)}
	}

	return Paragraph{Text: Segment(trimmed, c.maxLen)}
}
