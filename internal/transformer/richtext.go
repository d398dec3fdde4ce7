package transformer

import (
	"regexp"
)

// DefaultMaxTextLength is Notion's limit on the content of one rich text object,
// counted in code points.
const DefaultMaxTextLength = 2000

// Style holds the inline annotations of a fragment.
type Style struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
}

// Fragment is one styled run of inline text.
type Fragment struct {
	Content string
	Style   Style
	// Link is the target URL, empty when the fragment is not a link.
	Link string
}

// inlinePattern matches the supported inline forms. Alternation order is the
// priority order: link, bold, italic, strikethrough, inline code.
var inlinePattern = regexp.MustCompile(
	`\[([^\]]+)\]\(([^)]+)\)` + // 1 label, 2 url
		`|\*\*(.+?)\*\*` + // 3 bold
		`|\*(.+?)\*` + // 4 italic
		`|~~(.+?)~~` + // 5 strikethrough
		"|`(.+?)`", // 6 code
)

// Segment converts a run of text into styled fragments. Every fragment holds at
// most maxLen code points; longer runs are split and each piece keeps the style
// and link. Empty text yields a single fragment holding one space.
func Segment(text string, maxLen int) []Fragment {
	if text == "" {
		return []Fragment{{Content: " "}}
	}

	var parsed []Fragment
	last := 0
	for _, m := range inlinePattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			parsed = append(parsed, Fragment{Content: text[last:m[0]]})
		}
		parsed = append(parsed, matchFragment(text, m))
		last = m[1]
	}
	if last < len(text) {
		parsed = append(parsed, Fragment{Content: text[last:]})
	}

	var result []Fragment
	for _, f := range parsed {
		result = append(result, splitFragment(f, maxLen)...)
	}
	return result
}

// matchFragment builds the fragment for one inlinePattern match.
func matchFragment(text string, m []int) Fragment {
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return text[m[2*i]:m[2*i+1]], true
	}

	if label, ok := group(1); ok {
		url, _ := group(2)
		return Fragment{Content: label, Link: url}
	}
	if s, ok := group(3); ok {
		return Fragment{Content: s, Style: Style{Bold: true}}
	}
	if s, ok := group(4); ok {
		return Fragment{Content: s, Style: Style{Italic: true}}
	}
	if s, ok := group(5); ok {
		return Fragment{Content: s, Style: Style{Strikethrough: true}}
	}
	s, _ := group(6)
	return Fragment{Content: s, Style: Style{Code: true}}
}

// splitFragment cuts f into pieces of at most maxLen code points.
func splitFragment(f Fragment, maxLen int) []Fragment {
	if maxLen <= 0 {
		maxLen = DefaultMaxTextLength
	}

	runes := []rune(f.Content)
	if len(runes) <= maxLen {
		return []Fragment{f}
	}

	pieces := make([]Fragment, 0, (len(runes)+maxLen-1)/maxLen)
	for i := 0; i < len(runes); i += maxLen {
		end := min(i+maxLen, len(runes))
		piece := f
		piece.Content = string(runes[i:end])
		pieces = append(pieces, piece)
	}
	return pieces
}

// plainFragments length-splits text without interpreting inline markers.
// Empty text yields the single-space placeholder, like Segment.
func plainFragments(text string, maxLen int) []Fragment {
	if text == "" {
		return []Fragment{{Content: " "}}
	}
	return splitFragment(Fragment{Content: text}, maxLen)
}
