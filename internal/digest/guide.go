package digest

import "strings"

// GuideExamples are sample directions offered to the user.
var GuideExamples = []string{
	"Summarize the meeting decisions",
	"List only the action items, grouped by owner",
	"Group by topic and summarize the key points of each",
	"Separate bug reports from feature requests",
	"Lay out the discussion as a timeline",
	"Explain what issue came up in this thread, what the final direction is and who asked whom to do what. Flag anything I need to do or know",
}

// AnalysisGuide returns the text that asks the user how the collected
// messages should be summarized.
func AnalysisGuide() string {
	lines := []string{
		"How should this be summarized?",
		"Describe it freely and the summary will follow that direction.",
		"",
		"Examples:",
	}
	for _, example := range GuideExamples {
		lines = append(lines, "  - "+example)
	}
	lines = append(lines,
		"",
		"Tip: the more specific the request, the closer the result.",
		`  e.g. "From last week's discussion, pick only the unresolved items and prioritize them"`,
	)
	return strings.Join(lines, "\n")
}
