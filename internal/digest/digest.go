// Package digest renders Slack messages as plain text for summarization.
package digest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adamancini/slack-notion-mcp/internal/slackclient"
)

const (
	unknownUser = "Unknown"
	noContent   = "(no content)"
	emptyThread = "(empty thread)"
)

// Thread is the result of fetching one thread. Err is set when the fetch
// failed; Messages is then empty.
type Thread struct {
	TS       string
	Messages []slackclient.Message
	Err      error
}

// FormatMessages renders channel messages, one line per message.
func FormatMessages(messages []slackclient.Message, channelName string) string {
	lines := []string{
		"Channel: " + channelName,
		fmt.Sprintf("Message count: %d", len(messages)),
		"",
		"Messages:",
		"",
	}

	for _, m := range messages {
		line := messageLine(m)
		if m.ReplyCount > 0 {
			line += fmt.Sprintf("\n  [thread: %d replies]", m.ReplyCount)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// FormatThreads renders several threads under one header. The first message
// of a thread is its topic.
func FormatThreads(threads []Thread, channelName string) string {
	total := 0
	for _, t := range threads {
		total += len(t.Messages)
	}

	lines := []string{
		"Channel: " + channelName,
		fmt.Sprintf("Thread count: %d", len(threads)),
		fmt.Sprintf("Total messages: %d", total),
		"",
	}

	for i, t := range threads {
		lines = append(lines, fmt.Sprintf("--- Thread %d: %s ---", i+1, topic(t)), "")
		for _, m := range t.Messages {
			lines = append(lines, messageLine(m))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func topic(t Thread) string {
	switch {
	case t.Err != nil:
		return fmt.Sprintf("(fetch failed: %s)", slackclient.UserMessage(t.Err))
	case len(t.Messages) == 0:
		return emptyThread
	case t.Messages[0].Text == "":
		return noContent
	default:
		return t.Messages[0].Text
	}
}

func messageLine(m slackclient.Message) string {
	return fmt.Sprintf("%s (%s) — %s", author(m), formatTimestamp(m.TS), m.Text)
}

func author(m slackclient.Message) string {
	switch {
	case m.UserName != "":
		return m.UserName
	case m.User != "":
		return m.User
	default:
		return unknownUser
	}
}

// formatTimestamp renders a Slack timestamp as local "M/D HH:MM". Unparsable
// timestamps are returned unchanged.
func formatTimestamp(ts string) string {
	secs, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return ts
	}
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * 1e9)
	return time.Unix(whole, nanos).Local().Format("1/2 15:04")
}
