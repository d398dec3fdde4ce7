package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPreferencesPath is used when no preferences path is configured.
const DefaultPreferencesPath = ".claude/slack-to-notion/preferences.md"

const preferencesHeader = "## Analysis preferences\n\n"

// Preferences is an append-only markdown file of summarization preferences.
type Preferences struct {
	path string
	now  func() time.Time
}

// NewPreferences returns a Preferences backed by the file at path.
func NewPreferences(path string) *Preferences {
	if path == "" {
		path = DefaultPreferencesPath
	}
	return &Preferences{path: path, now: time.Now}
}

// Path returns the backing file path.
func (p *Preferences) Path() string {
	return p.path
}

// Append adds a dated entry. The file and its parent directories are created
// on first use.
func (p *Preferences) Append(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("preference text is empty")
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat preferences: %w", err)
	}

	var b strings.Builder
	if info.Size() == 0 {
		b.WriteString(preferencesHeader)
	}
	fmt.Fprintf(&b, "- [%s] %s\n", p.now().Format("2006-01-02"), text)

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// Load returns the file content, or "" when nothing has been saved yet.
func (p *Preferences) Load() (string, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read preferences: %w", err)
	}
	return string(data), nil
}
