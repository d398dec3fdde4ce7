package notion

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	compactIDPattern  = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
	dashedIDPattern   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	trailingIDPattern = regexp.MustCompile(`[0-9a-fA-F]{32}$`)
)

// ExtractPageID returns the 32 character page ID in s, which may be a page URL
// (with or without a title slug and query), a dashed UUID or a bare ID.
// Unrecognized input is returned trimmed.
func ExtractPageID(s string) string {
	s = strings.TrimSpace(s)

	if compactIDPattern.MatchString(s) {
		return s
	}
	if dashedIDPattern.MatchString(s) {
		return strings.ReplaceAll(s, "-", "")
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	segment := path.Base(u.Path)
	if dashedIDPattern.MatchString(segment) {
		return strings.ReplaceAll(segment, "-", "")
	}
	if id := trailingIDPattern.FindString(segment); id != "" {
		return id
	}

	return s
}
