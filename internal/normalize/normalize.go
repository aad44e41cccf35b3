package normalize

import (
	"regexp"
	"strings"
)

var (
	htmlTags   = regexp.MustCompile(`<[^>]*>`)
	urls       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentions   = regexp.MustCompile(`@\w+`)
	hashtags   = regexp.MustCompile(`#\w+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Clean strips HTML tags, URLs, @mentions and #hashtags from raw post text
// and collapses whitespace. Clean is idempotent: cleaning already-clean text
// returns it unchanged.
func Clean(raw string) string {
	s := htmlTags.ReplaceAllString(raw, " ")
	s = urls.ReplaceAllString(s, " ")
	s = mentions.ReplaceAllString(s, " ")
	s = hashtags.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
