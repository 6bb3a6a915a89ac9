package logging

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSanitizedLen = 500

// Patterns that must never reach the log stream. Remote error bodies can
// echo back request headers, including credentials.
var secretPatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_\-\.=]{8,}`), "[REDACTED:BEARER]"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9\-]{16,}`), "[REDACTED:API_KEY]"},
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|token)\s*[:=]\s*["']?[^"'\s]{8,}["']?`), "$1=[REDACTED]"},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize collapses text to a single bounded line with credentials redacted.
// Safe on any input, including remote error bodies.
func Sanitize(text string) string {
	out := whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	for _, p := range secretPatterns {
		out = p.regex.ReplaceAllString(out, p.replacement)
	}
	if len(out) > maxSanitizedLen {
		// Cut on a rune boundary so the log line stays valid UTF-8.
		cut := maxSanitizedLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut] + "..."
	}
	return out
}

// SanitizeError is Sanitize over an error's text. Nil-safe.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}
