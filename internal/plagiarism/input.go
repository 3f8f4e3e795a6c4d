package plagiarism

import (
	"encoding/hex"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"lukechampine.com/blake3"
)

// CheckType says whether the input is checked as a web page or raw text.
type CheckType string

const (
	TypeURL  CheckType = "url"
	TypeText CheckType = "text"
)

// previewLength caps echoed input and text previews.
const previewLength = 200

// Input is a validated, trimmed check subject with its resolved type.
type Input struct {
	Text string
	Type CheckType
}

// ValidateInput checks the raw JSON "input" value and resolves its type.
// raw is whatever the request decoded into; anything but a non-blank string
// of fewer than maxChars characters is rejected. hint, when non-empty, must
// be "url" or "text" and skips classification.
func ValidateInput(raw any, hint string, maxChars int) (Input, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return Input{}, errEmptyInput()
	}
	if utf8.RuneCountInString(s) >= maxChars {
		return Input{}, errInputTooLarge(maxChars)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Input{}, errEmptyInput()
	}

	var t CheckType
	switch CheckType(hint) {
	case TypeURL, TypeText:
		t = CheckType(hint)
	case "":
		t = Classify(s)
	default:
		return Input{}, errInvalidType(hint)
	}
	return Input{Text: s, Type: t}, nil
}

// Classify returns TypeURL when s parses as an absolute URL, else TypeText.
func Classify(s string) CheckType {
	if IsValidURL(s) {
		return TypeURL
	}
	return TypeText
}

// IsValidURL reports whether s is an absolute URL: a scheme followed by a
// host or an opaque part, with no embedded whitespace.
func IsValidURL(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// CacheKey fingerprints a check as "<type>:<128-bit blake3 hex>".
func CacheKey(t CheckType, normalized string) string {
	sum := blake3.Sum256([]byte(string(t) + ":" + normalized))
	return string(t) + ":" + hex.EncodeToString(sum[:16])
}

// TextStats summarises a text submission.
type TextStats struct {
	Length    int    `json:"length"`
	WordCount int    `json:"wordCount"`
	LineCount int    `json:"lineCount"`
	Preview   string `json:"preview"`
}

// ComputeTextStats counts characters, whitespace separated words and
// newline separated lines.
func ComputeTextStats(text string) TextStats {
	return TextStats{
		Length:    utf8.RuneCountInString(text),
		WordCount: len(strings.Fields(text)),
		LineCount: strings.Count(text, "\n") + 1,
		Preview:   truncate(text, previewLength),
	}
}

// truncate keeps the first n characters of s, appending "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// isoTime renders t the way JavaScript's toISOString does.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
