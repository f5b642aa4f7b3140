package newtablinks

import (
	"html"
	"strings"
)

// Output encoding for the read API. Titles and URLs are stored exactly as
// entered, so every value is encoded once here, in the serialization
// step, and nowhere else.

// EscapeText encodes HTML-special characters in display text so a client
// can drop the value into an HTML context without executing stored markup.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// Schemes a stored URL may carry. Anything else (javascript:, data:, ...)
// is rejected outright and serialized as the empty string.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"ftps":   true,
	"mailto": true,
	"feed":   true,
}

// CleanURL makes a stored free-text URL safe to emit: control characters
// are stripped, characters that could break out of an HTML attribute are
// percent-encoded, and disallowed schemes empty the value. Already-encoded
// input passes through unchanged, so applying CleanURL twice is a no-op.
func CleanURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x20 || r == 0x7f:
			// strip
		case r == ' ':
			b.WriteString("%20")
		case r == '"':
			b.WriteString("%22")
		case r == '\'':
			b.WriteString("%27")
		case r == '<':
			b.WriteString("%3C")
		case r == '>':
			b.WriteString("%3E")
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()
	if i := strings.IndexByte(s, ':'); i >= 0 && !strings.ContainsAny(s[:i], "/?#") {
		if !allowedSchemes[strings.ToLower(s[:i])] {
			return ""
		}
	}
	return s
}
