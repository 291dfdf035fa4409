package format

import (
	"fmt"
	"html"
	"strings"
	"unicode"
)

// Esc escapes text for safe interpolation into HTML parse mode messages.
func Esc(text string) string {
	return html.EscapeString(text)
}

// B wraps text in bold tags, escaping it first.
func B(text string) string {
	return "<b>" + Esc(text) + "</b>"
}

// I wraps text in italic tags, escaping it first.
func I(text string) string {
	return "<i>" + Esc(text) + "</i>"
}

// Code wraps text in monospace tags, escaping it first.
func Code(text string) string {
	return "<code>" + Esc(text) + "</code>"
}

// Codef formats arguments and wraps the result in monospace tags.
func Codef(format string, args ...any) string {
	return Code(fmt.Sprintf(format, args...))
}

// Capitalize upper-cases the first rune and lower-cases the rest,
// matching how subject names are displayed to users.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
