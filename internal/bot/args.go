package bot

import (
	"errors"
	"strings"
)

var errUnclosedQuote = errors.New("unclosed quote in subject")

// splitCommandArgs drops the leading command token and returns the rest.
// The boolean is false when there are no arguments at all.
func splitCommandArgs(text string) (string, bool) {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// parseSubjectValue splits an argument line into a subject and the remaining
// value. Multi-word subjects are written in double quotes:
//
//	"изобразительное искусство" нарисовать пейзаж
//	математика стр. 42
func parseSubjectValue(argsLine string) (subject, value string, err error) {
	argsLine = strings.TrimSpace(argsLine)
	if strings.HasPrefix(argsLine, `"`) {
		end := strings.Index(argsLine[1:], `"`)
		if end == -1 {
			return "", "", errUnclosedQuote
		}
		subject = strings.TrimSpace(argsLine[1 : end+1])
		value = strings.TrimSpace(argsLine[end+2:])
		return subject, value, nil
	}
	parts := strings.SplitN(argsLine, " ", 2)
	subject = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}
	return subject, value, nil
}

// parseSubjectKey extracts a subject key argument, stripping surrounding
// quotes when present and lower-casing the result.
func parseSubjectKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	return strings.ToLower(raw)
}
