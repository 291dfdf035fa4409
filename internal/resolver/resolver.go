// Package resolver maps free-form chat questions like "что задали по матеше"
// to canonical subject keys of the homework board.
package resolver

import (
	"regexp"
	"strings"
)

// Question shapes recognized in group chat. Order matters: earlier patterns
// win, and the subject block is always the last captured group.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`что\s+(задали|по)\s+(.+)`),
	regexp.MustCompile(`что\s+по\s+(.+)`),
	regexp.MustCompile(`что\s+задали\s+по\s+(.+)`),
	regexp.MustCompile(`какое\s+дз?\s+по\s+(.+)`),
	regexp.MustCompile(`дз?\s+по\s+(.+)`),
	regexp.MustCompile(`что\spo\s(.+)`),
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// BuildAliases maps lookup aliases to canonical board keys. Each key
// contributes its full form, a space-stripped form, and a four-rune prefix of
// the space-stripped form so abbreviations like "матеша" -> "мате" still hit.
// When two keys share an alias the later key wins.
func BuildAliases(keys []string) map[string]string {
	aliases := make(map[string]string, len(keys)*3)
	for _, k := range keys {
		key := strings.ToLower(k)
		if key == "" {
			continue
		}
		aliases[key] = key
		nospace := strings.ReplaceAll(key, " ", "")
		if nospace != "" && nospace != key {
			aliases[nospace] = key
		}
		if short := firstRunes(nospace, 4); len([]rune(short)) >= 2 {
			aliases[short] = key
		}
	}
	return aliases
}

// Resolve extracts a subject key from a chat message. The second return is
// false when no pattern matches or no candidate hits an alias.
func Resolve(text string, aliases map[string]string) (string, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}

	for _, pat := range patterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		block := strings.TrimSpace(m[len(m)-1])
		if block == "" {
			continue
		}

		unquoted := strings.NewReplacer(`"`, "", "'", "").Replace(block)
		candidates := []string{
			normalizeWord(firstWord(block)),
			normalizeWord(block),
			normalizeWord(unquoted),
			strings.TrimSpace(unquoted),
		}
		for _, cand := range candidates {
			if cand == "" {
				continue
			}
			if key, ok := aliases[cand]; ok {
				return key, true
			}
			short := firstRunes(strings.ReplaceAll(cand, " ", ""), 4)
			if key, ok := aliases[short]; ok {
				return key, true
			}
		}
	}
	return "", false
}

// normalizeWord strips everything but letters, digits, and underscores.
func normalizeWord(w string) string {
	return nonWord.ReplaceAllString(strings.ToLower(w), "")
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// firstRunes returns at most n runes of s, never splitting a code point.
func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
