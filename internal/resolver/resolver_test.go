package resolver

import "testing"

func TestBuildAliases(t *testing.T) {
	aliases := BuildAliases([]string{"математика", "английский язык", "изо"})

	tests := []struct {
		alias string
		want  string
	}{
		{"математика", "математика"},
		{"мате", "математика"},
		{"английский язык", "английский язык"},
		{"английскийязык", "английский язык"},
		{"англ", "английский язык"},
		{"изо", "изо"},
	}
	for _, tt := range tests {
		if got := aliases[tt.alias]; got != tt.want {
			t.Errorf("aliases[%q] = %q, want %q", tt.alias, got, tt.want)
		}
	}
	if _, ok := aliases["физ"]; ok {
		t.Error("alias for unknown subject present")
	}
}

func TestBuildAliasesLastKeyWins(t *testing.T) {
	// Both keys collapse to the "мате" prefix; the later one takes the slot.
	aliases := BuildAliases([]string{"математика", "матем анализ"})
	if got := aliases["мате"]; got != "матем анализ" {
		t.Errorf("aliases[\"мате\"] = %q, want later key", got)
	}
}

func TestResolve(t *testing.T) {
	aliases := BuildAliases([]string{"математика", "английский"})

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"full phrase", "что задали по математике", "математика", true},
		{"short subject", "что по англ", "английский", true},
		{"question mark", "Что задали по математике?", "математика", true},
		{"upper case", "ЧТО ПО МАТЕМАТИКЕ", "математика", true},
		{"dz form", "какое дз по англу", "английский", true},
		{"quoted", `что по "математике"`, "математика", true},
		{"translit po", "что po математике", "математика", true},
		{"unknown subject", "что задали по физике", "", false},
		{"no pattern", "привет всем", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.text, aliases)
			if ok != tt.found || got != tt.want {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)",
					tt.text, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"математике?", "математике"},
		{`"физика"`, "физика"},
		{"англ.яз", "англяз"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := normalizeWord(tt.in); got != tt.want {
			t.Errorf("normalizeWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstRunes(t *testing.T) {
	if got := firstRunes("математика", 4); got != "мате" {
		t.Errorf("firstRunes cyrillic = %q", got)
	}
	if got := firstRunes("изо", 4); got != "изо" {
		t.Errorf("firstRunes short = %q", got)
	}
}
