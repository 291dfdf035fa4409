package bot

import (
	"errors"
	"testing"
)

func TestSplitCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"with args", "/set математика стр. 42", "математика стр. 42", true},
		{"bare command", "/set", "", false},
		{"trailing spaces only", "/del   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := splitCommandArgs(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("splitCommandArgs(%q) = (%q, %v), want (%q, %v)",
					tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseSubjectValue(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		subject string
		value   string
		wantErr error
	}{
		{"single word", "математика стр. 42, № 101", "математика", "стр. 42, № 101", nil},
		{"subject only", "математика", "математика", "", nil},
		{"quoted", `"изобразительное искусство" нарисовать пейзаж`, "изобразительное искусство", "нарисовать пейзаж", nil},
		{"quoted no value", `"английский язык"`, "английский язык", "", nil},
		{"unclosed quote", `"математика стр. 42`, "", "", errUnclosedQuote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, value, err := parseSubjectValue(tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if subject != tt.subject || value != tt.value {
				t.Errorf("got (%q, %q), want (%q, %q)", subject, value, tt.subject, tt.value)
			}
		})
	}
}

func TestParseSubjectKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Математика", "математика"},
		{`"Изобразительное искусство"`, "изобразительное искусство"},
		{`  "Химия"  `, "химия"},
		{`"`, `"`},
	}
	for _, tt := range tests {
		if got := parseSubjectKey(tt.in); got != tt.want {
			t.Errorf("parseSubjectKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
