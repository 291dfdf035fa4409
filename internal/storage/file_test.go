package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileBoardAddGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hw.json")
	b := NewFileBoard(path, nil)

	b.Add(ctx, "  Математика ", Entry{Text: "стр. 42"})

	tests := []struct {
		name    string
		subject string
		want    bool
	}{
		{"exact", "математика", true},
		{"upper", "МАТЕМАТИКА", true},
		{"padded", "  математика  ", true},
		{"missing", "физика", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := b.Get(ctx, tt.subject)
			if ok != tt.want {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.subject, ok, tt.want)
			}
			if ok && e.Text != "стр. 42" {
				t.Errorf("Get(%q) text = %q", tt.subject, e.Text)
			}
		})
	}
}

func TestFileBoardAddOverwrites(t *testing.T) {
	ctx := context.Background()
	b := NewFileBoard(filepath.Join(t.TempDir(), "hw.json"), nil)

	b.Add(ctx, "физика", Entry{Text: "старое"})
	b.Add(ctx, "Физика", Entry{Text: "новое", PhotoID: "ph1"})

	e, ok := b.Get(ctx, "физика")
	if !ok {
		t.Fatal("entry missing after overwrite")
	}
	if e.Text != "новое" || e.PhotoID != "ph1" {
		t.Errorf("got %+v", e)
	}
	if got := b.Keys(ctx); len(got) != 1 {
		t.Errorf("Keys = %v, want single key", got)
	}
}

func TestFileBoardDelete(t *testing.T) {
	ctx := context.Background()
	b := NewFileBoard(filepath.Join(t.TempDir(), "hw.json"), nil)
	b.Add(ctx, "история", Entry{Text: "параграф 3"})

	if !b.Delete(ctx, "ИСТОРИЯ") {
		t.Error("Delete on existing key = false")
	}
	if b.Delete(ctx, "история") {
		t.Error("Delete on missing key = true")
	}
	if _, ok := b.Get(ctx, "история"); ok {
		t.Error("entry survived Delete")
	}
}

func TestFileBoardReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hw.json")

	b := NewFileBoard(path, nil)
	b.Add(ctx, "химия", Entry{Text: "(см. фото)", PhotoID: "abc"})
	b.Add(ctx, "алгебра", Entry{Text: "номера 10-15"})

	again := NewFileBoard(path, nil)
	if got := again.Keys(ctx); !reflect.DeepEqual(got, []string{"алгебра", "химия"}) {
		t.Fatalf("Keys after reload = %v", got)
	}
	e, ok := again.Get(ctx, "химия")
	if !ok || e.PhotoID != "abc" {
		t.Errorf("reloaded entry = %+v, ok = %v", e, ok)
	}
}

func TestFileBoardFileShape(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hw.json")
	b := NewFileBoard(path, nil)
	b.Add(ctx, "музыка", Entry{Text: "выучить песню"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("board file is not a subject map: %v", err)
	}
	if raw["музыка"]["text"] != "выучить песню" {
		t.Errorf("file content = %s", data)
	}
	if _, ok := raw["музыка"]["photo_id"]; ok {
		t.Error("photo_id serialized for a text-only entry")
	}
}

func TestFileBoardTolerantLoad(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"empty", ""},
		{"blank", "   \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "hw.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			b := NewFileBoard(path, nil)
			if got := b.Keys(ctx); len(got) != 0 {
				t.Errorf("Keys = %v, want empty", got)
			}
		})
	}
}

func TestFileBoardReportsSaveFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var reported []string
	b := NewFileBoard(filepath.Join(dir, "hw.json"), func(_ context.Context, msg string) {
		reported = append(reported, msg)
	})

	b.Add(ctx, "труд", Entry{Text: "ok"})
	if len(reported) != 0 {
		t.Fatalf("unexpected report on healthy save: %v", reported)
	}

	// Point the board at a path whose parent cannot exist.
	b.path = filepath.Join(dir, "no-such-dir", "hw.json")
	b.Add(ctx, "физра", Entry{Text: "bring sneakers"})

	if len(reported) != 1 {
		t.Fatalf("reports = %v, want one failure report", reported)
	}
	// The write failed but the entry must stay visible in memory.
	if _, ok := b.Get(ctx, "физра"); !ok {
		t.Error("entry lost after failed save")
	}
}

func TestFileMuted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "muted.json")
	m := NewFileMuted(path, nil)

	m.Mute(ctx, 42)
	m.Mute(ctx, 42)
	m.Mute(ctx, 7)

	if !m.IsMuted(ctx, 42) || !m.IsMuted(ctx, 7) {
		t.Error("muted users not reported as muted")
	}
	if m.IsMuted(ctx, 100) {
		t.Error("unknown user reported as muted")
	}

	m.Unmute(ctx, 42)
	m.Unmute(ctx, 42)
	if m.IsMuted(ctx, 42) {
		t.Error("user still muted after Unmute")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("mute file is not an ID array: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{7}) {
		t.Errorf("persisted IDs = %v, want [7]", ids)
	}

	again := NewFileMuted(path, nil)
	if !again.IsMuted(ctx, 7) {
		t.Error("mute list lost across reload")
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Математика", "математика"},
		{"  ИЗО  ", "изо"},
		{"English", "english"},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
