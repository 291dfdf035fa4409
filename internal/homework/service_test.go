package homework

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Re-Date/schooltgbot/internal/storage"
)

type memBoard struct {
	entries map[string]storage.Entry
}

func newMemBoard() *memBoard {
	return &memBoard{entries: make(map[string]storage.Entry)}
}

func (m *memBoard) Add(_ context.Context, subject string, e storage.Entry) {
	m.entries[storage.NormalizeKey(subject)] = e
}

func (m *memBoard) Delete(_ context.Context, subject string) bool {
	key := storage.NormalizeKey(subject)
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

func (m *memBoard) Get(_ context.Context, subject string) (storage.Entry, bool) {
	e, ok := m.entries[storage.NormalizeKey(subject)]
	return e, ok
}

func (m *memBoard) Keys(_ context.Context) []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}

func TestCommitAttribution(t *testing.T) {
	board := newMemBoard()
	svc := NewService(board, 4)
	at := time.Date(2024, time.September, 2, 10, 30, 0, 0, time.UTC)

	svc.Commit(context.Background(), "Математика", "стр. 42, № 101",
		"", at, Author{ID: 11, Username: "ivan"})

	e, ok := board.Get(context.Background(), "математика")
	if !ok {
		t.Fatal("entry not stored")
	}
	want := "стр. 42, № 101\n\n(Добавлено 2 сентября в 14:30 пользователем @ivan)"
	if e.Text != want {
		t.Errorf("text = %q, want %q", e.Text, want)
	}
}

func TestCommitPhotoPlaceholder(t *testing.T) {
	board := newMemBoard()
	svc := NewService(board, 4)

	e := svc.Commit(context.Background(), "физика", "", "photo-1",
		time.Now(), Author{ID: 7})

	if !strings.HasPrefix(e.Text, PhotoPlaceholder) {
		t.Errorf("text = %q, want placeholder prefix", e.Text)
	}
	if e.PhotoID != "photo-1" {
		t.Errorf("photo_id = %q", e.PhotoID)
	}
}

func TestAuthorMention(t *testing.T) {
	if got := (Author{ID: 5, Username: "anna"}).Mention(); got != "@anna" {
		t.Errorf("Mention with username = %q", got)
	}
	if got := (Author{ID: 5}).Mention(); got != "User ID: 5" {
		t.Errorf("Mention without username = %q", got)
	}
}

func TestRender(t *testing.T) {
	got := Render("математика", storage.Entry{Text: "стр. 42"})
	want := "ДЗ по \"Математика\":\nстр. 42"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestServiceTimezoneOffset(t *testing.T) {
	board := newMemBoard()
	svc := NewService(board, 0)
	at := time.Date(2024, time.January, 15, 23, 5, 0, 0, time.UTC)

	e := svc.Commit(context.Background(), "изо", "нарисовать", "", at, Author{ID: 1})
	if !strings.Contains(e.Text, "15 января в 23:05") {
		t.Errorf("attribution in UTC offset 0 = %q", e.Text)
	}
}
