package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Re-Date/schooltgbot/core/logger"
	"log/slog"
)

// FileBoard keeps the board in memory and rewrites the whole JSON file after
// every mutation. The rewrite goes through a temp file and rename so readers
// never observe a partial write.
type FileBoard struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	report  Reporter
}

// NewFileBoard loads the board from path. A missing or unreadable file yields
// an empty board so first runs need no setup.
func NewFileBoard(path string, report Reporter) *FileBoard {
	b := &FileBoard{
		path:    path,
		entries: make(map[string]Entry),
		report:  report,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Store.Warn("board load failed",
				slog.String("event", "store.load"),
				slog.String("path", path),
				slog.String("err", err.Error()),
			)
		}
		return b
	}
	if len(data) == 0 || strings.TrimSpace(string(data)) == "" {
		return b
	}
	if err := json.Unmarshal(data, &b.entries); err != nil {
		logger.Store.Warn("board file is not valid JSON, starting empty",
			slog.String("event", "store.load"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		b.entries = make(map[string]Entry)
		return b
	}
	logger.Store.Info("board loaded",
		slog.String("event", "store.load"),
		slog.String("path", path),
		slog.Int("subjects", len(b.entries)),
	)
	return b
}

// Add implements Board.
func (b *FileBoard) Add(ctx context.Context, subject string, e Entry) {
	key := NormalizeKey(subject)
	if key == "" {
		return
	}
	b.mu.Lock()
	b.entries[key] = e
	err := b.save()
	b.mu.Unlock()
	b.reportSaveErr(ctx, err)
}

// Delete implements Board.
func (b *FileBoard) Delete(ctx context.Context, subject string) bool {
	key := NormalizeKey(subject)
	b.mu.Lock()
	_, ok := b.entries[key]
	if ok {
		delete(b.entries, key)
	}
	var err error
	if ok {
		err = b.save()
	}
	b.mu.Unlock()
	b.reportSaveErr(ctx, err)
	return ok
}

// Get implements Board.
func (b *FileBoard) Get(_ context.Context, subject string) (Entry, bool) {
	key := NormalizeKey(subject)
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	return e, ok
}

// Keys implements Board.
func (b *FileBoard) Keys(_ context.Context) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}

func (b *FileBoard) save() error {
	data, err := json.MarshalIndent(b.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	return writeAtomic(b.path, data)
}

func (b *FileBoard) reportSaveErr(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger.Store.Error("board save failed",
		slog.String("event", "store.save"),
		slog.String("path", b.path),
		slog.String("err", err.Error()),
	)
	if b.report != nil {
		b.report(ctx, fmt.Sprintf("Критическая ошибка при сохранении данных ДЗ: %v", err))
	}
}

// FileMuted persists the mute list as a JSON array of user IDs.
type FileMuted struct {
	mu     sync.Mutex
	path   string
	users  map[int64]struct{}
	report Reporter
}

// NewFileMuted loads the mute list from path, tolerating absence and garbage.
func NewFileMuted(path string, report Reporter) *FileMuted {
	m := &FileMuted{
		path:   path,
		users:  make(map[int64]struct{}),
		report: report,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.Store.Warn("mute list file is not valid JSON, starting empty",
			slog.String("event", "store.load"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return m
	}
	for _, id := range ids {
		m.users[id] = struct{}{}
	}
	return m
}

// Mute implements MuteList.
func (m *FileMuted) Mute(ctx context.Context, userID int64) {
	m.mu.Lock()
	m.users[userID] = struct{}{}
	err := m.save()
	m.mu.Unlock()
	m.reportSaveErr(ctx, err)
}

// Unmute implements MuteList.
func (m *FileMuted) Unmute(ctx context.Context, userID int64) {
	m.mu.Lock()
	delete(m.users, userID)
	err := m.save()
	m.mu.Unlock()
	m.reportSaveErr(ctx, err)
}

// IsMuted implements MuteList.
func (m *FileMuted) IsMuted(_ context.Context, userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[userID]
	return ok
}

func (m *FileMuted) save() error {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal mute list: %w", err)
	}
	return writeAtomic(m.path, data)
}

func (m *FileMuted) reportSaveErr(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger.Store.Error("mute list save failed",
		slog.String("event", "store.save"),
		slog.String("path", m.path),
		slog.String("err", err.Error()),
	)
	if m.report != nil {
		m.report(ctx, fmt.Sprintf("Критическая ошибка при сохранении списка заглушенных пользователей: %v", err))
	}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
