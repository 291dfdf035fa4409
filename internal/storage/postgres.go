package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Re-Date/schooltgbot/core/logger"
)

// SQLBoard stores the board in Postgres. It mirrors FileBoard semantics:
// write failures are reported and logged, never surfaced to the caller, and
// an in-memory cache answers reads while the database is unavailable.
type SQLBoard struct {
	db     *sqlx.DB
	cache  *FileBoardCache
	report Reporter
}

// FileBoardCache is a small in-memory mirror shared by SQL-backed stores so
// the "in-memory state stays authoritative" contract holds across backends.
type FileBoardCache struct {
	entries map[string]Entry
}

// NewSQLBoard loads all rows into the cache and returns the store.
func NewSQLBoard(db *sqlx.DB, report Reporter) (*SQLBoard, error) {
	b := &SQLBoard{
		db:     db,
		cache:  &FileBoardCache{entries: make(map[string]Entry)},
		report: report,
	}

	rows := []struct {
		Subject string `db:"subject"`
		Text    string `db:"text"`
		PhotoID string `db:"photo_id"`
	}{}
	if err := db.Select(&rows, `SELECT subject, text, photo_id FROM subjects`); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	for _, r := range rows {
		b.cache.entries[r.Subject] = Entry{Text: r.Text, PhotoID: r.PhotoID}
	}
	logger.Store.Info("board loaded",
		slog.String("event", "store.load"),
		slog.String("db", "postgres"),
		slog.Int("subjects", len(b.cache.entries)),
	)
	return b, nil
}

// Add implements Board.
func (b *SQLBoard) Add(ctx context.Context, subject string, e Entry) {
	key := NormalizeKey(subject)
	if key == "" {
		return
	}
	b.cache.entries[key] = e
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO subjects (subject, text, photo_id) VALUES ($1, $2, $3)
		 ON CONFLICT (subject) DO UPDATE SET text = EXCLUDED.text, photo_id = EXCLUDED.photo_id`,
		key, e.Text, e.PhotoID,
	)
	b.reportErr(ctx, "subjects upsert", err)
}

// Delete implements Board.
func (b *SQLBoard) Delete(ctx context.Context, subject string) bool {
	key := NormalizeKey(subject)
	_, ok := b.cache.entries[key]
	if !ok {
		return false
	}
	delete(b.cache.entries, key)
	_, err := b.db.ExecContext(ctx, `DELETE FROM subjects WHERE subject = $1`, key)
	b.reportErr(ctx, "subjects delete", err)
	return true
}

// Get implements Board.
func (b *SQLBoard) Get(_ context.Context, subject string) (Entry, bool) {
	e, ok := b.cache.entries[NormalizeKey(subject)]
	return e, ok
}

// Keys implements Board.
func (b *SQLBoard) Keys(_ context.Context) []string {
	keys := make([]string, 0, len(b.cache.entries))
	for k := range b.cache.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}

func (b *SQLBoard) reportErr(ctx context.Context, op string, err error) {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return
	}
	logger.Store.Error("board write failed",
		slog.String("event", "store.save"),
		slog.String("db", "postgres"),
		slog.String("op", op),
		slog.String("err", err.Error()),
	)
	if b.report != nil {
		b.report(ctx, fmt.Sprintf("Критическая ошибка при сохранении данных ДЗ: %v", err))
	}
}

// SQLMuted stores the mute list in Postgres with the same degrade-to-memory
// behavior as SQLBoard.
type SQLMuted struct {
	db     *sqlx.DB
	users  map[int64]struct{}
	report Reporter
}

// NewSQLMuted loads the mute list and returns the store.
func NewSQLMuted(db *sqlx.DB, report Reporter) (*SQLMuted, error) {
	m := &SQLMuted{
		db:     db,
		users:  make(map[int64]struct{}),
		report: report,
	}
	var ids []int64
	if err := db.Select(&ids, `SELECT user_id FROM muted_users`); err != nil {
		return nil, fmt.Errorf("load muted users: %w", err)
	}
	for _, id := range ids {
		m.users[id] = struct{}{}
	}
	return m, nil
}

// Mute implements MuteList.
func (m *SQLMuted) Mute(ctx context.Context, userID int64) {
	m.users[userID] = struct{}{}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO muted_users (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID)
	m.reportErr(ctx, err)
}

// Unmute implements MuteList.
func (m *SQLMuted) Unmute(ctx context.Context, userID int64) {
	delete(m.users, userID)
	_, err := m.db.ExecContext(ctx, `DELETE FROM muted_users WHERE user_id = $1`, userID)
	m.reportErr(ctx, err)
}

// IsMuted implements MuteList.
func (m *SQLMuted) IsMuted(_ context.Context, userID int64) bool {
	_, ok := m.users[userID]
	return ok
}

func (m *SQLMuted) reportErr(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger.Store.Error("mute list write failed",
		slog.String("event", "store.save"),
		slog.String("db", "postgres"),
		slog.String("err", err.Error()),
	)
	if m.report != nil {
		m.report(ctx, fmt.Sprintf("Критическая ошибка при сохранении списка заглушенных пользователей: %v", err))
	}
}
