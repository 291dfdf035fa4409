// Package storage holds the homework board and mute list contracts together
// with their file and Postgres backed implementations.
package storage

import (
	"context"
	"strings"
)

// Entry is the stored homework content for one subject key.
// The JSON shape matches the board files produced by earlier deployments.
type Entry struct {
	Text    string `json:"text"`
	PhotoID string `json:"photo_id,omitempty"`
}

// HasPhoto reports whether the entry carries a photo attachment.
func (e Entry) HasPhoto() bool {
	return e.PhotoID != ""
}

// Reporter forwards persistence failures to an operator-facing channel.
// Implementations must be safe for concurrent use and must not block.
type Reporter func(ctx context.Context, msg string)

// Board is the subject -> homework mapping. Mutations persist before they
// return; persistence failures are reported, not raised, so in-memory state
// stays authoritative for the rest of the process lifetime.
type Board interface {
	// Add normalizes the subject key and overwrites any existing entry.
	Add(ctx context.Context, subject string, e Entry)
	// Delete removes the entry and reports whether the key existed.
	Delete(ctx context.Context, subject string) bool
	// Get looks up an entry; the key is matched case-insensitively.
	Get(ctx context.Context, subject string) (Entry, bool)
	// Keys returns all subject keys sorted case-insensitively.
	Keys(ctx context.Context) []string
}

// MuteList is the set of users barred from mutating the board.
// Mute and Unmute are idempotent.
type MuteList interface {
	Mute(ctx context.Context, userID int64)
	Unmute(ctx context.Context, userID int64)
	IsMuted(ctx context.Context, userID int64) bool
}

// NormalizeKey produces the canonical form of a subject key.
func NormalizeKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
