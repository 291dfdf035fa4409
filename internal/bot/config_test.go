package bot

import (
	"strings"
	"testing"
)

func TestNormalizeBotDefaults(t *testing.T) {
	cfg := &Config{
		Bot: BotConfig{AllowedChats: []int64{-100500}},
	}
	if err := normalizeBot(cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.DataFile != "board_data.json" || cfg.Storage.MutedFile != "muted_users.json" {
		t.Errorf("file defaults = %q, %q", cfg.Storage.DataFile, cfg.Storage.MutedFile)
	}
	if cfg.Bot.TZOffsetHours != 4 {
		t.Errorf("tz offset = %d", cfg.Bot.TZOffsetHours)
	}
	if !strings.HasPrefix(cfg.Bot.HelpURL, "https://") {
		t.Errorf("help url not defaulted: %q", cfg.Bot.HelpURL)
	}
}

func TestNormalizeBotValidation(t *testing.T) {
	if err := normalizeBot(&Config{}); err == nil {
		t.Error("empty allowed_chats accepted")
	}

	cfg := &Config{
		Bot:     BotConfig{AllowedChats: []int64{-100500}},
		Storage: StorageConfig{Backend: "postgres"},
	}
	if err := normalizeBot(cfg); err == nil {
		t.Error("postgres backend without database.host accepted")
	}

	cfg = &Config{
		Bot:     BotConfig{AllowedChats: []int64{-100500}},
		Storage: StorageConfig{Backend: "redis"},
	}
	if err := normalizeBot(cfg); err == nil {
		t.Error("unknown backend accepted")
	}
}
