package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/Re-Date/schooltgbot/core/config"
	"github.com/Re-Date/schooltgbot/core/database"
)

// Storage backends selectable via storage.backend.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// BotConfig holds settings specific to the homework bot.
type BotConfig struct {
	// AllowedChats lists group chats where board mutations are allowed.
	AllowedChats []int64 `yaml:"allowed_chats" envconfig:"BOT_ALLOWED_CHATS"`
	// AdminIDs lists users allowed to run /mute, /unmute, /msgu, /restart.
	AdminIDs []int64 `yaml:"admin_ids" envconfig:"BOT_ADMIN_IDS"`
	// DebugChatID receives operational notifications. 0 disables them.
	DebugChatID int64 `yaml:"debug_chat_id" envconfig:"BOT_DEBUG_CHAT_ID"`
	// ForbiddenStickerSet names a sticker pack whose stickers get removed.
	ForbiddenStickerSet string `yaml:"forbidden_sticker_set" envconfig:"BOT_FORBIDDEN_STICKER_SET"`
	// HelpURL is linked from the main menu.
	HelpURL string `yaml:"help_url" envconfig:"BOT_HELP_URL"`
	// TZOffsetHours is the fixed UTC offset used in attribution stamps.
	TZOffsetHours int `yaml:"tz_offset_hours" envconfig:"BOT_TZ_OFFSET_HOURS"`
	// EnableConsole starts the stdin command reader for operators.
	EnableConsole bool `yaml:"enable_console" envconfig:"BOT_ENABLE_CONSOLE"`
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Backend   string `yaml:"backend" envconfig:"STORAGE_BACKEND"`
	DataFile  string `yaml:"data_file" envconfig:"STORAGE_DATA_FILE"`
	MutedFile string `yaml:"muted_file" envconfig:"STORAGE_MUTED_FILE"`
}

// Config aggregates core and bot-specific configuration.
type Config struct {
	Core     coreconfig.Config `yaml:",inline"`
	Bot      BotConfig         `yaml:"bot"`
	Storage  StorageConfig     `yaml:"storage"`
	Database database.Config   `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file, applies environment
// overrides, and validates both the core and bot sections.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeBot(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeBot(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		if cfg.Storage.DataFile == "" {
			cfg.Storage.DataFile = "board_data.json"
		}
		if cfg.Storage.MutedFile == "" {
			cfg.Storage.MutedFile = "muted_users.json"
		}
	case BackendPostgres:
		if cfg.Database.Host == "" {
			return fmt.Errorf("database.host is required when storage.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid storage.backend %q; allowed: file, postgres", cfg.Storage.Backend)
	}
	cfg.Storage.Backend = backend

	if len(cfg.Bot.AllowedChats) == 0 {
		return fmt.Errorf("bot.allowed_chats must not be empty")
	}
	if cfg.Bot.TZOffsetHours == 0 {
		cfg.Bot.TZOffsetHours = 4
	}
	// An empty URL would turn the help button into a broken callback button.
	if strings.TrimSpace(cfg.Bot.HelpURL) == "" {
		cfg.Bot.HelpURL = "https://t.me/ShestoyAclassBot/help"
	}
	return nil
}
