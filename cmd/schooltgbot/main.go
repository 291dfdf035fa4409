package main

import (
	"fmt"
	"log"

	"github.com/Re-Date/schooltgbot/core/buildinfo"
	corecmd "github.com/Re-Date/schooltgbot/core/cmd"
	"github.com/Re-Date/schooltgbot/core/logger"
	"github.com/Re-Date/schooltgbot/internal/bot"
	"log/slog"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*bot.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
				return nil, err
			}
			logger.L.With("component", "app").Info("starting",
				slog.String("event", "boot"),
				slog.String("version", buildinfo.Version),
				slog.String("commit", buildinfo.Commit),
			)
			return bot.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
