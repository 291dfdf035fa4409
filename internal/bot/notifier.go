package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/Re-Date/schooltgbot/core/logger"
	"github.com/Re-Date/schooltgbot/core/telegram/sender"
	"log/slog"
)

// DebugNotifier mirrors operational events into the configured debug chat.
// With no chat configured, or before the bot is bound, notifications only go
// to the log.
type DebugNotifier struct {
	mu         sync.Mutex
	bot        *tele.Bot
	dispatcher *sender.Dispatcher
	chatID     int64
}

// NewDebugNotifier builds a notifier for the given debug chat ID.
func NewDebugNotifier(dispatcher *sender.Dispatcher, chatID int64) *DebugNotifier {
	return &DebugNotifier{dispatcher: dispatcher, chatID: chatID}
}

// Bind attaches the running bot instance.
func (n *DebugNotifier) Bind(bot *tele.Bot) {
	n.mu.Lock()
	n.bot = bot
	n.mu.Unlock()
}

// Notify sends "[DEBUG] <timestamp>: <msg>" to the debug chat.
func (n *DebugNotifier) Notify(ctx context.Context, msg string) {
	logger.L.With("component", "debug").Info(msg, slog.String("event", "notify"))

	n.mu.Lock()
	bot := n.bot
	n.mu.Unlock()
	if bot == nil || n.chatID == 0 {
		return
	}

	text := fmt.Sprintf("[DEBUG] %s: %s", time.Now().Format("2006-01-02 15:04:05"), msg)
	run := func() error {
		_, err := bot.Send(tele.ChatID(n.chatID), text)
		return err
	}
	if n.dispatcher != nil {
		if err := n.dispatcher.Enqueue(ctx, "send.debug", "sendMessage", run); err == nil {
			return
		}
	}
	if err := run(); err != nil {
		logger.L.With("component", "debug").Warn("debug notification failed",
			slog.String("event", "notify"),
			slog.String("err", err.Error()),
		)
	}
}
