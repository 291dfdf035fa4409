package bot

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/Re-Date/schooltgbot/core/logger"
	"github.com/Re-Date/schooltgbot/core/telegram/sender"
	"log/slog"
)

// Janitor deletes chat messages after a delay so working chats stay clean.
// Deletions run through the outbound dispatcher; a message that is already
// gone or not deletable counts as success.
type Janitor struct {
	mu         sync.Mutex
	bot        *tele.Bot
	dispatcher *sender.Dispatcher
	timers     map[*time.Timer]struct{}
	closed     bool
}

// NewJanitor returns a janitor without a bot bound yet. Bind is called once
// the runtime is up; Schedule before Bind drops the request silently.
func NewJanitor(dispatcher *sender.Dispatcher) *Janitor {
	return &Janitor{
		dispatcher: dispatcher,
		timers:     make(map[*time.Timer]struct{}),
	}
}

// Bind attaches the running bot instance.
func (j *Janitor) Bind(bot *tele.Bot) {
	j.mu.Lock()
	j.bot = bot
	j.mu.Unlock()
}

// Schedule arranges deletion of the message after the given delay.
func (j *Janitor) Schedule(chatID int64, messageID int, delay time.Duration) {
	j.mu.Lock()
	if j.closed || j.bot == nil {
		j.mu.Unlock()
		return
	}
	bot := j.bot
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		j.mu.Lock()
		delete(j.timers, timer)
		closed := j.closed
		j.mu.Unlock()
		if closed {
			return
		}
		j.deleteNow(bot, chatID, messageID)
	})
	j.timers[timer] = struct{}{}
	j.mu.Unlock()

	logger.Janitor.Debug("deletion scheduled",
		slog.String("event", "janitor.schedule"),
		slog.Int64("chat_id", chatID),
		slog.Int("msg_id", messageID),
		slog.Int64("delay_s", int64(delay/time.Second)),
	)
}

// ScheduleMessage is a convenience wrapper for *tele.Message values.
func (j *Janitor) ScheduleMessage(m *tele.Message, delay time.Duration) {
	if m == nil || m.Chat == nil {
		return
	}
	j.Schedule(m.Chat.ID, m.ID, delay)
}

func (j *Janitor) deleteNow(bot *tele.Bot, chatID int64, messageID int) {
	stored := tele.StoredMessage{
		ChatID:    chatID,
		MessageID: strconv.Itoa(messageID),
	}
	run := func() error {
		err := bot.Delete(stored)
		if isBenignDeleteError(err) {
			return nil
		}
		return err
	}
	if j.dispatcher != nil {
		if err := j.dispatcher.Enqueue(context.Background(), "delete.message", "deleteMessage", run); err == nil {
			return
		}
	}
	if err := run(); err != nil {
		logger.Janitor.Warn("delete failed",
			slog.String("event", "janitor.delete"),
			slog.Int64("chat_id", chatID),
			slog.Int("msg_id", messageID),
			slog.String("err", err.Error()),
		)
	}
}

// Close cancels all pending deletions.
func (j *Janitor) Close() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	for t := range j.timers {
		t.Stop()
	}
	j.timers = make(map[*time.Timer]struct{})
}

// isBenignDeleteError classifies "message to delete not found" and similar
// Bad Request responses as success. Telegram reports all of them as 400.
func isBenignDeleteError(err error) bool {
	if err == nil {
		return true
	}
	var te *tele.Error
	if errors.As(err, &te) {
		return te.Code == 400
	}
	return false
}
