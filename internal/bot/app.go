// Package bot wires the homework board, mute list, and conversation flow
// into a Telegram bot built on the shared core runtime.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/Re-Date/schooltgbot/core/telegram"
	"github.com/Re-Date/schooltgbot/core/database"
	"github.com/Re-Date/schooltgbot/core/logger"
	"github.com/Re-Date/schooltgbot/core/telegram/middleware"
	"github.com/Re-Date/schooltgbot/core/telegram/router"
	"github.com/Re-Date/schooltgbot/core/telegram/sender"
	"github.com/Re-Date/schooltgbot/core/telegram/state"
	"github.com/Re-Date/schooltgbot/internal/homework"
	"github.com/Re-Date/schooltgbot/internal/storage"
	"log/slog"
)

// Message lifetimes used by the janitor, matching chat hygiene expectations
// of the working chats.
const (
	ttlImmediate = 1 * time.Second
	ttlCancel    = 10 * time.Second
	ttlConfirm   = 15 * time.Second
	ttlMuteNote  = 20 * time.Second
	ttlHint      = 2 * time.Minute
	ttlMenu      = 3 * time.Minute
	ttlDefault   = 5 * time.Minute
)

type sendFunc func(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)

// App is the homework bot application.
type App struct {
	cfg *Config

	board storage.Board
	muted storage.MuteList
	hw    *homework.Service
	fsm   state.Manager

	dispatcher *sender.Dispatcher
	janitor    *Janitor
	notifier   *DebugNotifier
	chats      middleware.ChatOptions

	db *sqlx.DB

	// send is swapped for a stub in tests; at runtime it is bot.Send.
	send    sendFunc
	restart func() error
}

// New assembles the application from configuration, opening the selected
// storage backend.
func New(cfg *Config) (*App, error) {
	dispatcher := sender.NewDispatcher(sender.Options{})

	a := &App{
		cfg:        cfg,
		fsm:        state.NewMemoryManager(),
		dispatcher: dispatcher,
		janitor:    NewJanitor(dispatcher),
		notifier:   NewDebugNotifier(dispatcher, cfg.Bot.DebugChatID),
		restart:    reexec,
		chats: middleware.ChatOptions{
			AllowedChats: cfg.Bot.AllowedChats,
			DebugChatID:  cfg.Bot.DebugChatID,
		},
	}
	a.send = func(tele.Recipient, interface{}, ...interface{}) (*tele.Message, error) {
		return nil, fmt.Errorf("bot not started")
	}

	report := storage.Reporter(a.notifier.Notify)
	switch cfg.Storage.Backend {
	case BackendPostgres:
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, err
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		board, err := storage.NewSQLBoard(db, report)
		if err != nil {
			return nil, err
		}
		mutedList, err := storage.NewSQLMuted(db, report)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.board = board
		a.muted = mutedList
	default:
		a.board = storage.NewFileBoard(cfg.Storage.DataFile, report)
		a.muted = storage.NewFileMuted(cfg.Storage.MutedFile, report)
	}

	a.hw = homework.NewService(a.board, cfg.Bot.TZOffsetHours)
	return a, nil
}

// TelegramRunOptions builds the runtime wiring: registry, middleware chain,
// routes, and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	a.registerFlow()
	reg.SetTextFallback(a.onFreeText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs:      a.cfg.Bot.AdminIDs,
		OnAdminReject: a.onAdminReject,
	})
	routes = append(routes, router.MessageRoutes(a.fsm, reg, router.MessageOptions{
		Photo:   a.onPhoto,
		Sticker: a.stickerHandler(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	opts := coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Dispatcher:  a.dispatcher,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}
	return opts, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	a.send = rt.Bot.Send
	a.janitor.Bind(rt.Bot)
	a.notifier.Bind(rt.Bot)

	if a.cfg.Bot.EnableConsole {
		go a.runConsole(ctx)
	}

	a.notifier.Notify(ctx, "Бот запущен.")
	return nil
}

func (a *App) onStop(_ context.Context, _ coretelegram.Runtime) error {
	a.janitor.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.DB.Warn("db close failed",
				slog.String("event", "db.close"),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}

// sendTracked delivers a message through the outbound dispatcher so ordinary
// replies ride the sender's retry and logging path. The janitor schedule and
// the optional onSent hook run inside the job, once the message ID is known.
// With no dispatcher bound the send runs inline, which also keeps handler
// tests synchronous.
func (a *App) sendTracked(to tele.Recipient, what interface{}, ttl time.Duration, onSent func(*tele.Message), opts ...interface{}) {
	run := func() error {
		msg, err := a.send(to, what, opts...)
		if err != nil {
			return err
		}
		if ttl > 0 {
			a.janitor.ScheduleMessage(msg, ttl)
		}
		if onSent != nil {
			onSent(msg)
		}
		return nil
	}

	if a.dispatcher != nil {
		err := a.dispatcher.Enqueue(context.Background(), "send.message", "sendMessage", run)
		if err == nil {
			return
		}
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.TG.Warn("send queue fallback",
				slog.String("event", "send"),
				slog.String("err", err.Error()),
			)
		}
	}
	if err := run(); err != nil {
		logger.TG.Warn("send failed",
			slog.String("event", "send"),
			slog.String("err", err.Error()),
		)
	}
}

// sendTTL sends a message and schedules its deletion. Errors are logged, not
// surfaced: a failed ephemeral reply should not abort the handler.
func (a *App) sendTTL(to tele.Recipient, what interface{}, ttl time.Duration, opts ...interface{}) {
	a.sendTracked(to, what, ttl, nil, opts...)
}

// replyTTL replies to the current message and schedules deletion of the reply.
func (a *App) replyTTL(c tele.Context, text string, ttl time.Duration) {
	a.sendTTL(c.Chat(), text, ttl, &tele.SendOptions{ReplyTo: c.Message()})
}

// replyHTMLTTL is replyTTL with HTML parse mode.
func (a *App) replyHTMLTTL(c tele.Context, text string, ttl time.Duration) {
	a.sendTTL(c.Chat(), text, ttl, &tele.SendOptions{
		ReplyTo:   c.Message(),
		ParseMode: tele.ModeHTML,
	})
}

// dropUserMessage schedules deletion of the triggering message.
func (a *App) dropUserMessage(c tele.Context, delay time.Duration) {
	if m := c.Message(); m != nil {
		a.janitor.ScheduleMessage(m, delay)
	}
}
