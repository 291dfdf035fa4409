package router

import (
	"time"

	tg "github.com/Re-Date/schooltgbot/core/telegram"
	"github.com/Re-Date/schooltgbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// MessageOptions controls routing of plain text, photo, and sticker updates.
type MessageOptions struct {
	// Photo handles photo updates when no conversation is in progress,
	// e.g. a /set command carried in a photo caption.
	Photo tele.HandlerFunc
	// Sticker handles every incoming sticker update.
	Sticker tele.HandlerFunc
	// UnknownText runs when no command, conversation, or fallback claims the text.
	UnknownText tele.HandlerFunc
}

// MessageRoutes builds handlers for text, photo, and sticker routing.
// Precedence for text: active conversation > registered command > text fallback > unknown.
func MessageRoutes(fsmMgr FSM, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm_photo", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}
		if opts.Photo != nil {
			return handleWithSummary(c, "photo", start, "", "", func() error {
				return opts.Photo(c)
			})
		}
		logHandlerSummary(c, "photo", start, "skip", "ok", nil)
		return nil
	}

	routes := []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
		{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(photoHandler)),
		},
	}

	if opts.Sticker != nil {
		stickerHandler := func(c tele.Context) error {
			start := time.Now()
			return handleWithSummary(c, "sticker", start, "", "", func() error {
				return opts.Sticker(c)
			})
		}
		routes = append(routes, tg.Route{
			Endpoint: tele.OnSticker,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(stickerHandler)),
		})
	}

	return routes
}
