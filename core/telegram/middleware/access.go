package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminIDs []int64
	OnReject tele.HandlerFunc
}

func (o AdminOptions) isAdmin(userID int64) bool {
	for _, id := range o.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AdminOnlyMiddleware ensures that only configured admin users can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if len(opts.AdminIDs) > 0 && !opts.isAdmin(c.Sender().ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// ChatOptions defines the fixed set of chats where mutating handlers may run.
// The debug chat is always permitted so operators can exercise the bot there.
type ChatOptions struct {
	AllowedChats []int64
	DebugChatID  int64
}

// Allowed reports whether the chat is in the allow-list or is the debug chat.
func (o ChatOptions) Allowed(chatID int64) bool {
	if o.DebugChatID != 0 && chatID == o.DebugChatID {
		return true
	}
	for _, id := range o.AllowedChats {
		if id == chatID {
			return true
		}
	}
	return false
}
