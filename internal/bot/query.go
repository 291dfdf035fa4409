package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Re-Date/schooltgbot/core/logger"
	tghelpers "github.com/Re-Date/schooltgbot/core/telegram/helpers"
	"github.com/Re-Date/schooltgbot/internal/resolver"
	"log/slog"
)

// onFreeText answers questions like "что задали по матеше" in any chat.
// Everything unrecognized is silently ignored.
func (a *App) onFreeText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	aliases := resolver.BuildAliases(a.board.Keys(ctx))
	key, ok := resolver.Resolve(text, aliases)
	if !ok {
		return nil
	}

	entry, found := a.board.Get(ctx, key)
	if !found {
		return nil
	}

	logger.Resolver.Debug("subject question answered",
		slog.String("event", "resolve"),
		slog.String("subject", key),
		slog.Int64("user_id", c.Sender().ID),
	)
	a.deliverHomework(c, key, entry)
	a.dropUserMessage(c, ttlImmediate)
	return nil
}

// onPhoto handles photos outside a conversation. The only meaningful case is
// a /set command carried in the caption.
func (a *App) onPhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	caption := strings.TrimSpace(msg.Caption)
	lower := strings.ToLower(caption)
	if strings.HasPrefix(lower, "/set ") {
		return a.handleSet(c, caption, msg.Photo.FileID)
	}
	if lower == "/set" {
		a.dropUserMessage(c, ttlDefault)
		a.replyHTMLTTL(c, msgSetPhotoCaption, ttlDefault)
	}
	return nil
}
