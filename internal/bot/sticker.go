package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/Re-Date/schooltgbot/core/telegram/helpers"
)

// stickerHandler removes stickers from the forbidden pack. Returns nil when
// no pack is configured so the sticker route is not registered at all.
func (a *App) stickerHandler() tele.HandlerFunc {
	forbidden := a.cfg.Bot.ForbiddenStickerSet
	if forbidden == "" {
		return nil
	}
	return func(c tele.Context) error {
		msg := c.Message()
		if msg == nil || msg.Sticker == nil || msg.Sticker.SetName != forbidden {
			return nil
		}
		a.dropUserMessage(c, 0)
		ctx := tghelpers.BuildContext(c)
		a.notifier.Notify(ctx, fmt.Sprintf(
			"Удален стикер из запрещенного стикерпака от пользователя %d (@%s) в чате %d",
			c.Sender().ID, c.Sender().Username, c.Chat().ID))
		return nil
	}
}
