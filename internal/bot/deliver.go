package bot

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/Re-Date/schooltgbot/core/telegram/helpers"
	"github.com/Re-Date/schooltgbot/internal/homework"
	"github.com/Re-Date/schooltgbot/internal/storage"
)

// deliverHomework sends homework to whoever asked. Private chats get a
// single message. Group requests get a personal copy plus an ephemeral group
// copy so the chat stays readable.
func (a *App) deliverHomework(c tele.Context, key string, e storage.Entry) {
	full := homework.Render(key, e)
	userID := c.Sender().ID
	chat := c.Chat()

	private := chat == nil || chat.Type == tele.ChatPrivate || chat.ID == userID
	if private {
		a.sendHomework(c, tele.ChatID(userID), key, e, full, 0)
		return
	}

	a.sendHomework(c, tele.ChatID(userID), key, e, full, 0)
	a.sendHomework(c, chat, key, e, full, ttlDefault)
}

// sendHomework sends one homework copy, falling back to plain text when the
// stored photo cannot be delivered.
func (a *App) sendHomework(c tele.Context, to tele.Recipient, key string, e storage.Entry, full string, ttl time.Duration) {
	if !e.HasPhoto() {
		a.sendTTL(to, full, ttl)
		return
	}

	photo := &tele.Photo{
		File:    tele.File{FileID: e.PhotoID},
		Caption: full,
	}
	msg, err := a.send(to, photo)
	if err == nil {
		if ttl > 0 {
			a.janitor.ScheduleMessage(msg, ttl)
		}
		return
	}

	ctx := tghelpers.BuildContext(c)
	a.notifier.Notify(ctx, fmt.Sprintf(
		"Ошибка отправки фото ДЗ для '%s': %v. Отправляю текстом.", key, err))
	a.sendTTL(to, full+"\n\n"+homework.PhotoFallback, ttl)
}
