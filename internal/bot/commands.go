package bot

import (
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/Re-Date/schooltgbot/core/telegram"
	"github.com/Re-Date/schooltgbot/core/telegram/commands"
	"github.com/Re-Date/schooltgbot/core/telegram/format"
	tghelpers "github.com/Re-Date/schooltgbot/core/telegram/helpers"
	"github.com/Re-Date/schooltgbot/core/telegram/keyboard"
	"github.com/Re-Date/schooltgbot/internal/homework"
)

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.cmdStart,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/set", commands.Command{
		Handler:     a.cmdSet,
		Description: "Добавить ДЗ: /set предмет текст",
	})
	reg.RegisterCommand("/del", commands.Command{
		Handler:     a.cmdDel,
		Description: "Удалить ДЗ: /del предмет",
	})
	reg.RegisterCommand("/mute", commands.Command{
		Handler:     a.cmdMute,
		Description: "Заглушить пользователя",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/unmute", commands.Command{
		Handler:     a.cmdUnmute,
		Description: "Разглушить пользователя",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/msgu", commands.Command{
		Handler:     a.cmdMsgu,
		Description: "Отправить сообщение в чат по ID",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/restart", commands.Command{
		Handler:     a.cmdRestart,
		Description: "Перезапустить бота",
		AdminOnly:   true,
	})
}

func (a *App) mainMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Добавить ДЗ", Unique: cbSetInfo},
		{Text: "Удалить ДЗ", Unique: cbDeleteInfo},
		{Text: "Показать список ДЗ", Unique: cbList},
		{Text: "Что-то не понятно?", URL: a.cfg.Bot.HelpURL},
	})
}

func (a *App) cmdStart(c tele.Context) error {
	a.dropUserMessage(c, ttlImmediate)
	a.sendTTL(c.Chat(), msgWelcome, ttlMenu, a.mainMenu())
	return nil
}

func (a *App) cmdSet(c tele.Context) error {
	return a.handleSet(c, c.Text(), "")
}

// handleSet serves both the text command and a photo whose caption carries
// the command.
func (a *App) handleSet(c tele.Context, commandText, photoID string) error {
	if !a.guardUnmuted(c, msgMuted, false) {
		return nil
	}
	if !a.guardWorkChat(c, msgWrongChat, false) {
		return nil
	}

	argsLine, ok := splitCommandArgs(commandText)
	if !ok {
		a.dropUserMessage(c, ttlDefault)
		a.replyHTMLTTL(c, msgSetFormat, ttlDefault)
		return nil
	}

	subject, value, err := parseSubjectValue(argsLine)
	if err != nil {
		a.dropUserMessage(c, ttlDefault)
		a.replyHTMLTTL(c, msgSetQuoteError, ttlDefault)
		return nil
	}
	if subject == "" {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgSubjectEmpty, ttlDefault)
		return nil
	}
	if value == "" && photoID == "" {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgDetailsEmpty, ttlDefault)
		return nil
	}

	a.commitHomework(c, subject, value, photoID)
	a.dropUserMessage(c, ttlDefault)
	return nil
}

// commitHomework stores the entry and sends a short-lived confirmation.
func (a *App) commitHomework(c tele.Context, subject, text, photoID string) {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	a.hw.Commit(ctx, subject, text, photoID, messageTime(c), authorOf(sender))

	reply := fmt.Sprintf("✅ ДЗ по \"%s\" успешно добавлено.", format.Capitalize(subject))
	if photoID != "" {
		reply += " (с фото)"
	}
	a.sendTTL(c.Chat(), reply, ttlConfirm)
}

func (a *App) cmdDel(c tele.Context) error {
	if !a.guardUnmuted(c, msgMutedPlain, false) {
		return nil
	}
	if !a.guardWorkChat(c, msgWrongChat, false) {
		return nil
	}

	argsLine, ok := splitCommandArgs(c.Text())
	if !ok {
		a.dropUserMessage(c, ttlDefault)
		a.replyHTMLTTL(c, msgDelFormat, ttlDefault)
		return nil
	}
	key := parseSubjectKey(argsLine)
	if key == "" {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgDelKeyEmpty, ttlDefault)
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	var reply string
	if a.board.Delete(ctx, key) {
		reply = fmt.Sprintf("✅ ДЗ по \"%s\" удалено.", format.Capitalize(key))
	} else {
		reply = fmt.Sprintf("Предмет \"%s\" не найден.", format.Capitalize(key))
	}
	a.dropUserMessage(c, ttlDefault)
	a.replyTTL(c, reply, ttlConfirm)
	return nil
}

func (a *App) cmdMute(c tele.Context) error {
	return a.setMuteState(c, true)
}

func (a *App) cmdUnmute(c tele.Context) error {
	return a.setMuteState(c, false)
}

func (a *App) setMuteState(c tele.Context, mute bool) error {
	a.dropUserMessage(c, ttlDefault)

	formatMsg := msgMuteFormat
	if !mute {
		formatMsg = msgUnmuteFormat
	}
	argsLine, ok := splitCommandArgs(c.Text())
	if !ok {
		a.replyHTMLTTL(c, formatMsg, ttlDefault)
		return nil
	}
	target, err := strconv.ParseInt(argsLine, 10, 64)
	if err != nil {
		a.replyTTL(c, msgBadUserID, ttlDefault)
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	var reply, event string
	if mute {
		a.muted.Mute(ctx, target)
		reply = fmt.Sprintf("🚫 Пользователь с ID <code>%d</code> теперь не может использовать команды /set и /del.", target)
		event = "Администратор %d заглушил пользователя %d"
	} else {
		a.muted.Unmute(ctx, target)
		reply = fmt.Sprintf("✅ Пользователь с ID <code>%d</code> теперь может использовать команды /set и /del.", target)
		event = "Администратор %d разглушил пользователя %d"
	}
	a.notifier.Notify(ctx, fmt.Sprintf(event, c.Sender().ID, target))
	a.replyHTMLTTL(c, reply, ttlMuteNote)
	return nil
}

func (a *App) cmdMsgu(c tele.Context) error {
	argsLine, ok := splitCommandArgs(c.Text())
	if !ok {
		a.dropUserMessage(c, ttlDefault)
		a.replyHTMLTTL(c, msgMsguFormat, ttlDefault)
		return nil
	}
	idStr, text, _ := parseSubjectValue(argsLine)
	if idStr == "" || text == "" {
		a.dropUserMessage(c, ttlDefault)
		a.replyHTMLTTL(c, msgMsguFormat, ttlDefault)
		return nil
	}
	groupID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgBadGroupID, ttlDefault)
		return nil
	}

	if _, err := a.send(tele.ChatID(groupID), text); err != nil {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, fmt.Sprintf("Ошибка при отправке сообщения: %v", err), ttlDefault)
		ctx := tghelpers.BuildContext(c)
		a.notifier.Notify(ctx, fmt.Sprintf("Ошибка в /msgu: %v", err))
		return nil
	}
	a.dropUserMessage(c, ttlDefault)
	a.replyTTL(c, fmt.Sprintf("Сообщение отправлено в группу %d.", groupID), ttlDefault)
	return nil
}

func (a *App) cmdRestart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	a.notifier.Notify(ctx, fmt.Sprintf("Администратор %d инициировал перезапуск бота", c.Sender().ID))
	a.replyTTL(c, msgRestarting, ttlDefault)
	a.dropUserMessage(c, ttlDefault)

	// Give the confirmation a moment to leave the queue.
	time.Sleep(time.Second)
	return a.restart()
}

func messageTime(c tele.Context) time.Time {
	if m := c.Message(); m != nil && m.Unixtime > 0 {
		return time.Unix(m.Unixtime, 0)
	}
	return time.Now()
}

func authorOf(u *tele.User) homework.Author {
	if u == nil {
		return homework.Author{}
	}
	return homework.Author{ID: u.ID, Username: u.Username}
}
