package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tg "github.com/Re-Date/schooltgbot/core/telegram"
	"github.com/Re-Date/schooltgbot/core/telegram/callbacks"
	"github.com/Re-Date/schooltgbot/core/telegram/format"
	tghelpers "github.com/Re-Date/schooltgbot/core/telegram/helpers"
	"github.com/Re-Date/schooltgbot/core/telegram/keyboard"
)

// Callback keys used in inline keyboards.
const (
	cbSetInfo    = "set_info"
	cbDeleteInfo = "delete_info"
	cbList       = "list"
	cbGet        = "get"
	cbCancelAdd  = "cancel_add_hw"
)

func (a *App) registerCallbacks(reg *tg.Registry) error {
	for key, h := range map[string]tele.HandlerFunc{
		cbSetInfo:    a.cbStartAdd,
		cbDeleteInfo: a.cbDeleteHint,
		cbList:       a.cbListSubjects,
		cbGet:        a.cbGetSubject,
		cbCancelAdd:  a.cbCancelAdd,
	} {
		if err := reg.RegisterCallback(key, a.recoverCallback(h)); err != nil {
			return err
		}
	}
	reg.SetCallbackNotFound(func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		a.notifier.Notify(ctx, fmt.Sprintf("Неизвестный callback (%s) от %d", callbacks.CallbackKey(c), c.Sender().ID))
		a.sendTTL(c.Chat(), msgCallbackFailure, 0)
		return nil
	})
	return nil
}

// recoverCallback converts a failed callback handler into the user-facing
// recovery instructions instead of leaving the button dead.
func (a *App) recoverCallback(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		err := h(c)
		if err == nil {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		a.notifier.Notify(ctx, fmt.Sprintf("Ошибка при обработке callback (%s) от %d: %v", callbacks.CallbackKey(c), c.Sender().ID, err))
		a.sendTTL(c.Chat(), msgCallbackFailure, 0)
		return nil
	}
}

// cbStartAdd begins the step-by-step add conversation.
func (a *App) cbStartAdd(c tele.Context) error {
	userID := c.Sender().ID

	// A stale conversation and its prompt go away first.
	a.dropStoredPrompt(userID)
	a.fsm.Clear(userID)
	a.fsm.SetState(userID, stateAwaitSubject)

	a.sendTracked(c.Chat(), msgAddPromptSubject, 0,
		func(m *tele.Message) { a.storePrompt(userID, m) },
		&tele.SendOptions{ParseMode: tele.ModeHTML},
		keyboard.SingleCancelMarkup(cbCancelAdd),
	)
	a.dropUserMessage(c, ttlImmediate)
	return nil
}

// cbDeleteHint explains the /del command.
func (a *App) cbDeleteHint(c tele.Context) error {
	a.sendTTL(c.Chat(), msgDeleteHowTo, ttlHint, &tele.SendOptions{ParseMode: tele.ModeHTML})
	a.dropUserMessage(c, ttlImmediate)
	return nil
}

// cbListSubjects shows one button per stored subject.
func (a *App) cbListSubjects(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	keys := a.board.Keys(ctx)
	if len(keys) == 0 {
		a.sendTTL(c.Chat(), msgListEmpty, ttlDefault)
	} else {
		btns := make([]keyboard.InlineBtn, 0, len(keys))
		for _, key := range keys {
			btns = append(btns, keyboard.InlineBtn{
				Text:   format.Capitalize(key),
				Unique: cbGet,
				Data:   key,
			})
		}
		a.sendTTL(c.Chat(), msgListChoose, ttlDefault, keyboard.InlineButtons(btns))
	}
	a.dropUserMessage(c, ttlDefault)
	return nil
}

// cbGetSubject delivers the homework behind a subject button.
func (a *App) cbGetSubject(c tele.Context) error {
	key := callbacks.CallbackPayload(c)
	ctx := tghelpers.BuildContext(c)

	entry, ok := a.board.Get(ctx, key)
	if !ok {
		a.sendTTL(c.Chat(), fmt.Sprintf("Предмет \"%s\" не найден.", format.Capitalize(key)), ttlDefault)
	} else {
		a.deliverHomework(c, key, entry)
	}

	if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
		a.dropUserMessage(c, ttlImmediate)
	}
	return nil
}

// cbCancelAdd aborts an in-progress add conversation.
func (a *App) cbCancelAdd(c tele.Context) error {
	userID := c.Sender().ID
	if a.fsm.InProgress(userID) {
		a.dropStoredPrompt(userID)
		a.fsm.Clear(userID)
		a.sendTTL(c.Chat(), msgAddCancelled, ttlCancel)
	} else {
		a.sendTTL(c.Chat(), msgNoActiveAdd, ttlCancel)
	}
	a.dropUserMessage(c, ttlImmediate)
	return nil
}
