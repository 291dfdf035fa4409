package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Re-Date/schooltgbot/core/logger"
	"github.com/Re-Date/schooltgbot/core/telegram/format"
	"github.com/Re-Date/schooltgbot/core/telegram/keyboard"
	"github.com/Re-Date/schooltgbot/core/telegram/state"
	"log/slog"
)

// Conversation states of the step-by-step add flow.
const (
	stateAwaitSubject state.State = "hw_add_subject"
	stateAwaitDetails state.State = "hw_add_details"
)

// Session temp keys.
const (
	tempSubject     = "hw_subject"
	tempPromptChat  = "hw_prompt_chat"
	tempPromptMsgID = "hw_prompt_msg_id"
)

func (a *App) registerFlow() {
	state.RegisterHandler(stateAwaitSubject, a.flowSubject)
	state.RegisterHandler(stateAwaitDetails, a.flowDetails)
}

// storePrompt remembers the bot's prompt message so the next step can remove it.
func (a *App) storePrompt(userID int64, msg *tele.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	a.fsm.SetTemp(userID, tempPromptChat, msg.Chat.ID)
	a.fsm.SetTemp(userID, tempPromptMsgID, int64(msg.ID))
}

// dropStoredPrompt deletes the remembered prompt message, if any.
func (a *App) dropStoredPrompt(userID int64) {
	chatID, ok1 := a.fsm.GetTempInt64(userID, tempPromptChat)
	msgID, ok2 := a.fsm.GetTempInt64(userID, tempPromptMsgID)
	if !ok1 || !ok2 {
		return
	}
	a.janitor.Schedule(chatID, int(msgID), ttlImmediate)
	a.fsm.ClearTemp(userID, tempPromptChat)
	a.fsm.ClearTemp(userID, tempPromptMsgID)
}

// flowSubject handles the subject name entered after "Добавить ДЗ".
func (a *App) flowSubject(c tele.Context) error {
	if !a.guardWorkChat(c, msgWrongChatFSM, true) {
		return nil
	}
	if !a.guardUnmuted(c, msgMuted, true) {
		return nil
	}

	userID := c.Sender().ID
	subject := strings.TrimSpace(c.Text())
	if subject == "" {
		// The user stays in this state until a usable name arrives.
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgAddSubjectEmpty, ttlConfirm)
		return nil
	}

	a.dropStoredPrompt(userID)
	a.fsm.SetTemp(userID, tempSubject, subject)
	a.fsm.SetState(userID, stateAwaitDetails)
	logger.FSM.Debug("flow advanced",
		slog.String("event", "fsm.step"),
		slog.Int64("user_id", userID),
		slog.String("state", string(stateAwaitDetails)),
		slog.String("subject", subject),
	)

	prompt := fmt.Sprintf(
		"Отлично, предмет <b>'%s'</b>.\nТеперь <b>отправьте само домашнее задание</b>. Это может быть:\n\n"+
			"- <b>Текст</b>\n"+
			"- <b>Фото с подписью</b> (подпись будет текстом ДЗ)",
		format.Capitalize(subject),
	)
	a.sendTracked(c.Chat(), prompt, 0,
		func(m *tele.Message) { a.storePrompt(userID, m) },
		&tele.SendOptions{ParseMode: tele.ModeHTML},
		keyboard.SingleCancelMarkup(cbCancelAdd),
	)
	a.dropUserMessage(c, ttlImmediate)
	return nil
}

// flowDetails handles the homework body, either text or a photo with caption.
func (a *App) flowDetails(c tele.Context) error {
	if !a.guardWorkChat(c, msgWrongChatFSM, true) {
		return nil
	}
	if !a.guardUnmuted(c, msgMuted, true) {
		return nil
	}

	userID := c.Sender().ID
	subject, ok := a.fsm.GetTempString(userID, tempSubject)
	if !ok || subject == "" {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgAddLostSubject, ttlDefault)
		a.fsm.Clear(userID)
		return nil
	}

	var text, photoID string
	msg := c.Message()
	if msg != nil && msg.Photo != nil {
		photoID = msg.Photo.FileID
		text = strings.TrimSpace(msg.Caption)
	} else {
		text = strings.TrimSpace(c.Text())
	}

	if text == "" && photoID == "" {
		a.dropUserMessage(c, ttlDefault)
		a.replyTTL(c, msgAddDetailsEmpty, ttlConfirm)
		return nil
	}

	a.dropStoredPrompt(userID)
	a.commitHomework(c, subject, text, photoID)
	a.dropUserMessage(c, ttlImmediate)
	a.fsm.Clear(userID)
	logger.FSM.Debug("flow finished",
		slog.String("event", "fsm.done"),
		slog.Int64("user_id", userID),
		slog.String("subject", subject),
	)
	return nil
}
