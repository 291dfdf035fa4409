package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/Re-Date/schooltgbot/core/telegram/helpers"
)

// guardWorkChat confines board mutations to the configured chats. On reject
// it replies, cleans up both messages, and optionally tears down an active
// conversation.
func (a *App) guardWorkChat(c tele.Context, rejectText string, clearState bool) bool {
	chat := c.Chat()
	if chat != nil && a.chats.Allowed(chat.ID) {
		return true
	}
	a.dropUserMessage(c, ttlDefault)
	a.replyTTL(c, rejectText, ttlDefault)
	if clearState {
		a.fsm.Clear(c.Sender().ID)
	}
	return false
}

// guardUnmuted rejects muted users. The reject wording follows the command
// that triggered the check.
func (a *App) guardUnmuted(c tele.Context, rejectText string, clearState bool) bool {
	ctx := tghelpers.BuildContext(c)
	if !a.muted.IsMuted(ctx, c.Sender().ID) {
		return true
	}
	a.dropUserMessage(c, ttlDefault)
	a.replyTTL(c, rejectText, ttlDefault)
	if clearState {
		a.fsm.Clear(c.Sender().ID)
	}
	return false
}

// onAdminReject answers non-admins invoking admin commands.
func (a *App) onAdminReject(c tele.Context) error {
	a.dropUserMessage(c, ttlDefault)
	a.replyTTL(c, msgNoRights, ttlDefault)
	return nil
}
