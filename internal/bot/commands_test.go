package bot

import (
	"context"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/Re-Date/schooltgbot/internal/storage"
)

func TestCmdSet(t *testing.T) {
	a, log := newTestApp(t)

	if err := a.cmdSet(groupCtx("/set математика стр. 42, № 101")); err != nil {
		t.Fatal(err)
	}

	entry, ok := a.board.Get(context.Background(), "математика")
	if !ok {
		t.Fatal("entry not stored")
	}
	if !strings.HasPrefix(entry.Text, "стр. 42, № 101") {
		t.Errorf("stored text = %q", entry.Text)
	}
	if !strings.Contains(log.lastText(), `✅ ДЗ по "Математика" успешно добавлено.`) {
		t.Errorf("confirmation = %q", log.lastText())
	}
}

func TestCmdSetQuotedSubject(t *testing.T) {
	a, _ := newTestApp(t)

	err := a.cmdSet(groupCtx(`/set "изобразительное искусство" нарисовать пейзаж`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.board.Get(context.Background(), "изобразительное искусство"); !ok {
		t.Error("quoted subject not stored")
	}
}

func TestCmdSetValidation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"no args", "/set", msgSetFormat},
		{"unclosed quote", `/set "математика стр. 42`, msgSetQuoteError},
		{"no value", "/set математика", msgDetailsEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, log := newTestApp(t)
			if err := a.cmdSet(groupCtx(tt.text)); err != nil {
				t.Fatal(err)
			}
			if log.lastText() != tt.want {
				t.Errorf("reply = %q, want %q", log.lastText(), tt.want)
			}
		})
	}
}

func TestCmdSetRejectsMuted(t *testing.T) {
	a, log := newTestApp(t)
	a.muted.Mute(context.Background(), testUserID)

	if err := a.cmdSet(groupCtx("/set математика стр. 42")); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgMuted {
		t.Errorf("reply = %q", log.lastText())
	}
	if _, ok := a.board.Get(context.Background(), "математика"); ok {
		t.Error("muted user stored an entry")
	}
}

func TestCmdDelRejectsMuted(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "история", testEntry("параграф 3"))
	a.muted.Mute(context.Background(), testUserID)

	if err := a.cmdDel(groupCtx("/del история")); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgMutedPlain {
		t.Errorf("reply = %q", log.lastText())
	}
	if _, ok := a.board.Get(context.Background(), "история"); !ok {
		t.Error("muted user deleted an entry")
	}
}

func TestCmdSetRejectedOutsideWorkChat(t *testing.T) {
	a, log := newTestApp(t)

	c := groupCtx("/set математика стр. 42")
	c.msg.Chat = &tele.Chat{ID: -999, Type: tele.ChatGroup}
	if err := a.cmdSet(c); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgWrongChat {
		t.Errorf("reply = %q", log.lastText())
	}
	if _, ok := a.board.Get(context.Background(), "математика"); ok {
		t.Error("entry stored from a foreign chat")
	}
}

func TestCmdDelRejectedOutsideWorkChat(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "история", testEntry("параграф 3"))

	c := groupCtx("/del история")
	c.msg.Chat = &tele.Chat{ID: -999, Type: tele.ChatGroup}
	if err := a.cmdDel(c); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgWrongChat {
		t.Errorf("reply = %q", log.lastText())
	}
	if _, ok := a.board.Get(context.Background(), "история"); !ok {
		t.Error("entry deleted from a foreign chat")
	}
}

func TestCmdDel(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "история", testEntry("параграф 3"))

	if err := a.cmdDel(groupCtx(`/del "История"`)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.lastText(), `✅ ДЗ по "История" удалено.`) {
		t.Errorf("reply = %q", log.lastText())
	}
	if _, ok := a.board.Get(context.Background(), "история"); ok {
		t.Error("entry survived /del")
	}

	if err := a.cmdDel(groupCtx("/del история")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.lastText(), `Предмет "История" не найден.`) {
		t.Errorf("reply = %q", log.lastText())
	}
}

func TestMuteUnmute(t *testing.T) {
	a, log := newTestApp(t)
	admin := groupCtx("/mute 777")
	admin.msg.Sender = &tele.User{ID: 1, Username: "admin"}

	if err := a.cmdMute(admin); err != nil {
		t.Fatal(err)
	}
	if !a.muted.IsMuted(context.Background(), 777) {
		t.Error("user not muted")
	}
	if !strings.Contains(log.lastText(), "не может использовать команды /set и /del") {
		t.Errorf("reply = %q", log.lastText())
	}

	admin.msg.Text = "/unmute 777"
	if err := a.cmdUnmute(admin); err != nil {
		t.Fatal(err)
	}
	if a.muted.IsMuted(context.Background(), 777) {
		t.Error("user still muted")
	}
}

func TestMuteBadArgs(t *testing.T) {
	a, log := newTestApp(t)

	if err := a.cmdMute(groupCtx("/mute abc")); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgBadUserID {
		t.Errorf("reply = %q", log.lastText())
	}

	if err := a.cmdMute(groupCtx("/mute")); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgMuteFormat {
		t.Errorf("reply = %q", log.lastText())
	}
}

func TestCmdMsgu(t *testing.T) {
	a, log := newTestApp(t)

	if err := a.cmdMsgu(groupCtx("/msgu -100200 Всем привет")); err != nil {
		t.Fatal(err)
	}
	if len(log.messages) != 2 {
		t.Fatalf("messages sent = %d, want forwarded text plus confirmation", len(log.messages))
	}
	if log.messages[0].to.Recipient() != "-100200" {
		t.Errorf("forward target = %q", log.messages[0].to.Recipient())
	}
	if got := log.messages[0].what.(string); got != "Всем привет" {
		t.Errorf("forwarded text = %q", got)
	}
	if !strings.Contains(log.lastText(), "Сообщение отправлено в группу -100200.") {
		t.Errorf("confirmation = %q", log.lastText())
	}
}

func TestCmdMsguBadGroupID(t *testing.T) {
	a, log := newTestApp(t)

	if err := a.cmdMsgu(groupCtx("/msgu сотка Всем привет")); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgBadGroupID {
		t.Errorf("reply = %q", log.lastText())
	}
	if len(log.messages) != 1 {
		t.Errorf("messages sent = %d, nothing should be forwarded", len(log.messages))
	}
}

func TestCmdStart(t *testing.T) {
	a, log := newTestApp(t)

	if err := a.cmdStart(groupCtx("/start")); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgWelcome {
		t.Fatalf("menu text = %q", log.lastText())
	}

	var markup *tele.ReplyMarkup
	for _, opt := range log.messages[0].opts {
		if m, ok := opt.(*tele.ReplyMarkup); ok {
			markup = m
		}
	}
	if markup == nil {
		t.Fatal("menu markup missing")
	}
	if rows := len(markup.InlineKeyboard); rows != 4 {
		t.Errorf("menu rows = %d, want 4", rows)
	}
}

func TestFreeTextGroupQuery(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "математика", testEntry("стр. 42"))

	if err := a.onFreeText(groupCtx("что задали по математике?")); err != nil {
		t.Fatal(err)
	}
	texts := log.texts()
	if len(texts) != 2 {
		t.Fatalf("sends = %d, want personal copy plus group copy", len(texts))
	}
	for _, text := range texts {
		if !strings.Contains(text, "ДЗ по \"Математика\":\nстр. 42") {
			t.Errorf("delivered text = %q", text)
		}
	}
	if log.messages[0].to.Recipient() != "42" {
		t.Errorf("first copy went to %q, want the asking user", log.messages[0].to.Recipient())
	}
}

func TestFreeTextPrivateQuery(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "математика", testEntry("стр. 42"))

	if err := a.onFreeText(privateCtx("что по матем")); err != nil {
		t.Fatal(err)
	}
	if len(log.messages) != 1 {
		t.Fatalf("sends = %d, want a single personal copy", len(log.messages))
	}
}

func TestFreeTextUnknownSubjectSilent(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "математика", testEntry("стр. 42"))

	if err := a.onFreeText(groupCtx("что задали по физике")); err != nil {
		t.Fatal(err)
	}
	if len(log.messages) != 0 {
		t.Errorf("unexpected sends: %v", log.texts())
	}
}

func TestCbGetSubject(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "химия", testEntry("параграф 7"))

	c := privateCtx("")
	c.cb = &tele.Callback{Unique: cbGet, Data: "химия"}
	if err := a.cbGetSubject(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.lastText(), "ДЗ по \"Химия\":") {
		t.Errorf("delivered = %q", log.lastText())
	}

	c.cb = &tele.Callback{Unique: cbGet, Data: "физика"}
	if err := a.cbGetSubject(c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.lastText(), `Предмет "Физика" не найден.`) {
		t.Errorf("miss reply = %q", log.lastText())
	}
}

func TestCbListSubjects(t *testing.T) {
	a, log := newTestApp(t)

	c := groupCtx("")
	c.cb = &tele.Callback{Unique: cbList}
	if err := a.cbListSubjects(c); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgListEmpty {
		t.Fatalf("empty board reply = %q", log.lastText())
	}

	a.board.Add(context.Background(), "химия", testEntry("п. 7"))
	a.board.Add(context.Background(), "алгебра", testEntry("п. 1"))
	if err := a.cbListSubjects(c); err != nil {
		t.Fatal(err)
	}

	last := log.messages[len(log.messages)-1]
	var markup *tele.ReplyMarkup
	for _, opt := range last.opts {
		if m, ok := opt.(*tele.ReplyMarkup); ok {
			markup = m
		}
	}
	if markup == nil {
		t.Fatal("subject keyboard missing")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("keyboard rows = %d", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].Text; got != "Алгебра" {
		t.Errorf("first button = %q, want alphabetical order", got)
	}
}

func TestPhotoFallbackOnSendFailure(t *testing.T) {
	a, log := newTestApp(t)
	a.board.Add(context.Background(), "химия", testEntry("п. 7"))
	entry, _ := a.board.Get(context.Background(), "химия")
	entry.PhotoID = "broken"
	a.board.Add(context.Background(), "химия", entry)

	failPhotos := func(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
		if _, isPhoto := what.(*tele.Photo); isPhoto {
			return nil, &tele.Error{Code: 400, Description: "wrong file identifier"}
		}
		return log.send(to, what, opts...)
	}
	a.send = failPhotos

	a.deliverHomework(privateCtx(""), "химия", entry)
	if !strings.Contains(log.lastText(), "(Не удалось загрузить фото)") {
		t.Errorf("fallback text = %q", log.lastText())
	}
}

func testEntry(text string) storage.Entry {
	return storage.Entry{Text: text}
}
