package bot

import (
	"context"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestAddFlow(t *testing.T) {
	a, log := newTestApp(t)

	menu := groupCtx("")
	menu.cb = &tele.Callback{Unique: cbSetInfo}
	if err := a.cbStartAdd(menu); err != nil {
		t.Fatal(err)
	}
	if got := a.fsm.GetState(testUserID); got != stateAwaitSubject {
		t.Fatalf("state after start = %q", got)
	}
	if !strings.Contains(log.lastText(), "введите название предмета") {
		t.Errorf("subject prompt not sent, last text %q", log.lastText())
	}

	if err := a.flowSubject(groupCtx("Химия")); err != nil {
		t.Fatal(err)
	}
	if got := a.fsm.GetState(testUserID); got != stateAwaitDetails {
		t.Fatalf("state after subject = %q", got)
	}
	if !strings.Contains(log.lastText(), "Химия") {
		t.Errorf("details prompt = %q", log.lastText())
	}

	if err := a.flowDetails(groupCtx("параграф 5, вопросы 1-3")); err != nil {
		t.Fatal(err)
	}
	if a.fsm.InProgress(testUserID) {
		t.Error("conversation still in progress after commit")
	}

	entry, ok := a.board.Get(context.Background(), "химия")
	if !ok {
		t.Fatal("entry not stored")
	}
	if !strings.HasPrefix(entry.Text, "параграф 5, вопросы 1-3") {
		t.Errorf("stored text = %q", entry.Text)
	}
	if !strings.Contains(entry.Text, "пользователем @ivan") {
		t.Errorf("attribution missing: %q", entry.Text)
	}
	if !strings.Contains(log.lastText(), `✅ ДЗ по "Химия" успешно добавлено.`) {
		t.Errorf("confirmation = %q", log.lastText())
	}
}

func TestAddFlowPhotoDetails(t *testing.T) {
	a, log := newTestApp(t)
	a.fsm.SetState(testUserID, stateAwaitDetails)
	a.fsm.SetTemp(testUserID, tempSubject, "физика")

	c := groupCtx("")
	c.msg.Photo = &tele.Photo{File: tele.File{FileID: "ph-9"}}
	if err := a.flowDetails(c); err != nil {
		t.Fatal(err)
	}

	entry, ok := a.board.Get(context.Background(), "физика")
	if !ok {
		t.Fatal("entry not stored")
	}
	if entry.PhotoID != "ph-9" {
		t.Errorf("photo_id = %q", entry.PhotoID)
	}
	if !strings.HasPrefix(entry.Text, "(см. фото)") {
		t.Errorf("placeholder missing: %q", entry.Text)
	}
	if !strings.Contains(log.lastText(), "(с фото)") {
		t.Errorf("confirmation = %q", log.lastText())
	}
}

func TestFlowEmptySubjectKeepsState(t *testing.T) {
	a, log := newTestApp(t)
	a.fsm.SetState(testUserID, stateAwaitSubject)

	if err := a.flowSubject(groupCtx("   ")); err != nil {
		t.Fatal(err)
	}
	if got := a.fsm.GetState(testUserID); got != stateAwaitSubject {
		t.Errorf("state = %q, want unchanged", got)
	}
	if log.lastText() != msgAddSubjectEmpty {
		t.Errorf("reply = %q", log.lastText())
	}
}

func TestFlowWrongChatClearsState(t *testing.T) {
	a, log := newTestApp(t)
	a.fsm.SetState(testUserID, stateAwaitSubject)

	c := groupCtx("химия")
	c.msg.Chat = &tele.Chat{ID: -999, Type: tele.ChatGroup}
	if err := a.flowSubject(c); err != nil {
		t.Fatal(err)
	}
	if a.fsm.InProgress(testUserID) {
		t.Error("state survived wrong-chat rejection")
	}
	if log.lastText() != msgWrongChatFSM {
		t.Errorf("reply = %q", log.lastText())
	}
}

func TestFlowMutedUserClearsState(t *testing.T) {
	a, log := newTestApp(t)
	a.muted.Mute(context.Background(), testUserID)
	a.fsm.SetState(testUserID, stateAwaitDetails)
	a.fsm.SetTemp(testUserID, tempSubject, "химия")

	if err := a.flowDetails(groupCtx("стр. 1")); err != nil {
		t.Fatal(err)
	}
	if a.fsm.InProgress(testUserID) {
		t.Error("state survived mute rejection")
	}
	if log.lastText() != msgMuted {
		t.Errorf("reply = %q", log.lastText())
	}
	if _, ok := a.board.Get(context.Background(), "химия"); ok {
		t.Error("muted user stored an entry")
	}
}

func TestFlowLostSubject(t *testing.T) {
	a, log := newTestApp(t)
	a.fsm.SetState(testUserID, stateAwaitDetails)

	if err := a.flowDetails(groupCtx("стр. 1")); err != nil {
		t.Fatal(err)
	}
	if a.fsm.InProgress(testUserID) {
		t.Error("broken conversation not cleared")
	}
	if log.lastText() != msgAddLostSubject {
		t.Errorf("reply = %q", log.lastText())
	}
}

func TestCancelCallback(t *testing.T) {
	a, log := newTestApp(t)
	a.fsm.SetState(testUserID, stateAwaitSubject)

	c := groupCtx("")
	c.cb = &tele.Callback{Unique: cbCancelAdd}
	if err := a.cbCancelAdd(c); err != nil {
		t.Fatal(err)
	}
	if a.fsm.InProgress(testUserID) {
		t.Error("state survived cancel")
	}
	if log.lastText() != msgAddCancelled {
		t.Errorf("reply = %q", log.lastText())
	}

	if err := a.cbCancelAdd(c); err != nil {
		t.Fatal(err)
	}
	if log.lastText() != msgNoActiveAdd {
		t.Errorf("second cancel reply = %q", log.lastText())
	}
}
