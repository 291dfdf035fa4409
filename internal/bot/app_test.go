package bot

import (
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/Re-Date/schooltgbot/core/telegram/middleware"
	"github.com/Re-Date/schooltgbot/core/telegram/sender"
	"github.com/Re-Date/schooltgbot/core/telegram/state"
	"github.com/Re-Date/schooltgbot/internal/homework"
	"github.com/Re-Date/schooltgbot/internal/storage"
)

const (
	testGroupChat = int64(-100500)
	testUserID    = int64(42)
)

type sentMessage struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

// sentLog records everything the app tried to send. Sends may arrive from a
// dispatcher worker, so access is guarded.
type sentLog struct {
	mu       sync.Mutex
	messages []sentMessage
	nextID   int
}

func (l *sentLog) send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, sentMessage{to: to, what: what, opts: opts})
	l.nextID++
	chatID, _ := strconv.ParseInt(to.Recipient(), 10, 64)
	return &tele.Message{ID: l.nextID, Chat: &tele.Chat{ID: chatID}}, nil
}

func (l *sentLog) texts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, m := range l.messages {
		if s, ok := m.what.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (l *sentLog) lastText() string {
	texts := l.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func newTestApp(t *testing.T) (*App, *sentLog) {
	t.Helper()
	dir := t.TempDir()
	cfg := &Config{
		Bot: BotConfig{
			AllowedChats:  []int64{testGroupChat},
			AdminIDs:      []int64{1},
			TZOffsetHours: 4,
			HelpURL:       "https://example.com/help",
		},
		Storage: StorageConfig{
			Backend:   BackendFile,
			DataFile:  filepath.Join(dir, "board.json"),
			MutedFile: filepath.Join(dir, "muted.json"),
		},
	}

	log := &sentLog{}
	a := &App{
		cfg:      cfg,
		fsm:      state.NewMemoryManager(),
		janitor:  NewJanitor(nil),
		notifier: NewDebugNotifier(nil, 0),
		restart:  func() error { return nil },
		chats: middleware.ChatOptions{
			AllowedChats: cfg.Bot.AllowedChats,
		},
		send: log.send,
	}
	a.board = storage.NewFileBoard(cfg.Storage.DataFile, a.notifier.Notify)
	a.muted = storage.NewFileMuted(cfg.Storage.MutedFile, a.notifier.Notify)
	a.hw = homework.NewService(a.board, cfg.Bot.TZOffsetHours)
	a.registerFlow()
	return a, log
}

// fakeContext implements the subset of tele.Context the handlers touch.
// Untouched methods panic through the embedded nil interface.
type fakeContext struct {
	tele.Context
	msg  *tele.Message
	cb   *tele.Callback
	data map[string]interface{}
}

func (f *fakeContext) Message() *tele.Message   { return f.msg }
func (f *fakeContext) Callback() *tele.Callback { return f.cb }
func (f *fakeContext) Sender() *tele.User       { return f.msg.Sender }
func (f *fakeContext) Chat() *tele.Chat         { return f.msg.Chat }
func (f *fakeContext) Text() string             { return f.msg.Text }
func (f *fakeContext) Update() tele.Update      { return tele.Update{Message: f.msg} }

func (f *fakeContext) Get(key string) interface{} {
	return f.data[key]
}

func (f *fakeContext) Set(key string, v interface{}) {
	if f.data == nil {
		f.data = map[string]interface{}{}
	}
	f.data[key] = v
}

func groupCtx(text string) *fakeContext {
	return &fakeContext{msg: &tele.Message{
		ID:       100,
		Text:     text,
		Sender:   &tele.User{ID: testUserID, Username: "ivan"},
		Chat:     &tele.Chat{ID: testGroupChat, Type: tele.ChatGroup},
		Unixtime: time.Now().Unix(),
	}}
}

func privateCtx(text string) *fakeContext {
	return &fakeContext{msg: &tele.Message{
		ID:       100,
		Text:     text,
		Sender:   &tele.User{ID: testUserID, Username: "ivan"},
		Chat:     &tele.Chat{ID: testUserID, Type: tele.ChatPrivate},
		Unixtime: time.Now().Unix(),
	}}
}

func TestSendGoesThroughDispatcher(t *testing.T) {
	a, log := newTestApp(t)

	delivered := make(chan struct{}, 1)
	base := log.send
	a.send = func(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
		m, err := base(to, what, opts...)
		delivered <- struct{}{}
		return m, err
	}
	a.dispatcher = sender.NewDispatcher(sender.Options{Workers: 1})
	defer a.dispatcher.Close()

	a.sendTTL(tele.ChatID(testGroupChat), "привет", 0)

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("message never left the dispatcher queue")
	}
	if got := log.lastText(); got != "привет" {
		t.Errorf("sent = %q", got)
	}
}

func TestSendTrackedReportsMessage(t *testing.T) {
	a, log := newTestApp(t)

	var got *tele.Message
	a.sendTracked(tele.ChatID(testGroupChat), "запись", 0, func(m *tele.Message) { got = m })

	if got == nil || got.ID == 0 {
		t.Fatal("onSent did not receive the sent message")
	}
	if log.lastText() != "запись" {
		t.Errorf("sent = %q", log.lastText())
	}
}
