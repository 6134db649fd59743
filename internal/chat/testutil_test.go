package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/driima/chat/internal/markdown"
	"github.com/driima/chat/internal/types"
)

var baseTime = time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)

func strPtr(value string) *string {
	return &value
}

func chatMessage(id, sender, content string, seconds int) types.Message {
	return types.Message{
		ID:         id,
		RoomID:     7,
		SenderName: sender,
		Content:    strPtr(content),
		DateSent:   types.NewTimestamp(baseTime.Add(time.Duration(seconds) * time.Second)),
	}
}

type fakeClient struct {
	mu      sync.Mutex
	pages   []types.MessagePage
	rooms   []types.RoomSummary
	sent    []types.SendRequest
	deleted []string
	hidden  []string
	joined  int
}

func (f *fakeClient) RoomMessages(_ context.Context, sel types.RoomSelector, _ types.Timestamp) (types.MessagePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pages) == 0 {
		return types.MessagePage{Room: types.Room{ID: sel.RoomID, Joined: true}, Messages: []types.Message{}}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeClient) SendMessage(_ context.Context, req types.SendRequest) (types.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return types.SendResult{ID: "sent"}, nil
}

func (f *fakeClient) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClient) HideFromAI(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = append(f.hidden, id)
	return nil
}

func (f *fakeClient) JoinRoom(context.Context, types.RoomSelector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined++
	return nil
}

func (f *fakeClient) Rooms(context.Context) ([]types.RoomSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms, nil
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	return nil
}

func newTestModel(t *testing.T, client *fakeClient) *Model {
	t.Helper()
	m, err := NewModel(context.Background(), Options{
		Client:    client,
		Clipboard: &fakeClipboard{},
		Markdown:  markdown.New("notty"),
		location:  time.UTC,
		manual:    true,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

// openTestRoom opens roomID and applies the resulting roomOpenedMsg.
func openTestRoom(t *testing.T, m *Model, roomID int64) {
	t.Helper()
	batch, ok := m.openRoom(types.RoomSelector{RoomID: roomID})().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected a batch of commands from openRoom")
	}
	opened, ok := batch[0]().(roomOpenedMsg)
	if !ok {
		t.Fatalf("expected roomOpenedMsg from the first command")
	}
	if opened.err != nil {
		t.Fatalf("open room: %v", opened.err)
	}
	m.Update(opened)
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
