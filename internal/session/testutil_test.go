package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/driima/chat/internal/api"
	"github.com/driima/chat/internal/types"
)

var baseTime = time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)

func strPtr(value string) *string {
	return &value
}

func at(seconds int) types.Timestamp {
	return types.NewTimestamp(baseTime.Add(time.Duration(seconds) * time.Second))
}

func msg(id, sender, content string, seconds int) types.Message {
	return types.Message{
		ID:         id,
		RoomID:     1,
		SenderName: sender,
		Content:    strPtr(content),
		DateSent:   at(seconds),
	}
}

func reply(id, parent, sender, content string, seconds int) types.Message {
	m := msg(id, sender, content, seconds)
	m.ParentID = strPtr(parent)
	return m
}

func mine(m types.Message) types.Message {
	m.SentByMe = true
	return m
}

func deleted(m types.Message) types.Message {
	m.Content = nil
	return m
}

func transportErr() error {
	return &api.TransportError{Op: "GET /api/room/messages", Err: errors.New("connection refused")}
}

func appErr(status int) error {
	return &api.APIError{Status: status, Title: "Problem", Detail: fmt.Sprintf("status %d", status)}
}

type surfaceEvent struct {
	kind string
	id   string
	on   bool
}

type fakeSurface struct {
	mu       sync.Mutex
	rooms    []types.Room
	events   []surfaceEvent
	views    map[string]MessageView
	present  map[string]bool
	scrolled int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{views: make(map[string]MessageView), present: make(map[string]bool)}
}

func (f *fakeSurface) SetRoom(room types.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, room)
}

func (f *fakeSurface) AppendSeparator(label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, surfaceEvent{kind: "separator", id: label})
}

func (f *fakeSurface) AppendMessage(view MessageView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, surfaceEvent{kind: "message", id: view.ID})
	f.views[view.ID] = view
	f.present[view.ID] = true
}

func (f *fakeSurface) RemoveMessage(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, surfaceEvent{kind: "remove", id: id})
	delete(f.present, id)
}

func (f *fakeSurface) MarkSkipped(id string, on bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, surfaceEvent{kind: "mark", id: id, on: on})
	return f.present[id]
}

func (f *fakeSurface) ScrollToBottom() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolled++
}

func (f *fakeSurface) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeSurface) messageIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, ev := range f.events {
		if ev.kind == "message" {
			ids = append(ids, ev.id)
		}
	}
	return ids
}

func (f *fakeSurface) view(id string) (MessageView, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.views[id]
	return v, ok
}

func (f *fakeSurface) isPresent(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.present[id]
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (f *fakeNotifier) Notify(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

func (f *fakeNotifier) count(kind NoticeKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, notice := range f.notices {
		if notice.Kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeNotifier) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.notices))
	for _, notice := range f.notices {
		out = append(out, notice.Text)
	}
	return out
}

func (f *fakeNotifier) has(text string) bool {
	for _, t := range f.texts() {
		if t == text {
			return true
		}
	}
	return false
}

type pollResult struct {
	page types.MessagePage
	err  error
}

type fakeClient struct {
	mu      sync.Mutex
	polls   []pollResult
	since   []types.Timestamp
	sent    []types.SendRequest
	sendErr error
	busy    bool
	deleted []string
	hidden  []string
	joined  int
	actErr  error
}

func (c *fakeClient) queue(page types.MessagePage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polls = append(c.polls, pollResult{page: page, err: err})
}

func (c *fakeClient) RoomMessages(_ context.Context, _ types.RoomSelector, since types.Timestamp) (types.MessagePage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.since = append(c.since, since)
	if len(c.polls) == 0 {
		return types.MessagePage{Room: types.Room{ID: 1, Name: "General", Joined: true}}, nil
	}
	next := c.polls[0]
	c.polls = c.polls[1:]
	return next.page, next.err
}

func (c *fakeClient) SendMessage(_ context.Context, req types.SendRequest) (types.SendResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, req)
	if c.sendErr != nil {
		return types.SendResult{}, c.sendErr
	}
	return types.SendResult{AIIsBusy: c.busy}, nil
}

func (c *fakeClient) DeleteMessage(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.actErr != nil {
		return c.actErr
	}
	c.deleted = append(c.deleted, id)
	return nil
}

func (c *fakeClient) HideFromAI(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.actErr != nil {
		return c.actErr
	}
	c.hidden = append(c.hidden, id)
	return nil
}

func (c *fakeClient) JoinRoom(context.Context, types.RoomSelector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.actErr != nil {
		return c.actErr
	}
	c.joined++
	return nil
}

func (c *fakeClient) lastSince() types.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.since) == 0 {
		return types.Timestamp{}
	}
	return c.since[len(c.since)-1]
}

type fakeInput struct {
	value   string
	focused int
}

func (f *fakeInput) Value() string         { return f.value }
func (f *fakeInput) SetValue(value string) { f.value = value }
func (f *fakeInput) Focus()                { f.focused++ }

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type memoryCache struct {
	pages      map[int64]types.MessagePage
	tombstoned []string
}

func (c *memoryCache) LoadRoom(roomID int64) (types.MessagePage, bool, error) {
	page, ok := c.pages[roomID]
	return page, ok, nil
}

func (c *memoryCache) SaveRoom(page types.MessagePage) error {
	if c.pages == nil {
		c.pages = make(map[int64]types.MessagePage)
	}
	existing := c.pages[page.Room.ID]
	existing.Room = page.Room
	existing.Messages = append(existing.Messages, page.Messages...)
	c.pages[page.Room.ID] = existing
	return nil
}

func (c *memoryCache) TombstoneMessage(_ int64, id string) error {
	c.tombstoned = append(c.tombstoned, id)
	return nil
}

func page(room types.Room, messages ...types.Message) types.MessagePage {
	return types.MessagePage{Room: room, Messages: messages}
}

func joinedRoom() types.Room {
	return types.Room{ID: 1, Name: "General", Joined: true}
}

func openManual(t *testing.T, client *fakeClient, opts Options) *Session {
	t.Helper()
	opts.Selector = types.RoomSelector{RoomID: 1}
	opts.Client = client
	opts.Manual = true
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s, err := Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}
