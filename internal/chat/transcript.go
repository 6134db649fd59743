package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/driima/chat/internal/logger"
	"github.com/driima/chat/internal/session"
	"github.com/driima/chat/internal/types"
)

type entryKind int

const (
	entrySeparator entryKind = iota
	entryMessage
)

type entry struct {
	kind  entryKind
	label string
	view  session.MessageView
}

// Transcript is the session.Surface and session.Notifier of the chat UI.
// Sessions write to it from their own goroutines; the UI reads snapshots
// after being woken through wait.
type Transcript struct {
	mu        sync.Mutex
	room      types.Room
	entries   []entry
	notice    session.Notice
	noticeSeq uint64
	scroll    bool
	alerter   Alerter

	// changed holds at most one pending wake-up.
	changed   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewTranscript returns an empty transcript. alerter may be nil.
func NewTranscript(alerter Alerter) *Transcript {
	return &Transcript{
		alerter: alerter,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

type transcriptMsg struct {
	transcript *Transcript
}

// wait blocks until the transcript changes or is closed.
func (t *Transcript) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-t.changed:
			return transcriptMsg{transcript: t}
		case <-t.done:
			return nil
		}
	}
}

// Close releases a pending wait.
func (t *Transcript) Close() {
	t.closeOnce.Do(func() { close(t.done) })
}

func (t *Transcript) signal() {
	select {
	case t.changed <- struct{}{}:
	default:
	}
}

func (t *Transcript) SetRoom(room types.Room) {
	t.mu.Lock()
	t.room = room
	t.mu.Unlock()
	t.signal()
}

func (t *Transcript) AppendSeparator(label string) {
	t.mu.Lock()
	t.entries = append(t.entries, entry{kind: entrySeparator, label: label})
	t.mu.Unlock()
	t.signal()
}

func (t *Transcript) AppendMessage(view session.MessageView) {
	t.mu.Lock()
	t.entries = append(t.entries, entry{kind: entryMessage, view: view})
	t.mu.Unlock()
	t.signal()
}

// RemoveMessage drops a message. A date separator left with no messages
// before the next separator goes with it.
func (t *Transcript) RemoveMessage(id string) {
	t.mu.Lock()
	idx := t.indexLocked(id)
	if idx < 0 {
		t.mu.Unlock()
		return
	}
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	if idx > 0 && idx < len(t.entries) &&
		t.entries[idx-1].kind == entrySeparator && t.entries[idx].kind == entrySeparator {
		t.entries = append(t.entries[:idx-1], t.entries[idx:]...)
	}
	t.mu.Unlock()
	t.signal()
}

func (t *Transcript) MarkSkipped(id string, on bool) bool {
	t.mu.Lock()
	idx := t.indexLocked(id)
	if idx >= 0 {
		t.entries[idx].view.Skipped = on
	}
	t.mu.Unlock()
	if idx < 0 {
		return false
	}
	t.signal()
	return true
}

func (t *Transcript) ScrollToBottom() {
	t.mu.Lock()
	t.scroll = true
	t.mu.Unlock()
	t.signal()
}

// Notify records the latest notice. AI replies also raise a desktop
// notification when an alerter is configured.
func (t *Transcript) Notify(notice session.Notice) {
	t.mu.Lock()
	t.notice = notice
	t.noticeSeq++
	alerter, room := t.alerter, t.room.Name
	t.mu.Unlock()

	if notice.Kind == session.NoticeAIReply && alerter != nil {
		go func() {
			if err := alerter.Alert(room, notice.Text); err != nil {
				logger.Named("chat").WithError(err).Debug("desktop notification failed")
			}
		}()
	}
	t.signal()
}

func (t *Transcript) indexLocked(id string) int {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].kind == entryMessage && t.entries[i].view.ID == id {
			return i
		}
	}
	return -1
}

type snapshot struct {
	room      types.Room
	entries   []entry
	notice    session.Notice
	noticeSeq uint64
	scroll    bool
}

// snapshot copies the transcript and consumes the pending scroll request.
func (t *Transcript) snapshot() snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := snapshot{
		room:      t.room,
		entries:   append([]entry(nil), t.entries...),
		notice:    t.notice,
		noticeSeq: t.noticeSeq,
		scroll:    t.scroll,
	}
	t.scroll = false
	return snap
}
