package command

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/driima/chat/internal/chat"
	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/logger"
	"github.com/driima/chat/internal/markdown"
	"github.com/driima/chat/internal/session"
	"github.com/driima/chat/internal/types"
)

// linePrinter is a session surface that writes one line per event, as text
// or as JSON objects. A quiet printer only reports notices.
type linePrinter struct {
	mu      sync.Mutex
	out     io.Writer
	notices io.Writer
	json    bool
	quiet   bool
	tr      i18n.Translator
	// alerter, when set, also raises AI replies as desktop notifications.
	alerter chat.Alerter

	room types.Room
	seen map[string]bool
}

func newLinePrinter(out, notices io.Writer, jsonMode bool, tr i18n.Translator) *linePrinter {
	if tr == nil {
		tr = i18n.Identity{}
	}
	return &linePrinter{out: out, notices: notices, json: jsonMode, tr: tr, seen: make(map[string]bool)}
}

type printedEvent struct {
	Event   string      `json:"event"`
	Room    *types.Room `json:"room,omitempty"`
	ID      string      `json:"id,omitempty"`
	Sender  string      `json:"sender,omitempty"`
	Content string      `json:"content,omitempty"`
	ReplyTo string      `json:"reply_to,omitempty"`
	Sent    *time.Time  `json:"sent,omitempty"`
	Mine    bool        `json:"mine,omitempty"`
	Skipped bool        `json:"skipped,omitempty"`
	Label   string      `json:"label,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Text    string      `json:"text,omitempty"`
}

func (p *linePrinter) emit(event printedEvent) {
	_ = json.NewEncoder(p.out).Encode(event)
}

func (p *linePrinter) SetRoom(room types.Room) {
	p.mu.Lock()
	defer p.mu.Unlock()
	changed := room.Name != p.room.Name || room.Joined != p.room.Joined
	p.room = room
	if !changed || p.quiet {
		return
	}
	if p.json {
		p.emit(printedEvent{Event: "room", Room: &room})
		return
	}
	line := "# " + room.Name
	if !room.Joined {
		line += " (" + p.tr.T("Join this group") + ")"
	}
	fmt.Fprintln(p.out, line)
}

func (p *linePrinter) AppendSeparator(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	if p.json {
		p.emit(printedEvent{Event: "date", Label: label})
		return
	}
	fmt.Fprintf(p.out, "-- %s --\n", label)
}

func (p *linePrinter) AppendMessage(view session.MessageView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[view.ID] = true
	if p.quiet {
		return
	}

	if p.json {
		sent := view.Sent
		event := printedEvent{
			Event:   "message",
			ID:      view.ID,
			Sender:  view.Sender,
			Content: view.Content,
			Sent:    &sent,
			Mine:    view.Owned,
			Skipped: view.Skipped,
		}
		if view.Reply != nil {
			event.ReplyTo = view.Reply.MessageID
		}
		p.emit(event)
		return
	}

	if view.Reply != nil {
		fmt.Fprintf(p.out, "  ↪ %s\n", view.Reply.String())
	}
	body := strings.ReplaceAll(strings.TrimSpace(markdown.Sanitize(view.Content)), "\n", "\n    ")
	fmt.Fprintf(p.out, "[%s] %s: %s  (%s)\n", view.TimeLabel, view.Sender, body, view.ID)
	if view.Skipped {
		p.printMarker()
	}
}

func (p *linePrinter) RemoveMessage(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.seen[id] {
		return
	}
	delete(p.seen, id)
	if p.quiet {
		return
	}
	if p.json {
		p.emit(printedEvent{Event: "deleted", ID: id})
		return
	}
	fmt.Fprintf(p.out, "(%s: %s)\n", p.tr.T("Message deleted"), id)
}

func (p *linePrinter) MarkSkipped(id string, on bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.seen[id] {
		return false
	}
	if on && !p.quiet {
		if p.json {
			p.emit(printedEvent{Event: "skipped", ID: id})
		} else {
			p.printMarker()
		}
	}
	return true
}

func (p *linePrinter) printMarker() {
	fmt.Fprintf(p.out, "  ---- %s ----\n", p.tr.T("Messages up to here are hidden from AI"))
}

func (p *linePrinter) ScrollToBottom() {}

func (p *linePrinter) Notify(notice session.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if notice.Kind == session.NoticeAIReply && p.alerter != nil {
		go func(alerter chat.Alerter, room string) {
			if err := alerter.Alert(room, notice.Text); err != nil {
				logger.Named("command").WithError(err).Debug("desktop notification failed")
			}
		}(p.alerter, p.room.Name)
	}
	if p.json && !p.quiet {
		p.emit(printedEvent{Event: "notice", Kind: notice.Kind.String(), Text: notice.Text})
		return
	}
	failure := notice.Kind == session.NoticeError || notice.Kind == session.NoticeOffline
	// Quiet printers belong to one-shot commands, which return the error.
	if p.notices == nil || (failure && p.quiet) {
		return
	}
	prefix := "»"
	if failure {
		prefix = "!"
	}
	fmt.Fprintf(p.notices, "%s %s\n", prefix, notice.Text)
}
