package session

import (
	"fmt"
	"time"

	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/types"
)

const (
	replyPreviewLength = 127
	dateLabelLayout    = "Mon Jan 02 2006"
	timeLabelLayout    = "15:04"
)

// PlaceholderDeletedReply is the snippet of a reply whose parent is gone.
const PlaceholderDeletedReply = "Reply to a deleted message"

// Action is a message menu entry. Values double as translation keys.
type Action string

const (
	ActionCopy   Action = "Copy"
	ActionReply  Action = "Reply"
	ActionDelete Action = "Delete"
	ActionHide   Action = "Hide from AI"
)

// ReplySnippet previews a parent message.
type ReplySnippet struct {
	// MessageID is the parent id when it can be jumped to, "" otherwise.
	MessageID  string
	Sender     string
	SenderIsAI bool
	Text       string
	Deleted    bool
}

// String renders the snippet as a single line.
func (s ReplySnippet) String() string {
	if s.Deleted {
		return s.Text
	}
	return s.Sender + ": " + s.Text
}

// MessageView is the projection of one message for a Surface.
type MessageView struct {
	ID         string
	Sender     string
	SenderIsAI bool
	Content    string
	Reply      *ReplySnippet
	Sent       time.Time
	TimeLabel  string
	Actions    []Action
	Owned      bool
	SentByMe   bool
	Skipped    bool
}

// Has reports whether the view offers action.
func (v MessageView) Has(action Action) bool {
	for _, a := range v.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Renderer projects stored messages onto a Surface.
type Renderer struct {
	store   *Store
	skip    *SkipMarker
	surface Surface
	tr      i18n.Translator
	loc     *time.Location

	lastDate string
}

// NewRenderer builds a renderer. A nil loc means time.Local.
func NewRenderer(store *Store, skip *SkipMarker, surface Surface, tr i18n.Translator, loc *time.Location) *Renderer {
	if tr == nil {
		tr = i18n.Identity{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{store: store, skip: skip, surface: surface, tr: tr, loc: loc}
}

// Project builds the view of msg without touching the surface.
func (r *Renderer) Project(msg types.Message) MessageView {
	sent := msg.DateSent.In(r.loc)
	view := MessageView{
		ID:         msg.ID,
		Sender:     msg.SenderName,
		SenderIsAI: i18n.IsAI(msg.SenderName),
		Content:    msg.Text(),
		Sent:       sent,
		TimeLabel:  sent.Format(timeLabelLayout),
		SentByMe:   msg.SentByMe,
		Actions:    []Action{ActionCopy, ActionReply},
	}
	if r.skip != nil && msg.ID == r.skip.Current() {
		view.Skipped = true
	}
	if parent := msg.Parent(); parent != "" {
		snippet := r.ReplySnippet(parent)
		view.Reply = &snippet
	}
	if r.store.ResolveOwnership(msg) {
		view.Owned = true
		view.Actions = append(view.Actions, ActionDelete, ActionHide)
	}
	return view
}

// Append renders msg after the current tail, emitting a date separator when
// the calendar date differs from the last one emitted. Deleted messages are
// not rendered; the return value reports whether msg was appended.
func (r *Renderer) Append(msg types.Message) bool {
	if msg.Deleted() {
		return false
	}
	label := r.DateLabel(msg.DateSent)
	if label != r.lastDate {
		r.lastDate = label
		r.surface.AppendSeparator(label)
	}
	r.surface.AppendMessage(r.Project(msg))
	return true
}

// ReplySnippet previews the stored message id.
func (r *Renderer) ReplySnippet(id string) ReplySnippet {
	msg, ok := r.store.Get(id)
	if !ok {
		return snippetOf(nil, r.tr)
	}
	return snippetOf(&msg, r.tr)
}

// DateLabel formats the local calendar date of ts.
func (r *Renderer) DateLabel(ts types.Timestamp) string {
	return ts.In(r.loc).Format(dateLabelLayout)
}

func snippetOf(msg *types.Message, tr i18n.Translator) ReplySnippet {
	if msg.Deleted() {
		return ReplySnippet{Text: tr.T(PlaceholderDeletedReply), Deleted: true}
	}
	return ReplySnippet{
		MessageID:  msg.ID,
		Sender:     msg.SenderName,
		SenderIsAI: i18n.IsAI(msg.SenderName),
		Text:       truncatePreview(msg.Text()),
	}
}

func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= replyPreviewLength {
		return text
	}
	return fmt.Sprintf("%s...", string(runes[:replyPreviewLength]))
}
