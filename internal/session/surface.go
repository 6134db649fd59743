package session

import "github.com/driima/chat/internal/types"

// Surface is the live representation of a room: the TUI transcript or a
// line printer. Calls arrive with the session lock held, so implementations
// must not call back into the Session.
type Surface interface {
	SetRoom(room types.Room)
	AppendSeparator(label string)
	AppendMessage(view MessageView)
	RemoveMessage(id string)
	// MarkSkipped toggles the skip marker and reports whether the message
	// is present on the surface.
	MarkSkipped(id string, on bool) bool
	ScrollToBottom()
}

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
	NoticeOffline
	NoticeAIReply
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeError:
		return "error"
	case NoticeOffline:
		return "offline"
	case NoticeAIReply:
		return "ai_reply"
	default:
		return "info"
	}
}

// Notice is a transient message for the user.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Notifier shows notices. Same locking rule as Surface.
type Notifier interface {
	Notify(notice Notice)
}

type discardSurface struct{}

func (discardSurface) SetRoom(types.Room)            {}
func (discardSurface) AppendSeparator(string)        {}
func (discardSurface) AppendMessage(MessageView)     {}
func (discardSurface) RemoveMessage(string)          {}
func (discardSurface) MarkSkipped(string, bool) bool { return false }
func (discardSurface) ScrollToBottom()               {}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
