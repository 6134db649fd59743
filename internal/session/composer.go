package session

import (
	"strings"

	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/types"
)

// Input is the message entry field.
type Input interface {
	Value() string
	SetValue(value string)
	Focus()
}

// Composer holds the reply target of the message being written.
type Composer struct {
	input   Input
	tr      i18n.Translator
	target  string
	preview ReplySnippet
}

// NewComposer returns a composer with no target. input may be nil for
// non-interactive use.
func NewComposer(input Input, tr i18n.Translator) *Composer {
	if tr == nil {
		tr = i18n.Identity{}
	}
	return &Composer{input: input, tr: tr}
}

// Begin targets msg. Replies to AI messages start with an @mention when the
// input is empty.
func (c *Composer) Begin(msg types.Message, joined bool) error {
	if !joined {
		return ErrNotJoined
	}
	c.target = msg.ID
	c.preview = snippetOf(&msg, c.tr)
	if c.input == nil {
		return nil
	}
	if c.input.Value() == "" && i18n.IsAI(msg.SenderName) {
		c.input.SetValue("@" + c.tr.T(msg.SenderName) + " ")
	}
	c.input.Focus()
	return nil
}

// Cancel clears the target and its preview.
func (c *Composer) Cancel() {
	c.target = ""
	c.preview = ReplySnippet{}
}

// Target returns the reply target id, or "".
func (c *Composer) Target() string {
	return c.target
}

// Preview returns the target preview while a reply is in progress.
func (c *Composer) Preview() (ReplySnippet, bool) {
	if c.target == "" {
		return ReplySnippet{}, false
	}
	return c.preview, true
}

// Invalidate swaps the preview for the deleted placeholder when id is the target.
func (c *Composer) Invalidate(id string) {
	if id == "" || id != c.target {
		return
	}
	c.preview = snippetOf(nil, c.tr)
}

// BuildSendPayload returns the send request for text, or false for blank text.
func (c *Composer) BuildSendPayload(roomID int64, text string) (types.SendRequest, bool) {
	content := strings.TrimSpace(text)
	if content == "" {
		return types.SendRequest{}, false
	}
	req := types.SendRequest{RoomID: roomID, Content: content}
	if c.target != "" {
		target := c.target
		req.ParentID = &target
	}
	return req, true
}
