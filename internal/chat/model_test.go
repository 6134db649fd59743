package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/driima/chat/internal/types"
)

func roomPage(messages ...types.Message) types.MessagePage {
	return types.MessagePage{
		Room:     types.Room{ID: 7, Name: "General", Joined: true},
		Messages: messages,
	}
}

func TestOpenRoomRendersFirstPage(t *testing.T) {
	client := &fakeClient{pages: []types.MessagePage{roomPage(
		chatMessage("m1", "Alice", "hello there", 0),
		chatMessage("m2", "AI", "how can I help", 5),
	)}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	if m.screen != screenRoom {
		t.Fatalf("expected the room screen")
	}
	if got := strings.Join(m.order, ","); got != "m1,m2" {
		t.Fatalf("rendered order = %q, want m1,m2", got)
	}
	view := m.View()
	for _, want := range []string{"General", "hello there", "how can I help", "Fri Mar 01 2024"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in the view", want)
		}
	}
}

func TestSendClearsInputOnSuccess(t *testing.T) {
	client := &fakeClient{pages: []types.MessagePage{roomPage(chatMessage("m1", "Alice", "hi", 0))}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	m.input.SetValue("  good morning  ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)

	if len(client.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(client.sent))
	}
	if client.sent[0].Content != "good morning" || client.sent[0].ParentID != nil {
		t.Fatalf("unexpected payload: %+v", client.sent[0])
	}
	if m.input.Value() != "" {
		t.Fatalf("expected the input to be cleared, got %q", m.input.Value())
	}
}

func TestBlankInputDoesNotSend(t *testing.T) {
	client := &fakeClient{pages: []types.MessagePage{roomPage(chatMessage("m1", "Alice", "hi", 0))}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	m.input.SetValue("   ")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("expected no command for blank input")
	}
}

func TestReplyToAIPrefillsMention(t *testing.T) {
	client := &fakeClient{pages: []types.MessagePage{roomPage(
		chatMessage("m1", "Alice", "question", 0),
		chatMessage("m2", "AI", "answer", 5),
	)}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.selected != "m2" {
		t.Fatalf("expected the newest message to be selected, got %q", m.selected)
	}
	_, blink := m.Update(altKey('r'))
	if blink == nil {
		t.Fatalf("expected the reply to restart the cursor blink")
	}
	if got := m.session.ReplyTarget(); got != "m2" {
		t.Fatalf("reply target = %q, want m2", got)
	}
	if got := m.input.Value(); got != "@AI " {
		t.Fatalf("input = %q, want %q", got, "@AI ")
	}
	if !strings.Contains(m.View(), "Replying to: AI: answer") {
		t.Fatalf("expected the reply preview in the view")
	}

	m.input.SetValue(m.input.Value() + "thanks")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)
	if len(client.sent) != 1 || client.sent[0].ParentID == nil || *client.sent[0].ParentID != "m2" {
		t.Fatalf("expected a reply to m2, got %+v", client.sent)
	}
	if m.session.ReplyTarget() != "" {
		t.Fatalf("expected the reply target to clear after sending")
	}
}

func TestEscapeCancelsReplyBeforeLeaving(t *testing.T) {
	client := &fakeClient{pages: []types.MessagePage{roomPage(chatMessage("m1", "Alice", "hi", 0))}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m.Update(altKey('r'))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.session == nil || m.session.ReplyTarget() != "" {
		t.Fatalf("expected esc to cancel the reply and stay in the room")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.selected != "" {
		t.Fatalf("expected esc to clear the selection")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenRooms {
		t.Fatalf("expected esc to go back to the rooms list")
	}
	msg := run(t, m, cmd)
	if _, ok := msg.(roomsLoadedMsg); !ok {
		t.Fatalf("expected the rooms list to be refetched, got %T", msg)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	own := chatMessage("m1", "Me", "mine", 0)
	own.SentByMe = true
	client := &fakeClient{pages: []types.MessagePage{roomPage(own, chatMessage("m2", "Bob", "theirs", 5))}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	m.selectMessage("m2")
	m.Update(altKey('d'))
	if m.confirmDelete != "" || !strings.Contains(m.status, "Only your messages") {
		t.Fatalf("expected delete to be refused on another sender's message, status %q", m.status)
	}

	m.selectMessage("m1")
	m.Update(altKey('d'))
	if m.confirmDelete != "m1" || !strings.Contains(m.status, "Please confirm you want to delete") {
		t.Fatalf("expected a confirmation prompt, status %q", m.status)
	}
	m.Update(runeKey('n'))
	if m.confirmDelete != "" || len(client.deleted) != 0 {
		t.Fatalf("expected any other key to cancel the delete")
	}

	m.Update(altKey('d'))
	_, cmd := m.Update(runeKey('y'))
	run(t, m, cmd)
	if len(client.deleted) != 1 || client.deleted[0] != "m1" {
		t.Fatalf("expected m1 to be deleted, got %v", client.deleted)
	}
	if got := strings.Join(m.order, ","); got != "m2" {
		t.Fatalf("rendered order after delete = %q, want m2", got)
	}
	if m.selected != "" {
		t.Fatalf("expected the selection to clear after delete")
	}
}

func TestHideFromAISetsMarker(t *testing.T) {
	own := chatMessage("m1", "Me", "mine", 0)
	own.SentByMe = true
	client := &fakeClient{pages: []types.MessagePage{roomPage(own)}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	m.selectMessage("m1")
	_, cmd := m.Update(altKey('h'))
	run(t, m, cmd)
	if len(client.hidden) != 1 || client.hidden[0] != "m1" {
		t.Fatalf("expected hide request for m1, got %v", client.hidden)
	}
	m.refreshViewport(false)
	if !strings.Contains(m.View(), "Messages up to here are hidden from AI") {
		t.Fatalf("expected the skip marker in the view")
	}
}

func TestJoinFooterForUnjoinedRoom(t *testing.T) {
	page := roomPage(chatMessage("m1", "Alice", "hi", 0))
	page.Room.Joined = false
	client := &fakeClient{pages: []types.MessagePage{page}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	if !strings.Contains(m.View(), "Join this group") {
		t.Fatalf("expected the join footer")
	}
	m.selectMessage("m1")
	m.Update(altKey('r'))
	if m.session.ReplyTarget() != "" {
		t.Fatalf("expected no reply target in an unjoined room")
	}

	_, cmd := m.Update(altKey('j'))
	run(t, m, cmd)
	if client.joined != 1 {
		t.Fatalf("expected one join request, got %d", client.joined)
	}
	m.refreshViewport(false)
	if m.showJoin() {
		t.Fatalf("expected the join footer to disappear")
	}
}

func TestStaleTranscriptMessagesAreIgnored(t *testing.T) {
	client := &fakeClient{pages: []types.MessagePage{roomPage(chatMessage("m1", "Alice", "hi", 0))}}
	m := newTestModel(t, client)
	openTestRoom(t, m, 7)

	stale := NewTranscript(nil)
	if _, cmd := m.Update(transcriptMsg{transcript: stale}); cmd != nil {
		t.Fatalf("expected no follow-up command for a stale transcript")
	}
	if _, cmd := m.Update(sentMsg{transcript: stale}); cmd != nil {
		t.Fatalf("expected stale send results to be ignored")
	}
}
