package session

import (
	"testing"
	"time"

	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/types"
)

func newTestRenderer(t *testing.T, messages ...types.Message) (*Renderer, *Store, *SkipMarker, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface()
	store := NewStore()
	store.Merge(messages)
	skip := NewSkipMarker(surface, nil)
	return NewRenderer(store, skip, surface, nil, time.UTC), store, skip, surface
}

func TestAppendSkipsTombstones(t *testing.T) {
	gone := deleted(msg("1", "bob", "", 1))
	empty := msg("2", "bob", "", 2)
	r, _, _, surface := newTestRenderer(t, gone, empty)

	if r.Append(gone) || r.Append(empty) {
		t.Fatalf("deleted messages must not be appended")
	}
	if len(surface.events) != 0 {
		t.Fatalf("expected no surface changes, got %+v", surface.events)
	}
}

func TestDateSeparatorsFollowArrivalOrder(t *testing.T) {
	day := 24 * 60 * 60
	first := msg("1", "bob", "a", 0)
	sameDay := msg("2", "bob", "b", 60)
	nextDay := msg("3", "bob", "c", day)
	late := msg("4", "bob", "d", 120)
	r, _, _, surface := newTestRenderer(t, first, sameDay, nextDay, late)

	for _, m := range []types.Message{first, sameDay, nextDay, late} {
		r.Append(m)
	}

	var kinds []string
	for _, ev := range surface.events {
		kinds = append(kinds, ev.kind+":"+ev.id)
	}
	want := []string{
		"separator:Fri Mar 01 2024", "message:1", "message:2",
		"separator:Sat Mar 02 2024", "message:3",
		"separator:Fri Mar 01 2024", "message:4",
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestProjectActionsFollowOwnership(t *testing.T) {
	own := mine(msg("A", "alice", "q", 1))
	aiReply := reply("B", "A", "AI", "a", 2)
	other := msg("C", "bob", "hi", 3)
	r, _, _, _ := newTestRenderer(t, own, aiReply, other)

	tests := []struct {
		name  string
		msg   types.Message
		owned bool
	}{
		{"own", own, true},
		{"AI reply to own", aiReply, true},
		{"someone else", other, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := r.Project(tt.msg)
			if !view.Has(ActionCopy) || !view.Has(ActionReply) {
				t.Fatalf("Copy and Reply are always offered: %v", view.Actions)
			}
			if view.Has(ActionDelete) != tt.owned || view.Has(ActionHide) != tt.owned {
				t.Fatalf("Delete/Hide offered = %v, want %v", view.Actions, tt.owned)
			}
			if view.Owned != tt.owned {
				t.Fatalf("Owned = %v, want %v", view.Owned, tt.owned)
			}
		})
	}
}

func TestProjectTimeLabel(t *testing.T) {
	r, _, _, _ := newTestRenderer(t)
	view := r.Project(msg("1", "bob", "hi", 0))
	if view.TimeLabel != "09:05" {
		t.Fatalf("TimeLabel = %q, want 09:05", view.TimeLabel)
	}

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	local := NewRenderer(NewStore(), nil, newFakeSurface(), nil, paris)
	if got := local.Project(msg("1", "bob", "hi", 0)).TimeLabel; got != "10:05" {
		t.Fatalf("TimeLabel in Paris = %q, want 10:05", got)
	}
}

func TestReplySnippetPlaceholder(t *testing.T) {
	parent := msg("P", "bob", "original", 1)
	child := reply("C", "P", "alice", "answer", 2)
	orphan := reply("O", "unknown", "alice", "answer", 3)
	r, store, _, _ := newTestRenderer(t, parent, child, orphan)

	view := r.Project(child)
	if view.Reply == nil || view.Reply.String() != "bob: original" || view.Reply.MessageID != "P" {
		t.Fatalf("unexpected snippet %+v", view.Reply)
	}

	store.Tombstone("P")
	view = r.Project(child)
	if view.Reply.String() != "Reply to a deleted message" {
		t.Fatalf("expected placeholder, got %q", view.Reply.String())
	}
	if view.Reply.MessageID != "" {
		t.Fatalf("deleted parents cannot be jumped to")
	}

	if got := r.Project(orphan).Reply.String(); got != "Reply to a deleted message" {
		t.Fatalf("missing parent should use the placeholder, got %q", got)
	}

	fr := NewRenderer(store, nil, newFakeSurface(), i18n.New("fr"), time.UTC)
	if got := fr.Project(child).Reply.String(); got != "Réponse à un message supprimé" {
		t.Fatalf("expected translated placeholder, got %q", got)
	}
}

func TestProjectMarksCurrentSkip(t *testing.T) {
	m := msg("1", "bob", "hi", 1)
	r, _, skip, _ := newTestRenderer(t, m)
	skip.SetSkipped("1")
	if !r.Project(m).Skipped {
		t.Fatalf("message at the boundary should render skipped")
	}
	skip.SetSkipped("2")
	if r.Project(m).Skipped {
		t.Fatalf("message off the boundary should not render skipped")
	}
}
