package session

import "sync"

// NoticeFirstHideFromAI is the flag key of the hide-from-AI explanation.
const NoticeFirstHideFromAI = "first_hide_from_ai"

// Marker toggles the skip marker on a rendered message.
type Marker interface {
	MarkSkipped(id string, on bool) bool
}

// Flags persists one-shot notices.
type Flags interface {
	NoticeSeen(notice string) (bool, error)
	MarkNoticeSeen(notice string) error
}

// SkipMarker tracks the room's skip boundary and keeps exactly one rendered
// message marked.
type SkipMarker struct {
	marker  Marker
	flags   Flags
	current string
}

// NewSkipMarker returns a marker with no boundary. A nil flags store keeps
// the notice state in memory.
func NewSkipMarker(marker Marker, flags Flags) *SkipMarker {
	if flags == nil {
		flags = NewMemoryFlags()
	}
	return &SkipMarker{marker: marker, flags: flags}
}

// SetSkipped moves the boundary to id and reports whether it changed.
// An empty id clears it.
func (m *SkipMarker) SetSkipped(id string) bool {
	if id == m.current {
		return false
	}
	if m.current != "" {
		m.marker.MarkSkipped(m.current, false)
	}
	m.current = id
	if id != "" {
		m.marker.MarkSkipped(id, true)
	}
	return true
}

// Current returns the tracked boundary id, or "".
func (m *SkipMarker) Current() string {
	return m.current
}

// ExplainOnce reports whether the hide-from-AI explanation should be shown
// now, recording it so it is shown at most once.
func (m *SkipMarker) ExplainOnce() (bool, error) {
	seen, err := m.flags.NoticeSeen(NoticeFirstHideFromAI)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	return true, m.flags.MarkNoticeSeen(NoticeFirstHideFromAI)
}

// MemoryFlags is a process-local Flags store.
type MemoryFlags struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewMemoryFlags returns an empty store.
func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{seen: make(map[string]bool)}
}

func (f *MemoryFlags) NoticeSeen(notice string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[notice], nil
}

func (f *MemoryFlags) MarkNoticeSeen(notice string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[notice] = true
	return nil
}
