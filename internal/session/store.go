package session

import (
	"github.com/driima/chat/internal/i18n"
	"github.com/driima/chat/internal/types"
)

// MaxReplyHops bounds the parent walk in ResolveOwnership. Reply chains in
// practice are a handful of hops; a longer chain is treated as malformed.
const MaxReplyHops = 64

// MergeResult reports what a Merge changed.
type MergeResult struct {
	// Added holds the newly inserted messages in arrival order, tombstones included.
	Added []types.Message
	// Tombstoned holds ids of live messages that arrived deleted.
	Tombstoned []string
}

// Store is the in-memory message cache of one room. Entries are never
// evicted and keep their arrival order. Store is not safe for concurrent
// use; Session serializes access.
type Store struct {
	byID   map[string]*types.Message
	order  []string
	cursor types.Timestamp
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*types.Message)}
}

// Merge inserts or overwrites each message by id, in batch order. A stored
// tombstone stays a tombstone. The cursor only moves forward.
func (s *Store) Merge(batch []types.Message) MergeResult {
	var result MergeResult
	for _, incoming := range batch {
		if incoming.ID == "" {
			continue
		}
		if incoming.DateSent.After(s.cursor) {
			s.cursor = incoming.DateSent
		}

		if incoming.Deleted() {
			incoming.Content = nil
		}

		existing, ok := s.byID[incoming.ID]
		if !ok {
			msg := incoming
			s.byID[msg.ID] = &msg
			s.order = append(s.order, msg.ID)
			result.Added = append(result.Added, msg)
			continue
		}

		wasLive := !existing.Deleted()
		*existing = incoming
		if !wasLive {
			existing.Content = nil
			continue
		}
		if existing.Deleted() {
			result.Tombstoned = append(result.Tombstoned, existing.ID)
		}
	}
	return result
}

// Get returns a copy of the stored message.
func (s *Store) Get(id string) (types.Message, bool) {
	msg, ok := s.byID[id]
	if !ok {
		return types.Message{}, false
	}
	return *msg, true
}

// Len returns the number of stored messages, tombstones included.
func (s *Store) Len() int {
	return len(s.order)
}

// Messages returns copies of every stored message in arrival order.
func (s *Store) Messages() []types.Message {
	out := make([]types.Message, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// Cursor is the latest send time seen so far.
func (s *Store) Cursor() types.Timestamp {
	return s.cursor
}

// Tombstone clears the content of id in place. It reports whether a live
// message was changed.
func (s *Store) Tombstone(id string) bool {
	msg, ok := s.byID[id]
	if !ok {
		return false
	}
	wasLive := !msg.Deleted()
	msg.Content = nil
	return wasLive
}

// ResolveOwnership reports whether msg was sent by the user, directly or
// through a chain of AI replies to one of the user's messages. An unknown
// parent ends the walk with false.
func (s *Store) ResolveOwnership(msg types.Message) bool {
	return walkChain(&msg, MaxReplyHops,
		func(node *types.Message) bool { return node.SentByMe },
		func(node *types.Message) (*types.Message, bool) {
			if !i18n.IsAI(node.SenderName) || node.ParentID == nil {
				return nil, false
			}
			parent, ok := s.byID[*node.ParentID]
			return parent, ok
		},
	)
}

// Owned is ResolveOwnership by id. Unknown ids are not owned.
func (s *Store) Owned(id string) bool {
	msg, ok := s.byID[id]
	if !ok {
		return false
	}
	return s.ResolveOwnership(*msg)
}

// walkChain visits start and its successors until owned matches, next has
// no hop, or maxHops hops were taken.
func walkChain(start *types.Message, maxHops int, owned func(*types.Message) bool, next func(*types.Message) (*types.Message, bool)) bool {
	node := start
	for hops := 0; node != nil; hops++ {
		if owned(node) {
			return true
		}
		if hops == maxHops {
			return false
		}
		parent, ok := next(node)
		if !ok {
			return false
		}
		node = parent
	}
	return false
}
