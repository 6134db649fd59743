package db

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/driima/chat/internal/types"
)

// State adapts the database to the interfaces used by the api client and
// the room sessions.
type State struct {
	DB *sql.DB
}

// NewState wraps conn.
func NewState(conn *sql.DB) *State {
	return &State{DB: conn}
}

func (s *State) LoadCookies(context.Context) ([]*http.Cookie, error) {
	return LoadCookies(s.DB)
}

func (s *State) SaveCookies(_ context.Context, cookies []*http.Cookie) error {
	return SaveCookies(s.DB, cookies)
}

func (s *State) NoticeSeen(notice string) (bool, error) {
	return NoticeSeen(s.DB, notice)
}

func (s *State) MarkNoticeSeen(notice string) error {
	return MarkNoticeSeen(s.DB, notice, time.Now())
}

func (s *State) LoadRoom(roomID int64) (types.MessagePage, bool, error) {
	return LoadRoomPage(s.DB, roomID)
}

func (s *State) SaveRoom(page types.MessagePage) error {
	return SaveRoomPage(s.DB, page)
}

func (s *State) TombstoneMessage(roomID int64, id string) error {
	return TombstoneCachedMessage(s.DB, roomID, id)
}
