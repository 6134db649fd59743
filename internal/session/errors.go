package session

import "errors"

var (
	// ErrUnknownMessage is returned for ids the room has not fetched.
	ErrUnknownMessage = errors.New("unknown message")
	// ErrEmptyMessage is returned when sending blank text.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotJoined is returned when replying in a room the user has not joined.
	ErrNotJoined = errors.New("room not joined")
	// ErrClosed is returned by a session after Close.
	ErrClosed = errors.New("session closed")
)
