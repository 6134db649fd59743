package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Message represents a room message as delivered by the server.
// A nil Content marks a deleted message (tombstone).
type Message struct {
	ID         string    `json:"id"`
	RoomID     int64     `json:"roomId,omitempty"`
	ParentID   *string   `json:"parentId,omitempty"`
	SenderName string    `json:"senderName"`
	Content    *string   `json:"content"`
	DateSent   Timestamp `json:"dateSent"`
	SentByMe   bool      `json:"sentByMe,omitempty"`
	Status     int       `json:"status,omitempty"`
}

// Deleted reports whether the message is a tombstone.
func (m *Message) Deleted() bool {
	return m == nil || m.Content == nil || *m.Content == ""
}

// Parent returns the parent id, or "" for a top-level message.
func (m *Message) Parent() string {
	if m == nil || m.ParentID == nil {
		return ""
	}
	return *m.ParentID
}

// Text returns the message content, or "" for a tombstone.
func (m *Message) Text() string {
	if m == nil || m.Content == nil {
		return ""
	}
	return *m.Content
}

// Room is the room info reported with every message page.
type Room struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Joined           bool   `json:"joined"`
	SkippedMessageID string `json:"skippedMessageId"`
}

// MessagePage is the body of an incremental fetch.
type MessagePage struct {
	Room     Room      `json:"roomInfo"`
	Messages []Message `json:"messages"`
}

// RoomSummary is one row of the rooms list.
type RoomSummary struct {
	RoomID         int64      `json:"roomId"`
	GroupID        int64      `json:"groupId,omitempty"`
	RoomName       string     `json:"roomName,omitempty"`
	GroupName      string     `json:"groupName,omitempty"`
	GroupStatus    int        `json:"groupStatus,omitempty"`
	MemberStatus   int        `json:"memberStatus,omitempty"`
	DateMuted      *Timestamp `json:"dateMuted,omitempty"`
	DatePinned     *Timestamp `json:"datePinned,omitempty"`
	LatestDateSent *Timestamp `json:"latestDateSent,omitempty"`
	LatestMessage  *string    `json:"latestMessage,omitempty"`
	Logo           string     `json:"logo,omitempty"`
}

// DisplayName prefers the room name over the group name.
func (r RoomSummary) DisplayName() string {
	if r.RoomName != "" {
		return r.RoomName
	}
	return r.GroupName
}

// RoomList is the body of GET /api/rooms.
type RoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// SendRequest is the payload of POST /api/message/send.
type SendRequest struct {
	RoomID   int64   `json:"roomId"`
	ParentID *string `json:"parentId"`
	Content  string  `json:"content"`
}

// SendResult is the body returned by a successful send.
type SendResult struct {
	ID       string `json:"id,omitempty"`
	AIIsBusy bool   `json:"ai_is_busy,omitempty"`
}

// RoomSelector identifies a room in query strings.
type RoomSelector struct {
	RoomID  int64
	GroupID int64
	JoinKey int64
}

// Values encodes the selector as r, g and k query parameters.
func (s RoomSelector) Values() url.Values {
	values := url.Values{}
	if s.RoomID != 0 {
		values.Set("r", strconv.FormatInt(s.RoomID, 10))
	}
	if s.GroupID != 0 {
		values.Set("g", strconv.FormatInt(s.GroupID, 10))
	}
	if s.JoinKey != 0 {
		values.Set("k", strconv.FormatInt(s.JoinKey, 10))
	}
	return values
}

// ParseRoomSelector accepts "12", "r=12" or "g=3&k=991".
func ParseRoomSelector(raw string) (RoomSelector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoomSelector{}, fmt.Errorf("room is required")
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if id <= 0 {
			return RoomSelector{}, fmt.Errorf("invalid room id: %s", raw)
		}
		return RoomSelector{RoomID: id}, nil
	}
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return RoomSelector{}, fmt.Errorf("invalid room selector %q: %w", raw, err)
	}
	var sel RoomSelector
	for key, field := range map[string]*int64{"r": &sel.RoomID, "g": &sel.GroupID, "k": &sel.JoinKey} {
		value := values.Get(key)
		if value == "" {
			continue
		}
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return RoomSelector{}, fmt.Errorf("invalid %s in room selector: %s", key, value)
		}
		*field = parsed
	}
	if sel.RoomID == 0 && sel.GroupID == 0 {
		return RoomSelector{}, fmt.Errorf("room selector needs r or g: %s", raw)
	}
	return sel, nil
}

// Timestamp is a UTC send time. The zero value means "no watermark yet".
type Timestamp struct {
	time.Time
}

// wireLayout keeps microseconds, which is the server's stored precision.
const wireLayout = "2006-01-02T15:04:05.000000Z"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// NewTimestamp wraps t in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses the server date formats. Values without a zone are UTC.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp: %q", raw)
}

// After reports whether t is strictly later than other.
func (t Timestamp) After(other Timestamp) bool {
	return t.Time.After(other.Time)
}

// String returns the wire form, or "" for the zero value.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(wireLayout)
}

// MarshalJSON encodes the wire form; the zero value encodes as null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts null, "" and every layout ParseTimestamp knows.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
