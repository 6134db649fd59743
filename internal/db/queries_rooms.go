package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/driima/chat/internal/types"
)

// SaveRoomPage stores the room info and appends the page's messages to the
// room cache. Known ids are overwritten in place and keep their position.
func SaveRoomPage(db *sql.DB, page types.MessagePage) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	room := page.Room
	var skipped *string
	if room.SkippedMessageID != "" {
		skipped = &room.SkippedMessageID
	}
	if _, err := tx.Exec(`
		INSERT INTO driima_rooms (room_id, name, joined, skipped_message_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
		  name = excluded.name,
		  joined = excluded.joined,
		  skipped_message_id = excluded.skipped_message_id,
		  updated_at = excluded.updated_at
	`, room.ID, room.Name, boolToInt(room.Joined), skipped, time.Now().Unix()); err != nil {
		return err
	}

	var next int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM driima_messages WHERE room_id = ?", room.ID).Scan(&next); err != nil {
		return err
	}
	for _, msg := range page.Messages {
		body, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		next++
		if _, err := tx.Exec(`
			INSERT INTO driima_messages (room_id, guid, seq, body)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(room_id, guid) DO UPDATE SET
			  body = excluded.body
		`, room.ID, msg.ID, next, string(body)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadRoomPage returns the cached room and its messages in arrival order.
// The bool is false when the room was never cached.
func LoadRoomPage(db *sql.DB, roomID int64) (types.MessagePage, bool, error) {
	var (
		page    types.MessagePage
		joined  int
		skipped sql.NullString
	)
	row := db.QueryRow(`
		SELECT room_id, name, joined, skipped_message_id
		FROM driima_rooms
		WHERE room_id = ?
	`, roomID)
	if err := row.Scan(&page.Room.ID, &page.Room.Name, &joined, &skipped); err != nil {
		if err == sql.ErrNoRows {
			return types.MessagePage{}, false, nil
		}
		return types.MessagePage{}, false, err
	}
	page.Room.Joined = joined != 0
	if skipped.Valid {
		page.Room.SkippedMessageID = skipped.String
	}

	rows, err := db.Query(`
		SELECT body FROM driima_messages
		WHERE room_id = ?
		ORDER BY seq
	`, roomID)
	if err != nil {
		return types.MessagePage{}, false, err
	}
	defer rows.Close()

	page.Messages = []types.Message{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return types.MessagePage{}, false, err
		}
		var msg types.Message
		if err := json.Unmarshal([]byte(body), &msg); err != nil {
			return types.MessagePage{}, false, err
		}
		page.Messages = append(page.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return types.MessagePage{}, false, err
	}
	return page, true, nil
}

// TombstoneCachedMessage clears the cached content of a deleted message.
func TombstoneCachedMessage(db *sql.DB, roomID int64, id string) error {
	row := db.QueryRow("SELECT body FROM driima_messages WHERE room_id = ? AND guid = ?", roomID, id)
	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	}
	var msg types.Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return err
	}
	msg.Content = nil
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = db.Exec("UPDATE driima_messages SET body = ? WHERE room_id = ? AND guid = ?", string(data), roomID, id)
	return err
}

// ClearRoomCache drops every cached room and message.
func ClearRoomCache(db *sql.DB) error {
	if _, err := db.Exec("DELETE FROM driima_messages"); err != nil {
		return err
	}
	_, err := db.Exec("DELETE FROM driima_rooms")
	return err
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
