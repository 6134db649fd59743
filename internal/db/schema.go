package db

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
-- Local key/value settings and one-shot notice flags
CREATE TABLE IF NOT EXISTS driima_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

-- Last room info seen per room
CREATE TABLE IF NOT EXISTS driima_rooms (
  room_id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  joined INTEGER NOT NULL DEFAULT 0,
  skipped_message_id TEXT,
  updated_at INTEGER NOT NULL          -- unix timestamp
);

-- Accumulated messages per room, seq is arrival order
CREATE TABLE IF NOT EXISTS driima_messages (
  room_id INTEGER NOT NULL,
  guid TEXT NOT NULL,
  seq INTEGER NOT NULL,
  body TEXT NOT NULL,                  -- JSON encoded message
  PRIMARY KEY (room_id, guid),
  FOREIGN KEY (room_id) REFERENCES driima_rooms(room_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_driima_messages_seq ON driima_messages(room_id, seq);
`

// InitSchema creates the tables if they do not exist.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
