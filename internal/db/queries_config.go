package db

import (
	"database/sql"
	"strconv"
	"time"
)

// GetConfig returns a config value.
func GetConfig(db *sql.DB, key string) (string, error) {
	row := db.QueryRow("SELECT value FROM driima_config WHERE key = ?", key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetConfig sets a config value.
func SetConfig(db *sql.DB, key, value string) error {
	_, err := db.Exec("INSERT OR REPLACE INTO driima_config (key, value) VALUES (?, ?)", key, value)
	return err
}

// DeleteConfig removes a config value.
func DeleteConfig(db *sql.DB, key string) error {
	_, err := db.Exec("DELETE FROM driima_config WHERE key = ?", key)
	return err
}

const noticePrefix = "notice."

// NoticeSeen reports whether a one-shot notice was already shown.
func NoticeSeen(db *sql.DB, notice string) (bool, error) {
	value, err := GetConfig(db, noticePrefix+notice)
	if err != nil {
		return false, err
	}
	return value != "", nil
}

// MarkNoticeSeen records when a one-shot notice was shown.
func MarkNoticeSeen(db *sql.DB, notice string, at time.Time) error {
	return SetConfig(db, noticePrefix+notice, strconv.FormatInt(at.UnixMilli(), 10))
}
