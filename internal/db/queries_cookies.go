package db

import (
	"database/sql"
	"encoding/json"
	"net/http"
)

const cookiesKey = "session.cookies"

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveCookies replaces the persisted session cookies. An empty list clears them.
func SaveCookies(db *sql.DB, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return DeleteConfig(db, cookiesKey)
	}
	stored := make([]storedCookie, 0, len(cookies))
	for _, cookie := range cookies {
		stored = append(stored, storedCookie{Name: cookie.Name, Value: cookie.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return SetConfig(db, cookiesKey, string(data))
}

// LoadCookies returns the persisted session cookies.
func LoadCookies(db *sql.DB) ([]*http.Cookie, error) {
	value, err := GetConfig(db, cookiesKey)
	if err != nil || value == "" {
		return nil, err
	}
	var stored []storedCookie
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, err
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, cookie := range stored {
		cookies = append(cookies, &http.Cookie{Name: cookie.Name, Value: cookie.Value, Path: "/"})
	}
	return cookies, nil
}
