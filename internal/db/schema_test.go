package db

import "testing"

func TestInitSchemaIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := InitSchema(db); err != nil {
		t.Fatalf("second InitSchema: %v", err)
	}

	for _, table := range []string{"driima_config", "driima_rooms", "driima_messages"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected an empty path to fail")
	}
}
