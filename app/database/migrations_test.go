package database

import (
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	db, err := NewConnection(filepath.Join(t.TempDir(), "newsdeck.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected schema version 2, got: %d", version)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}

	// Running again is a no-op
	version, _, err = RunMigrations(db)
	if err != nil {
		t.Fatalf("Unexpected error on second run: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected schema version 2 after second run, got: %d", version)
	}

	for _, table := range []string{"feeds", "entries", "bookmarks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}
