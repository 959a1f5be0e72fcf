package database

import (
	"path/filepath"
	"testing"
)

// TestMigrate_ExistingDatabase simulates a database created before leads had
// an interest area and checks that Migrate upgrades it in place.
func TestMigrate_ExistingDatabase(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "data", "builder.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`
		CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			project_id TEXT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		INSERT INTO leads (id, name, email, message, created_at)
		VALUES ('old-lead', 'Ayşe', 'ayse@example.com', 'Merhaba', '2024-01-01 00:00:00');
	`)
	if err != nil {
		t.Fatalf("failed to create old schema: %v", err)
	}

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var name, area string
	err = db.QueryRow(`SELECT name, interest_area FROM leads WHERE id = 'old-lead'`).Scan(&name, &area)
	if err != nil {
		t.Fatalf("failed to read old lead: %v", err)
	}
	if name != "Ayşe" || area != "" {
		t.Errorf("unexpected lead after migration: %q %q", name, area)
	}

	// A second Migrate is a no-op.
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestNew_Memory(t *testing.T) {
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("failed to read pragma: %v", err)
	}
	if fk != 1 {
		t.Error("expected foreign keys to be enabled")
	}
}
