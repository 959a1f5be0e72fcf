package database

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	return db
}

func TestCreateMigrationsTable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := createMigrationsTable(db); err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}

	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='migrations'
	`).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query migrations table: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migrations table, got %d", count)
	}
}

func TestRecordMigration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := createMigrationsTable(db); err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}
	if err := recordMigration(db, "test_migration", 1); err != nil {
		t.Fatalf("failed to record migration: %v", err)
	}

	var name string
	var batch int
	err := db.QueryRow(`SELECT migration, batch FROM migrations WHERE migration = ?`, "test_migration").Scan(&name, &batch)
	if err != nil {
		t.Fatalf("failed to query migration: %v", err)
	}
	if name != "test_migration" {
		t.Errorf("expected migration name 'test_migration', got %q", name)
	}
	if batch != 1 {
		t.Errorf("expected batch 1, got %d", batch)
	}
}

func TestHasMigrationRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := createMigrationsTable(db); err != nil {
		t.Fatalf("failed to create migrations table: %v", err)
	}

	hasRun, err := hasMigrationRun(db, "nonexistent")
	if err != nil {
		t.Fatalf("failed to check migration: %v", err)
	}
	if hasRun {
		t.Error("expected hasRun to be false for nonexistent migration")
	}

	if err := recordMigration(db, "test_migration", 1); err != nil {
		t.Fatalf("failed to record migration: %v", err)
	}

	hasRun, err = hasMigrationRun(db, "test_migration")
	if err != nil {
		t.Fatalf("failed to check migration: %v", err)
	}
	if !hasRun {
		t.Error("expected hasRun to be true for existing migration")
	}
}

func TestRunMigrations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := runMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	expectedTables := []string{"users", "sessions", "projects", "leads", "audit_logs", "migrations"}
	for _, table := range expectedTables {
		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='table' AND name=?
		`, table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}

	var recorded int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&recorded); err != nil {
		t.Fatalf("failed to count migrations: %v", err)
	}
	if recorded != len(migrations) {
		t.Errorf("expected %d recorded migrations, got %d", len(migrations), recorded)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := runMigrations(db); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := runMigrations(db); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	var batches int
	if err := db.QueryRow("SELECT COUNT(DISTINCT batch) FROM migrations").Scan(&batches); err != nil {
		t.Fatalf("failed to count batches: %v", err)
	}
	if batches != 1 {
		t.Errorf("expected a single batch, got %d", batches)
	}
}

func TestAddLeadsInterestAreaColumn(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec(`
		CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			project_id TEXT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create leads table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO leads (id, name, email, message, created_at) VALUES ('l1', 'Ali', 'a@b.co', 'hi', '2024-01-01 00:00:00')`)
	if err != nil {
		t.Fatalf("failed to insert lead: %v", err)
	}

	exists, err := hasColumn(db, "leads", "interest_area")
	if err != nil {
		t.Fatalf("failed to check column: %v", err)
	}
	if exists {
		t.Fatal("interest_area should not exist before migration")
	}

	if err := addLeadsInterestAreaColumn(db); err != nil {
		t.Fatalf("failed to add column: %v", err)
	}

	var area string
	if err := db.QueryRow(`SELECT interest_area FROM leads WHERE id = 'l1'`).Scan(&area); err != nil {
		t.Fatalf("failed to query migrated lead: %v", err)
	}
	if area != "" {
		t.Errorf("expected empty default, got %q", area)
	}

	if err := addLeadsInterestAreaColumn(db); err != nil {
		t.Errorf("migration should be idempotent: %v", err)
	}
}
