// Package database provides SQLite access for the project, lead and account
// stores, plus migration management.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver for database/sql
	_ "github.com/mattn/go-sqlite3"
)

const memoryPath = ":memory:"

// DB wraps a sql.DB connection.
type DB struct {
	*sql.DB
}

// dsn builds the go-sqlite3 connection string. File databases use WAL so
// lead writes from the public pages do not block the builder's reads.
func dsn(path string) string {
	if path == memoryPath {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
}

// New opens the database at dbPath, creating the parent directory when
// needed. ":memory:" opens a private in-memory database.
func New(dbPath string) (*DB, error) {
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, err
	}

	// Every pooled connection to :memory: would get its own empty database.
	if dbPath == memoryPath {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	return &DB{db}, nil
}

// Migrate runs all pending migrations.
func (db *DB) Migrate() error {
	return runMigrations(db.DB)
}
