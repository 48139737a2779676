// ABOUTME: Opens Nova's SQLite file, applies pragmas and stamps the schema version
// ABOUTME: The CLI, chat REPL and MCP server may hold the same file open at once
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SchemaVersion is written to PRAGMA user_version after the tables exist.
const SchemaVersion = 1

const memoryPath = ":memory:"

// DB is the single connection pool behind every store.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultDataDir returns $XDG_DATA_HOME/nova, or ~/.local/share/nova when unset.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "nova")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "nova")
}

// DefaultDBPath is nova.db inside DefaultDataDir.
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "nova.db")
}

// Open opens the database file at path, creating parent directories.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	// a second process (serve next to chat) waits instead of failing with SQLITE_BUSY
	return open(path, path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", 0)
}

// OpenInMemory opens a private database used by tests and --memory runs.
func OpenInMemory() (*DB, error) {
	// every pooled connection to :memory: is a separate empty database
	return open(memoryPath, memoryPath+"?_pragma=foreign_keys(ON)", 1)
}

func open(path, dsn string, maxConns int) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// migrate creates missing tables and refuses files written by a newer Nova.
func (db *DB) migrate() error {
	version, err := db.Version()
	if err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", version, SchemaVersion)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	// PRAGMA does not accept bound parameters
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("failed to stamp schema version: %w", err)
	}
	return tx.Commit()
}

// Version reads PRAGMA user_version; 0 means a fresh file.
func (db *DB) Version() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path is the file path, or ":memory:".
func (db *DB) Path() string {
	return db.path
}

// Begin starts a transaction for multi-row writes such as template seeding.
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
