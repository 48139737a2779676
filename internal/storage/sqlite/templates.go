// ABOUTME: Template, usage counter and template audit storage for SQLite
// ABOUTME: Templates are seeded once; usage rows are upserted
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/nova/internal/models"
)

// TemplateStore handles reply template persistence
type TemplateStore struct {
	db *DB
}

// NewTemplateStore creates a new TemplateStore
func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// For returns all templates for a kind and locale in id order
func (s *TemplateStore) For(kind models.TemplateKind, locale string) ([]models.Template, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, locale, text
		FROM templates
		WHERE kind = ? AND locale = ?
		ORDER BY id ASC
	`, string(kind), locale)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var templates []models.Template
	for rows.Next() {
		var (
			t    models.Template
			kind string
		)
		if err := rows.Scan(&t.ID, &kind, &t.Locale, &t.Text); err != nil {
			return nil, err
		}
		t.Kind = models.TemplateKind(kind)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Count returns the number of template rows
func (s *TemplateStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&n)
	return n, err
}

// SeedIfEmpty inserts rows in one transaction when the table is empty.
// Returns the number of rows inserted.
func (s *TemplateStore) SeedIfEmpty(rows []models.Template) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM templates").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	stmt, err := tx.Prepare("INSERT INTO templates (kind, locale, text) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		locale := row.Locale
		if locale == "" {
			locale = "en"
		}
		if _, err := stmt.Exec(string(row.Kind), locale, row.Text); err != nil {
			return 0, fmt.Errorf("failed to insert template: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit templates: %w", err)
	}
	return len(rows), nil
}

// UsageStore handles the key/value usage counters
type UsageStore struct {
	db *DB
}

// NewUsageStore creates a new UsageStore
func NewUsageStore(db *DB) *UsageStore {
	return &UsageStore{db: db}
}

// Get returns the value for key, or "" with found=false when absent
func (s *UsageStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM usage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts key to value
func (s *UsageStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO usage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

// TemplateUseStore records the template audit log
type TemplateUseStore struct {
	db *DB
}

// NewTemplateUseStore creates a new TemplateUseStore
func NewTemplateUseStore(db *DB) *TemplateUseStore {
	return &TemplateUseStore{db: db}
}

// Record appends a template use event
func (s *TemplateUseStore) Record(event models.TemplateUseEvent) error {
	usedAt := event.UsedAt
	if usedAt.IsZero() {
		usedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO template_usage (kind, template_id, used_at)
		VALUES (?, ?, ?)
	`, string(event.Kind), event.TemplateID, usedAt)
	return err
}

// Count returns the number of recorded events
func (s *TemplateUseStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM template_usage").Scan(&n)
	return n, err
}
