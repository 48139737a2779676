// ABOUTME: Fact storage operations for SQLite
// ABOUTME: Append-only inserts with newest-first reads per subject and key
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/nova/internal/models"
)

// MaxFactsByKey caps the rows returned for a single (subject, key) pair
const MaxFactsByKey = 20

// FactStore handles fact persistence
type FactStore struct {
	db *DB
}

// NewFactStore creates a new FactStore
func NewFactStore(db *DB) *FactStore {
	return &FactStore{db: db}
}

// Append inserts a new fact row and sets its ID. Keys outside [a-z0-9_]+
// (after lowercasing) are rejected.
func (s *FactStore) Append(fact *models.Fact) error {
	key := models.NormalizeKey(fact.Key)
	if !models.ValidKey(key) {
		return fmt.Errorf("invalid fact key %q: must match [a-z0-9_]+", fact.Key)
	}
	createdAt := fact.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.db.Exec(`
		INSERT INTO facts (subj, k, v, created_at)
		VALUES (?, ?, ?, ?)
	`, models.NormalizeSubject(fact.Subject), key, fact.Value, createdAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	fact.ID = id
	fact.CreatedAt = createdAt
	return nil
}

// ByKey returns facts for an exact (subject, key) pair, newest first
func (s *FactStore) ByKey(subject, key string) ([]models.Fact, error) {
	rows, err := s.db.Query(`
		SELECT id, subj, k, v, created_at
		FROM facts
		WHERE subj = ? AND k = ?
		ORDER BY id DESC
		LIMIT ?
	`, models.NormalizeSubject(subject), models.NormalizeKey(key), MaxFactsByKey)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanFacts(rows)
}

// Latest returns the newest fact for (subject, key), or nil if none exists
func (s *FactStore) Latest(subject, key string) (*models.Fact, error) {
	var fact models.Fact
	err := s.db.QueryRow(`
		SELECT id, subj, k, v, created_at
		FROM facts
		WHERE subj = ? AND k = ?
		ORDER BY id DESC
		LIMIT 1
	`, models.NormalizeSubject(subject), models.NormalizeKey(key)).Scan(
		&fact.ID, &fact.Subject, &fact.Key, &fact.Value, &fact.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// All returns newest-first facts for a subject, capped at limit
func (s *FactStore) All(subject string, limit int) ([]models.Fact, error) {
	rows, err := s.db.Query(`
		SELECT id, subj, k, v, created_at
		FROM facts
		WHERE subj = ?
		ORDER BY id DESC
		LIMIT ?
	`, models.NormalizeSubject(subject), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanFacts(rows)
}

// LatestPerKey returns the authoritative fact for every (subject, key) pair
func (s *FactStore) LatestPerKey() ([]models.Fact, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.subj, f.k, f.v, f.created_at
		FROM facts f
		JOIN (SELECT MAX(id) AS id FROM facts GROUP BY subj, k) latest ON latest.id = f.id
		ORDER BY f.subj, f.k
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanFacts(rows)
}

// Count returns the number of fact rows
func (s *FactStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM facts").Scan(&n)
	return n, err
}

// scanFacts scans rows into a slice of Fact
func scanFacts(rows *sql.Rows) ([]models.Fact, error) {
	var facts []models.Fact

	for rows.Next() {
		var fact models.Fact
		if err := rows.Scan(&fact.ID, &fact.Subject, &fact.Key, &fact.Value, &fact.CreatedAt); err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}

	return facts, rows.Err()
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
