// ABOUTME: Activity feed storage for dispatched tasks
// ABOUTME: Only activity rows are ever swept; facts and turns are never deleted
package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/harper/nova/internal/models"
)

// ActivityStore handles activity persistence
type ActivityStore struct {
	db *DB
}

// NewActivityStore creates a new ActivityStore
func NewActivityStore(db *DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Append inserts an activity and sets its ID
func (s *ActivityStore) Append(a *models.Activity) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var meta sql.NullString
	if len(a.Meta) > 0 {
		raw, err := json.Marshal(a.Meta)
		if err != nil {
			return err
		}
		meta = nullString(string(raw))
	}

	result, err := s.db.Exec(`
		INSERT INTO activities (kind, title, when_text, meta, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(a.Kind), a.Title, nullString(a.When), meta, createdAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.CreatedAt = createdAt
	return nil
}

// Recent returns the newest n activities, newest first
func (s *ActivityStore) Recent(n int) ([]models.Activity, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, title, when_text, meta, created_at
		FROM activities
		ORDER BY id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var activities []models.Activity
	for rows.Next() {
		var (
			a    models.Activity
			kind string
			when sql.NullString
			meta sql.NullString
		)
		if err := rows.Scan(&a.ID, &kind, &a.Title, &when, &meta, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Kind = models.ActivityKind(kind)
		if when.Valid {
			a.When = when.String
		}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &a.Meta); err != nil {
				a.Meta = nil
			}
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// SweepBefore deletes activities created before cutoff
func (s *ActivityStore) SweepBefore(cutoff time.Time) (int64, error) {
	ids, err := s.idsBefore(cutoff)
	if err != nil {
		return 0, err
	}

	var deleted int64
	for _, id := range ids {
		result, err := s.db.Exec("DELETE FROM activities WHERE id = ?", id)
		if err != nil {
			return deleted, err
		}
		n, _ := result.RowsAffected()
		deleted += n
	}
	return deleted, nil
}

// idsBefore compares timestamps in Go so the stored text format never matters
func (s *ActivityStore) idsBefore(cutoff time.Time) ([]int64, error) {
	rows, err := s.db.Query("SELECT id, created_at FROM activities")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var (
			id        int64
			createdAt time.Time
		)
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, err
		}
		if createdAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
