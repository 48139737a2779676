// ABOUTME: Conversation turn storage operations for SQLite
// ABOUTME: Append-only log read back newest-first
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/nova/internal/models"
)

// TurnStore handles conversation turn persistence
type TurnStore struct {
	db *DB
}

// NewTurnStore creates a new TurnStore
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db}
}

// Append inserts a turn and sets its ID
func (s *TurnStore) Append(turn *models.Turn) error {
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	mood := turn.Mood
	if mood == "" {
		mood = models.MoodNeutral
	}

	result, err := s.db.Exec(`
		INSERT INTO conversations (user_text, bot_text, mood, created_at)
		VALUES (?, ?, ?, ?)
	`, turn.UserText, turn.BotText, string(mood), createdAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	turn.ID = id
	turn.Mood = mood
	turn.CreatedAt = createdAt
	return nil
}

// Recent returns the newest n turns, newest first
func (s *TurnStore) Recent(n int) ([]models.Turn, error) {
	rows, err := s.db.Query(`
		SELECT id, user_text, bot_text, mood, created_at
		FROM conversations
		ORDER BY id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTurns(rows)
}

// Since returns turns created at or after cutoff, newest first, capped at limit
func (s *TurnStore) Since(cutoff time.Time, limit int) ([]models.Turn, error) {
	turns, err := s.Recent(limit)
	if err != nil {
		return nil, err
	}

	var out []models.Turn
	for _, turn := range turns {
		if !turn.CreatedAt.Before(cutoff) {
			out = append(out, turn)
		}
	}
	return out, nil
}

// All returns every turn in insertion order
func (s *TurnStore) All() ([]models.Turn, error) {
	rows, err := s.db.Query(`
		SELECT id, user_text, bot_text, mood, created_at
		FROM conversations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanTurns(rows)
}

func scanTurns(rows *sql.Rows) ([]models.Turn, error) {
	var turns []models.Turn
	for rows.Next() {
		var (
			turn models.Turn
			mood string
		)
		if err := rows.Scan(&turn.ID, &turn.UserText, &turn.BotText, &mood, &turn.CreatedAt); err != nil {
			return nil, err
		}
		turn.Mood = models.ParseMood(mood)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
