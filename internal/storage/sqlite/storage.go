// ABOUTME: Unified Storage facade that wraps all SQLite stores
// ABOUTME: Serializes access and swallows persistence failures after logging them
package sqlite

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/lexical"
	"github.com/harper/nova/internal/models"
)

const (
	// MaxRecentOpeners caps the opener set returned by RecentOpeners
	MaxRecentOpeners = 20
	// openerScanLimit bounds how many turns RecentOpeners inspects
	openerScanLimit = 500
)

// Storage is the explicitly constructed store shared by every component.
// Write failures are logged and swallowed; read failures yield zero values.
type Storage struct {
	db          *DB
	facts       *FactStore
	turns       *TurnStore
	templates   *TemplateStore
	usage       *UsageStore
	templateUse *TemplateUseStore
	activities  *ActivityStore
	logger      *zap.Logger
	now         func() time.Time
	mu          sync.Mutex
}

// NewStorage initializes storage at the default database path
func NewStorage(logger *zap.Logger) (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath(), logger)
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string, logger *zap.Logger) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db, logger), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory(logger *zap.Logger) (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db, logger), nil
}

func newStorage(db *DB, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{
		db:          db,
		facts:       NewFactStore(db),
		turns:       NewTurnStore(db),
		templates:   NewTemplateStore(db),
		usage:       NewUsageStore(db),
		templateUse: NewTemplateUseStore(db),
		activities:  NewActivityStore(db),
		logger:      logger.Named("storage"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// RememberFact appends a normalized fact. Failures are logged, never returned.
func (s *Storage) RememberFact(subject, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fact := &models.Fact{
		Subject:   models.NormalizeSubject(subject),
		Key:       models.NormalizeKey(key),
		Value:     strings.TrimSpace(value),
		CreatedAt: s.now(),
	}
	if !models.ValidKey(fact.Key) {
		s.logger.Warn("skipping fact with invalid key", zap.String("subject", fact.Subject), zap.String("key", fact.Key))
		return
	}
	if fact.Value == "" {
		s.logger.Warn("skipping fact with empty value", zap.String("key", fact.Key))
		return
	}
	if err := s.facts.Append(fact); err != nil {
		s.logger.Warn("failed to remember fact", zap.String("key", fact.Key), zap.Error(err))
		return
	}
	s.logger.Debug("remembered fact", zap.String("subject", fact.Subject), zap.String("key", fact.Key))
}

// FactsByKey returns facts for (subject, key), newest first, capped at 20.
// An empty subject means "me".
func (s *Storage) FactsByKey(key, subject string) []models.Fact {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, err := s.facts.ByKey(subject, key)
	if err != nil {
		s.logger.Warn("failed to read facts by key", zap.String("key", key), zap.Error(err))
		return nil
	}
	return facts
}

// LatestFact returns the authoritative value for (subject, key)
func (s *Storage) LatestFact(key, subject string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fact, err := s.facts.Latest(subject, key)
	if err != nil {
		s.logger.Warn("failed to read latest fact", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if fact == nil {
		return "", false
	}
	return fact.Value, true
}

// AllFacts returns newest-first facts for a subject, capped at limit
func (s *Storage) AllFacts(limit int, subject string) []models.Fact {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, err := s.facts.All(subject, limit)
	if err != nil {
		s.logger.Warn("failed to read facts", zap.Error(err))
		return nil
	}
	return facts
}

// LatestFacts returns the newest fact for every (subject, key) pair
func (s *Storage) LatestFacts() []models.Fact {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, err := s.facts.LatestPerKey()
	if err != nil {
		s.logger.Warn("failed to read latest facts", zap.Error(err))
		return nil
	}
	return facts
}

// AppendTurn appends a conversation turn
func (s *Storage) AppendTurn(userText, botText string, mood models.Mood) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := &models.Turn{UserText: userText, BotText: botText, Mood: mood, CreatedAt: s.now()}
	if err := s.turns.Append(turn); err != nil {
		s.logger.Warn("failed to append turn", zap.Error(err))
	}
}

// RecentTurns returns the newest n turns, newest first
func (s *Storage) RecentTurns(n int) []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.turns.Recent(n)
	if err != nil {
		s.logger.Warn("failed to read recent turns", zap.Error(err))
		return nil
	}
	return turns
}

// RecentOpeners returns the distinct first clauses of bot replies from the
// last days days, newest first, capped at 20.
func (s *Storage) RecentOpeners(days int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	turns, err := s.turns.Since(cutoff, openerScanLimit)
	if err != nil {
		s.logger.Warn("failed to read recent openers", zap.Error(err))
		return nil
	}

	seen := make(map[string]bool)
	var openers []string
	for _, turn := range turns {
		opener := lexical.FirstClause(turn.BotText)
		if opener == "" || seen[opener] {
			continue
		}
		seen[opener] = true
		openers = append(openers, opener)
		if len(openers) == MaxRecentOpeners {
			break
		}
	}
	return openers
}

// TemplatesFor returns all templates for a kind and locale
func (s *Storage) TemplatesFor(kind models.TemplateKind, locale string) []models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.templates.For(kind, locale)
	if err != nil {
		s.logger.Warn("failed to read templates", zap.String("kind", string(kind)), zap.Error(err))
		return nil
	}
	return templates
}

// SeedTemplatesIfEmpty loads rows only when no templates exist yet
func (s *Storage) SeedTemplatesIfEmpty(rows []models.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.templates.SeedIfEmpty(rows)
	if err != nil {
		s.logger.Warn("failed to seed templates", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("seeded templates", zap.Int("count", n))
	}
}

// TemplateCount returns the number of stored templates
func (s *Storage) TemplateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.templates.Count()
	if err != nil {
		s.logger.Warn("failed to count templates", zap.Error(err))
		return 0
	}
	return n
}

// UsageGet returns the counter value for key, "" when absent
func (s *Storage) UsageGet(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, _, err := s.usage.Get(key)
	if err != nil {
		s.logger.Warn("failed to read usage", zap.String("key", key), zap.Error(err))
		return ""
	}
	return value
}

// UsageSet overwrites the counter value for key
func (s *Storage) UsageSet(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usage.Set(key, value); err != nil {
		s.logger.Warn("failed to write usage", zap.String("key", key), zap.Error(err))
	}
}

// UpdateUsage applies fn to the current value of key and stores the result
// under one lock, so concurrent callers never observe a torn read-modify-write.
func (s *Storage) UpdateUsage(key string, fn func(current string) string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.usage.Get(key)
	if err != nil {
		s.logger.Warn("failed to read usage", zap.String("key", key), zap.Error(err))
	}
	next := fn(current)
	if err := s.usage.Set(key, next); err != nil {
		s.logger.Warn("failed to write usage", zap.String("key", key), zap.Error(err))
	}
	return next
}

// RecordTemplateUse appends a template audit event
func (s *Storage) RecordTemplateUse(kind models.TemplateKind, templateID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := models.TemplateUseEvent{Kind: kind, TemplateID: templateID, UsedAt: s.now()}
	if err := s.templateUse.Record(event); err != nil {
		s.logger.Warn("failed to record template use", zap.Int64("template_id", templateID), zap.Error(err))
	}
}

// LogActivity appends an activity feed entry
func (s *Storage) LogActivity(a *models.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if err := s.activities.Append(a); err != nil {
		s.logger.Warn("failed to log activity", zap.String("kind", string(a.Kind)), zap.Error(err))
	}
}

// RecentActivities returns the newest n activities
func (s *Storage) RecentActivities(n int) []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.activities.Recent(n)
	if err != nil {
		s.logger.Warn("failed to read activities", zap.Error(err))
		return nil
	}
	return activities
}

// SweepActivities deletes activity rows older than olderThan
func (s *Storage) SweepActivities(olderThan time.Duration) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.activities.SweepBefore(s.now().Add(-olderThan))
	if err != nil {
		s.logger.Warn("failed to sweep activities", zap.Error(err))
	}
	return n
}
