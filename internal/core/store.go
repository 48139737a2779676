// ABOUTME: Storage contract consumed by the draft engine, composer and suggester
package core

import "github.com/harper/nova/internal/models"

// Store is the subset of the persistent store the reply pipeline reads and
// writes. Implementations swallow their own failures.
type Store interface {
	LatestFact(key, subject string) (string, bool)
	AllFacts(limit int, subject string) []models.Fact
	RecentTurns(n int) []models.Turn
	RecentOpeners(days int) []string
	TemplatesFor(kind models.TemplateKind, locale string) []models.Template
	SeedTemplatesIfEmpty(rows []models.Template)
	TemplateCount() int
	UsageSet(key, value string)
	UpdateUsage(key string, fn func(current string) string) string
	RecordTemplateUse(kind models.TemplateKind, templateID int64)
}
