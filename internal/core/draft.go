// ABOUTME: Template draft engine with two-layer anti-repetition
// ABOUTME: Avoids the last three template ids and recently used opening clauses
package core

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/lexical"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/models"
)

// RecentIDWindow is how many used template ids are remembered per kind
const RecentIDWindow = 3

// DefaultName fills {name} when no name fact exists
const DefaultName = "there"

// ErrNoTemplates is returned when no template exists for a kind and locale
var ErrNoTemplates = errors.New("no templates for kind and locale")

// Draft is a filled template
type Draft struct {
	TemplateID int64
	Text       string
	Opener     string
}

// DraftOptions parameterize one draft
type DraftOptions struct {
	Mood         models.Mood
	Locale       string
	AvoidOpeners []string
	Festival     string
}

// DraftEngine chooses and fills reply templates
type DraftEngine struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewDraftEngine(store Store, logger *zap.Logger) *DraftEngine {
	return &DraftEngine{
		store:  store,
		logger: logging.OrNop(logger).Named("drafts"),
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// DayPart buckets a clock time into morning, afternoon or evening
func DayPart(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// BuildDraft picks a template for kind, skipping the last used ids and any
// whose opening clause is in opts.AvoidOpeners. When every template is
// excluded the full set is used instead.
func (e *DraftEngine) BuildDraft(kind models.TemplateKind, opts DraftOptions) (Draft, error) {
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}

	templates := e.store.TemplatesFor(kind, locale)
	if len(templates) == 0 {
		return Draft{}, ErrNoTemplates
	}

	avoidOpeners := make(map[string]bool, len(opts.AvoidOpeners))
	for _, o := range opts.AvoidOpeners {
		avoidOpeners[strings.ToLower(strings.TrimSpace(o))] = true
	}

	name, ok := e.store.LatestFact("name", models.DefaultSubject)
	if !ok || name == "" {
		name = DefaultName
	}
	fill := strings.NewReplacer(
		models.PlaceholderName, name,
		models.PlaceholderDayPart, DayPart(e.now()),
		models.PlaceholderFestival, opts.Festival,
	).Replace

	var chosen models.Template
	e.store.UpdateUsage(models.LastIDsKey(kind), func(current string) string {
		recent := parseIDs(current)
		pool := filterTemplates(templates, recent, func(t models.Template) bool {
			return avoidOpeners[strings.ToLower(lexical.FirstClause(fill(t.Text)))]
		})
		if len(pool) == 0 {
			pool = templates
		}
		chosen = pool[e.intN(len(pool))]
		return joinIDs(append([]int64{chosen.ID}, recent...), RecentIDWindow)
	})
	e.store.RecordTemplateUse(kind, chosen.ID)

	filled := fill(chosen.Text)

	e.logger.Debug("draft built",
		zap.String("kind", string(kind)),
		zap.Int64("template_id", chosen.ID),
		zap.Int("pool", len(templates)))

	return Draft{
		TemplateID: chosen.ID,
		Text:       filled,
		Opener:     lexical.FirstClause(filled),
	}, nil
}

func (e *DraftEngine) intN(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.IntN(n)
}

func filterTemplates(templates []models.Template, recent []int64, staleOpener func(models.Template) bool) []models.Template {
	var pool []models.Template
	for _, t := range templates {
		if containsID(recent, t.ID) || staleOpener(t) {
			continue
		}
		pool = append(pool, t)
	}
	return pool
}

func parseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func joinIDs(ids []int64, limit int) string {
	if len(ids) > limit {
		ids = ids[:limit]
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
