// ABOUTME: Per-utterance orchestration from raw text to a persisted short reply
// ABOUTME: One utterance at a time; concurrent submissions are rejected with ErrBusy
package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harper/nova/internal/core"
	"github.com/harper/nova/internal/lexical"
	"github.com/harper/nova/internal/logging"
	"github.com/harper/nova/internal/models"
	"github.com/harper/nova/internal/nlu"
	"github.com/harper/nova/internal/web"
)

// ErrBusy is returned when an utterance arrives while another is in flight
var ErrBusy = errors.New("assistant is busy with another message")

// Canned replies
const (
	OfflineOnReply     = "Okay, offline mode is on. I won't fetch from the web."
	OfflineOffReply    = "Back online. I can search when you ask."
	OfflineSearchReply = `Offline mode is on. Say "go online" if you want me to search.`
	OfflineOfferReply  = `You're offline. Say "go online" if you want me to look it up.`
	SearchOfferReply   = `I can look that up and keep it short. Say "search" or "more" and I'll fetch it.`
	UncleanSummary     = "I found info, but the summary wasn't clean this time."
	NoHeadlineReply    = "I couldn't get a headline right now."
)

const (
	// BlockCheckinsKey is the "me" fact that disables check-in replies
	BlockCheckinsKey = "block_checkins"

	factDumpLimit = 10
)

var (
	goOffline   = regexp.MustCompile(`(?i)^go offline$`)
	goOnline    = regexp.MustCompile(`(?i)^go online$`)
	followUp    = regexp.MustCompile(`(?i)^(more|details|search( now)?)$`)
	greeting    = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|yo|good (morning|afternoon|evening))\b`)
	needsWeb    = regexp.MustCompile(`(?i)\b(how|who|what|when|where|why|news|joke|recipe|steps|wiki|explain)\b`)
	// headlines are only fetched when asked for
	headlineAsk = regexp.MustCompile(`(?i)\b(headlines?|top (?:news|stories|story)|any news)\b`)
)

// Store is everything the assistant persists or reads
type Store interface {
	core.Store
	RememberFact(subject, key, value string)
	FactsByKey(key, subject string) []models.Fact
	AppendTurn(userText, botText string, mood models.Mood)
	LogActivity(a *models.Activity)
	RecentActivities(n int) []models.Activity
	SweepActivities(olderThan time.Duration) int64
}

// WebProvider answers explicit search follow-ups and supplies headlines
type WebProvider interface {
	AnswerFromWeb(ctx context.Context, query string) web.Answer
	TopHeadline(ctx context.Context, region string) *web.Headline
}

// Options configure a session
type Options struct {
	Locale         string
	Offline        bool
	HeadlineRegion string
	Channel        string
}

// ReplyKind says which branch produced a reply
type ReplyKind string

const (
	ReplyToggle      ReplyKind = "toggle"
	ReplyWeb         ReplyKind = "web"
	ReplyGreeting    ReplyKind = "greeting"
	ReplyFactAdded   ReplyKind = "fact_added"
	ReplyFactQuery   ReplyKind = "fact_query"
	ReplySearchOffer ReplyKind = "search_offer"
	ReplyCheckin     ReplyKind = "checkin"
	ReplySmalltalk   ReplyKind = "smalltalk"
)

// Reply is the outcome of one utterance
type Reply struct {
	Text        string            `json:"text"`
	Kind        ReplyKind         `json:"kind"`
	Mood        models.Mood       `json:"mood"`
	Intent      *models.Intent    `json:"intent,omitempty"`
	Headline    *web.Headline     `json:"headline,omitempty"`
	Links       []web.Link        `json:"links,omitempty"`
	Suggestions []core.QuickReply `json:"suggestions,omitempty"`
}

// Assistant holds one conversational session
type Assistant struct {
	store     Store
	composer  *core.Composer
	suggester *core.Suggester
	web       WebProvider
	resolver  nlu.Resolver
	opts      Options
	logger    *zap.Logger
	session   string

	inFlight atomic.Bool

	mu        sync.Mutex
	offline   bool
	lastQuery string
}

// New wires a session. web and resolver may be nil.
func New(store Store, composer *core.Composer, suggester *core.Suggester, webProvider WebProvider, resolver nlu.Resolver, opts Options, logger *zap.Logger) *Assistant {
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	if opts.HeadlineRegion == "" {
		opts.HeadlineRegion = "US:en"
	}
	if opts.Channel == "" {
		opts.Channel = "sms"
	}
	session := uuid.NewString()
	return &Assistant{
		store:     store,
		composer:  composer,
		suggester: suggester,
		web:       webProvider,
		resolver:  resolver,
		opts:      opts,
		logger:    logging.OrNop(logger).Named("assistant").With(zap.String("session", session)),
		session:   session,
		offline:   opts.Offline,
	}
}

// Session returns the session id
func (a *Assistant) Session() string { return a.session }

// Offline reports the session offline flag
func (a *Assistant) Offline() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.offline
}

// SetOffline sets the session offline flag
func (a *Assistant) SetOffline(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offline = v
}

// LastQuery returns the question remembered for a "more"/"search" follow-up
func (a *Assistant) LastQuery() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastQuery
}

func (a *Assistant) setLastQuery(q string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastQuery = q
}

// Handle answers one utterance and appends it to the conversation log.
// Empty input is ignored.
func (a *Assistant) Handle(ctx context.Context, text string) (Reply, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return Reply{}, ErrBusy
	}
	defer a.inFlight.Store(false)

	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, nil
	}

	reply := a.handle(ctx, text)
	a.store.AppendTurn(text, reply.Text, reply.Mood)
	a.logger.Debug("handled utterance",
		zap.String("kind", string(reply.Kind)),
		zap.String("mood", string(reply.Mood)))

	switch reply.Kind {
	case ReplyGreeting, ReplyCheckin, ReplySmalltalk:
		if a.suggester != nil {
			reply.Suggestions = a.suggester.SuggestReplies(ctx, core.SuggestOptions{
				Channel: a.opts.Channel,
				LastTwo: a.lastTwo(),
			})
		}
	}
	return reply, nil
}

func (a *Assistant) handle(ctx context.Context, text string) Reply {
	mood := nlu.DetectMood(text)
	offline := a.Offline()

	switch {
	case goOffline.MatchString(text):
		a.SetOffline(true)
		return Reply{Text: OfflineOnReply, Kind: ReplyToggle, Mood: mood}
	case goOnline.MatchString(text):
		a.SetOffline(false)
		return Reply{Text: OfflineOffReply, Kind: ReplyToggle, Mood: mood}
	}

	if followUp.MatchString(text) {
		if q := a.LastQuery(); q != "" {
			if offline || a.web == nil {
				return Reply{Text: OfflineSearchReply, Kind: ReplyWeb, Mood: mood}
			}
			ans := a.web.AnswerFromWeb(ctx, q)
			msg := ans.Summary
			if msg == "" {
				msg = UncleanSummary
			}
			return Reply{Text: msg, Kind: ReplyWeb, Mood: mood, Links: ans.Links}
		}
	}

	wantsHeadline := headlineAsk.MatchString(text)
	if greeting.MatchString(text) {
		var headline *web.Headline
		if wantsHeadline && !offline && a.web != nil {
			headline = a.web.TopHeadline(ctx, a.opts.HeadlineRegion)
		}
		opts := core.HumanReplyOptions{Mood: mood, Kind: models.KindGreeting, Locale: a.opts.Locale}
		if headline != nil {
			opts.Headline = headline.Title
		}
		return Reply{
			Text:     a.composer.ComposeHumanReply(ctx, text, opts),
			Kind:     ReplyGreeting,
			Mood:     mood,
			Headline: headline,
		}
	}

	if wantsHeadline {
		if offline || a.web == nil {
			return Reply{Text: OfflineSearchReply, Kind: ReplyWeb, Mood: mood}
		}
		h := a.web.TopHeadline(ctx, a.opts.HeadlineRegion)
		if h == nil {
			return Reply{Text: NoHeadlineReply, Kind: ReplyWeb, Mood: mood}
		}
		return Reply{
			Text:     "Top story: " + h.Title,
			Kind:     ReplyWeb,
			Mood:     mood,
			Headline: h,
			Links:    []web.Link{{Title: h.Title, URL: h.URL}},
		}
	}

	intent := nlu.ClassifyIntent(text)
	switch intent.Kind {
	case models.IntentFactAdd:
		return Reply{Text: a.rememberFact(intent), Kind: ReplyFactAdded, Mood: mood, Intent: &intent}
	case models.IntentFactQuery:
		return Reply{Text: a.queryFacts(intent), Kind: ReplyFactQuery, Mood: mood, Intent: &intent}
	}

	var detected *models.Intent
	if intent.Kind != models.IntentSmalltalk {
		detected = &intent
	}

	if needsWeb.MatchString(text) {
		a.setLastQuery(text)
		msg := SearchOfferReply
		if offline {
			msg = OfflineOfferReply
		}
		return Reply{Text: msg, Kind: ReplySearchOffer, Mood: mood, Intent: detected}
	}

	if v, _ := a.store.LatestFact(BlockCheckinsKey, models.DefaultSubject); v != "true" {
		return Reply{
			Text:   a.composer.ComposeHumanReply(ctx, text, core.HumanReplyOptions{Mood: mood, Kind: models.KindCheckin, Locale: a.opts.Locale}),
			Kind:   ReplyCheckin,
			Mood:   mood,
			Intent: detected,
		}
	}

	return Reply{
		Text:   a.composer.ComposeReply(ctx, text, core.ReplyOptions{Mood: mood}),
		Kind:   ReplySmalltalk,
		Mood:   mood,
		Intent: detected,
	}
}

func (a *Assistant) rememberFact(intent models.Intent) string {
	subject := subjectOf(intent)
	a.store.RememberFact(subject, intent.Key, intent.Value)

	switch {
	case subject != models.DefaultSubject:
		return fmt.Sprintf("Got it, %s's %s is %s.", subject, intent.Key, intent.Value)
	case intent.Key == "name":
		return fmt.Sprintf("Nice to meet you, %s. I'll remember that.", intent.Value)
	default:
		return fmt.Sprintf("I'll remember your %s is %s.", intent.Key, intent.Value)
	}
}

func (a *Assistant) queryFacts(intent models.Intent) string {
	subject := subjectOf(intent)
	me := subject == models.DefaultSubject

	if intent.Key != "" {
		if v, ok := a.lookup(subject, intent.Key); ok {
			if me {
				return fmt.Sprintf("Your %s: %s", intent.Key, v)
			}
			return fmt.Sprintf("%s's %s: %s", subject, intent.Key, v)
		}
		if me {
			return fmt.Sprintf("I don't have your %s yet.", intent.Key)
		}
		return fmt.Sprintf("I don't have %s's %s yet.", subject, intent.Key)
	}

	var facts []models.Fact
	for _, alias := range aliasesFor(subject) {
		if facts = a.store.AllFacts(factDumpLimit, alias); len(facts) > 0 {
			break
		}
	}
	if len(facts) == 0 {
		if me {
			return "I haven't saved anything yet."
		}
		return fmt.Sprintf("I haven't saved anything for %s yet.", subject)
	}

	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = f.Key + ": " + f.Value
	}
	if me {
		return "I remember: " + strings.Join(parts, "; ")
	}
	return fmt.Sprintf("I remember about %s: %s", subject, strings.Join(parts, "; "))
}

// lookup tries subject and then its known aliases ("mom" finds "mother")
func (a *Assistant) lookup(subject, key string) (string, bool) {
	for _, alias := range aliasesFor(subject) {
		if rows := a.store.FactsByKey(key, alias); len(rows) > 0 {
			return rows[0].Value, true
		}
	}
	return "", false
}

func (a *Assistant) lastTwo() []core.Message {
	turns := a.store.RecentTurns(2)
	out := make([]core.Message, len(turns))
	for i, t := range turns {
		out[i] = core.Message{FromMe: true, Text: t.UserText}
	}
	return out
}

func subjectOf(intent models.Intent) string {
	return models.NormalizeSubject(intent.Subject)
}

func aliasesFor(subject string) []string {
	if subject == models.DefaultSubject {
		return []string{subject}
	}
	aliases := []string{subject}
	for _, a := range lexical.ExpandAliases(subject) {
		if a != subject {
			aliases = append(aliases, a)
		}
	}
	return aliases
}
