// ABOUTME: Web-answer provider routing a question to a free, keyless source
// ABOUTME: Every failure degrades to an empty answer or nil headline
package web

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/logging"
)

const userAgent = "nova-assistant (+https://github.com/harper/nova)"

// maxLinks caps related links collected from one answer
const maxLinks = 5

// Link is one result link
type Link struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Answer is a short summary with supporting links
type Answer struct {
	Summary string `json:"summary,omitempty"`
	Links   []Link `json:"links"`
}

// Headline is the top story of a news feed
type Headline struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Endpoints lets tests point the provider at local servers
type Endpoints struct {
	DuckDuckGo string
	Wikipedia  string
	Joke       string
	News       string
}

// DefaultEndpoints are the public services
func DefaultEndpoints() Endpoints {
	return Endpoints{
		DuckDuckGo: "https://api.duckduckgo.com/",
		Wikipedia:  "https://en.wikipedia.org",
		Joke:       "https://icanhazdadjoke.com/",
		News:       "https://news.google.com/rss",
	}
}

// Provider answers questions from the web
type Provider struct {
	client    *http.Client
	endpoints Endpoints
	logger    *zap.Logger
}

// NewProvider creates a provider with the given request timeout
func NewProvider(endpoints Endpoints, timeout time.Duration, logger *zap.Logger) *Provider {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Provider{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
		logger:    logging.OrNop(logger).Named("web"),
	}
}

var (
	howTo     = regexp.MustCompile(`^\s*how (do i|to)\b`)
	stepsWord = regexp.MustCompile(`\bsteps?\b`)
	explain   = regexp.MustCompile(`\bexplain\b`)
	jokeWord  = regexp.MustCompile(`\bjoke\b`)
	newsWord  = regexp.MustCompile(`\bnews\b`)
	wikiWords = regexp.MustCompile(`\b(who|what|where|when)\b`)
	cookWords = regexp.MustCompile(`\b(recipe|cook|make)\b`)
	cookVerb  = regexp.MustCompile(`(?i)\b(cook|make)\b`)
)

// AnswerFromWeb picks a source for query and returns its answer
func (p *Provider) AnswerFromWeb(ctx context.Context, query string) Answer {
	t := strings.ToLower(query)

	switch {
	case howTo.MatchString(t) || stepsWord.MatchString(t) || explain.MatchString(t):
		return p.DuckDuckGo(ctx, query)
	case jokeWord.MatchString(t):
		return Answer{Summary: p.Joke(ctx)}
	case newsWord.MatchString(t):
		return p.DuckDuckGo(ctx, query)
	case wikiWords.MatchString(t):
		if w := p.Wikipedia(ctx, query); w.Summary != "" {
			return w
		}
		return p.DuckDuckGo(ctx, query)
	case cookWords.MatchString(t):
		loc := cookVerb.FindStringIndex(query)
		if loc != nil {
			query = query[:loc[0]] + "recipe" + query[loc[1]:]
		}
		return p.DuckDuckGo(ctx, "recipe "+query)
	default:
		return p.DuckDuckGo(ctx, query)
	}
}

// TopLink returns the first link of an answer
func TopLink(a Answer) (Link, bool) {
	if len(a.Links) == 0 {
		return Link{}, false
	}
	return a.Links[0], true
}

func (p *Provider) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return p.client.Do(req)
}
