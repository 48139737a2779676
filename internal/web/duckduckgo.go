package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

type ddgTopic struct {
	FirstURL string     `json:"FirstURL"`
	Text     string     `json:"Text"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	AbstractText  string     `json:"AbstractText"`
	Answer        any        `json:"Answer"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// DuckDuckGo queries the Instant Answer API
func (p *Provider) DuckDuckGo(ctx context.Context, query string) Answer {
	u := fmt.Sprintf("%s?q=%s&format=json&no_redirect=1&no_html=1", p.endpoints.DuckDuckGo, url.QueryEscape(query))

	resp, err := p.get(ctx, u, "application/json")
	if err != nil {
		p.logger.Warn("duckduckgo request failed", zap.Error(err))
		return Answer{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("duckduckgo bad status", zap.Int("status", resp.StatusCode))
		return Answer{}
	}

	var body ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.logger.Warn("duckduckgo decode failed", zap.Error(err))
		return Answer{}
	}

	summary := body.AbstractText
	if summary == "" {
		// Answer is a string for most queries and an object for calculators
		if s, ok := body.Answer.(string); ok {
			summary = s
		}
	}

	answer := Answer{Summary: clean(summary)}
	add := func(t ddgTopic) {
		title := t.Text
		if title == "" {
			title = t.Name
		}
		title = clean(title)
		if title != "" && t.FirstURL != "" {
			answer.Links = append(answer.Links, Link{Title: title, URL: t.FirstURL})
		}
	}

	for _, t := range body.RelatedTopics {
		if len(t.Topics) > 0 {
			for _, sub := range t.Topics {
				add(sub)
				if len(answer.Links) >= maxLinks {
					break
				}
			}
		} else {
			add(t)
		}
		if len(answer.Links) >= maxLinks {
			break
		}
	}

	return answer
}
