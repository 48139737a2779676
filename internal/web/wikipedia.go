package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

type wikiSearch struct {
	Pages []struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	} `json:"pages"`
}

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Wikipedia finds the best-matching page title and returns its summary
func (p *Provider) Wikipedia(ctx context.Context, query string) Answer {
	var search wikiSearch
	searchURL := fmt.Sprintf("%s/w/rest.php/v1/search/title?q=%s&limit=1", p.endpoints.Wikipedia, url.QueryEscape(query))
	if err := p.getJSON(ctx, searchURL, &search); err != nil {
		p.logger.Warn("wikipedia search failed", zap.Error(err))
		return Answer{}
	}
	if len(search.Pages) == 0 || search.Pages[0].Title == "" {
		return Answer{}
	}
	top := search.Pages[0].Title

	var summary wikiSummary
	summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", p.endpoints.Wikipedia, url.PathEscape(top))
	if err := p.getJSON(ctx, summaryURL, &summary); err != nil {
		p.logger.Warn("wikipedia summary failed", zap.Error(err))
		return Answer{}
	}

	link := summary.ContentURLs.Desktop.Page
	if link == "" {
		link = "https://en.wikipedia.org/wiki/" + url.PathEscape(top)
	}
	title := summary.Title
	if title == "" {
		title = top
	}

	return Answer{
		Summary: clean(summary.Extract),
		Links:   []Link{{Title: title, URL: link}},
	}
}

func (p *Provider) getJSON(ctx context.Context, u string, out any) error {
	resp, err := p.get(ctx, u, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
