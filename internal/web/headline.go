package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// TopHeadline returns the first item of the news feed for region
// (a ceid such as "US:en"), or nil.
func (p *Provider) TopHeadline(ctx context.Context, region string) *Headline {
	if region == "" {
		region = "US:en"
	}
	u := fmt.Sprintf("%s?ceid=%s", p.endpoints.News, url.QueryEscape(region))

	resp, err := p.get(ctx, u, "application/rss+xml")
	if err != nil {
		p.logger.Warn("headline request failed", zap.Error(err))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("headline bad status", zap.Int("status", resp.StatusCode))
		return nil
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		p.logger.Warn("headline parse failed", zap.Error(err))
		return nil
	}
	for _, item := range feed.Items {
		title := clean(item.Title)
		if title == "" {
			continue
		}
		return &Headline{Title: title, URL: strings.TrimSpace(item.Link)}
	}
	return nil
}
