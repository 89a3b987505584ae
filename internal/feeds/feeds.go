// Package feeds crawls threat intelligence RSS feeds into article records.
// Two feed shapes exist: feeds whose entries carry the full article body, and
// summary-only feeds where the entry link must be followed and the body
// scraped with a per-site CSS selector.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/logger"
)

// FeedConfig describes one source feed. Mode is "direct" (body in the feed
// entry) or "follow" (fetch entry link, extract with Selector).
type FeedConfig struct {
	URL      string `yaml:"url"`
	Mode     string `yaml:"mode"`
	Selector string `yaml:"selector"`
}

type Config struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feeds: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("feeds: parse config: %w", err)
	}
	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("feeds: config lists no feeds")
	}
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return nil, fmt.Errorf("feeds: feed %d has no url", i)
		}
		if f.Mode == "follow" && f.Selector == "" {
			return nil, fmt.Errorf("feeds: follow feed %s has no selector", f.URL)
		}
	}
	return &cfg, nil
}

type Crawler struct {
	parser     *gofeed.Parser
	httpClient *http.Client
	log        *logger.Logger
}

func NewCrawler(log *logger.Logger) *Crawler {
	return &Crawler{
		parser:     gofeed.NewParser(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With("component", "feeds"),
	}
}

// Crawl fetches every configured feed and returns the articles it could
// extract. Per-feed and per-entry failures are logged and skipped.
func (c *Crawler) Crawl(ctx context.Context, cfg *Config) []domain.Article {
	var articles []domain.Article
	for _, feedCfg := range cfg.Feeds {
		feed, err := c.parser.ParseURLWithContext(feedCfg.URL, ctx)
		if err != nil {
			c.log.Error("feed fetch failed", "url", feedCfg.URL, "error", err)
			continue
		}
		c.log.Info("feed fetched", "url", feedCfg.URL, "entries", len(feed.Items))

		for _, item := range feed.Items {
			var text string
			switch feedCfg.Mode {
			case "follow":
				text = c.fetchArticleBody(ctx, item.Link, feedCfg.Selector)
			default:
				text = directText(item)
			}
			if text == "" {
				c.log.Warn("entry yielded no text, skipping", "title", item.Title)
				continue
			}
			articles = append(articles, domain.Article{
				Title:     item.Title,
				Link:      item.Link,
				Published: item.Published,
				RawText:   text,
			})
		}
	}
	return articles
}

// directText extracts the body from the entry itself, preferring full content
// over the summary.
func directText(item *gofeed.Item) string {
	html := item.Content
	if strings.TrimSpace(html) == "" {
		html = item.Description
	}
	if strings.TrimSpace(html) == "" {
		return ""
	}
	return HTMLToText(html)
}

// fetchArticleBody follows the entry link and extracts the node matched by
// the configured CSS selector.
func (c *Crawler) fetchArticleBody(ctx context.Context, link, selector string) string {
	if link == "" {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("article fetch failed", "link", link, "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("article fetch bad status", "link", link, "status", resp.StatusCode)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.log.Warn("article parse failed", "link", link, "error", err)
		return ""
	}
	block := doc.Find(selector).First()
	if block.Length() == 0 {
		c.log.Warn("selector matched nothing", "link", link, "selector", selector)
		return ""
	}
	return normalizeWhitespace(block.Text())
}

// HTMLToText strips markup from an HTML fragment, joining text blocks with
// newlines.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return normalizeWhitespace(doc.Text())
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// LoadArticlesFile reads a pre-crawled article dump, the JSON the crawler
// command writes. Lets the pipeline rerun extraction without refetching.
func LoadArticlesFile(path string) ([]domain.Article, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feeds: read articles file: %w", err)
	}
	var articles []domain.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("feeds: parse articles file: %w", err)
	}
	return articles, nil
}
