package feeds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.yaml")
	content := `feeds:
  - url: https://isc.sans.edu/rssfeed.xml
    mode: direct
  - url: https://cloudblog.withgoogle.com/topics/threat-intelligence/rss/
    mode: follow
    selector: article
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(cfg.Feeds))
	}
	if cfg.Feeds[1].Mode != "follow" || cfg.Feeds[1].Selector != "article" {
		t.Fatalf("unexpected follow feed: %+v", cfg.Feeds[1])
	}
}

func TestLoadConfigRejectsFollowWithoutSelector(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.yaml")
	content := `feeds:
  - url: https://example.com/rss
    mode: follow
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for follow feed without selector")
	}
}

func TestLoadConfigRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.yaml")
	if err := os.WriteFile(path, []byte("feeds: []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for empty feed list")
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<div><h1>EchoViper Campaign</h1><p>The actor <b>ShadowStalker</b> deployed new malware.</p></div>`
	text := HTMLToText(html)
	if text == "" {
		t.Fatal("expected non-empty text")
	}
	for _, want := range []string{"EchoViper Campaign", "ShadowStalker"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q: %q", want, text)
		}
	}
	if strings.Contains(text, "<p>") || strings.Contains(text, "<b>") {
		t.Fatalf("markup leaked into text: %q", text)
	}
}

func TestLoadArticlesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.json")
	content := `[
		{"title": "EchoViper Campaign", "link": "https://example.com/a1", "published": "2024-05-01", "raw_text": "ShadowStalker deployed EchoViper."}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write articles: %v", err)
	}

	articles, err := LoadArticlesFile(path)
	if err != nil {
		t.Fatalf("LoadArticlesFile: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Link != "https://example.com/a1" || articles[0].RawText == "" {
		t.Fatalf("unexpected article: %+v", articles[0])
	}
}

func TestLoadArticlesFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write articles: %v", err)
	}
	if _, err := LoadArticlesFile(path); err == nil {
		t.Fatal("expected error for malformed articles file")
	}
}
