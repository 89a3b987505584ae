// The pipeline command is one ETL run: crawl (or load) articles, extract
// entities with the LLM, and stage everything as pending in the graph store.
// Articles are processed strictly one after another; a failed article never
// aborts the run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/extract"
	"github.com/cortexintel/cortex/internal/feeds"
	"github.com/cortexintel/cortex/internal/platform/anthropic"
	"github.com/cortexintel/cortex/internal/platform/envutil"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
	"github.com/cortexintel/cortex/internal/staging"
)

func main() {
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.With("run_id", runID)
	ctx := context.Background()

	// Required configuration is checked before any work starts.
	llm, err := anthropic.NewFromEnv(log)
	if err != nil {
		log.Fatal("pipeline aborted", "error", err)
	}
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("pipeline aborted", "error", err)
	}
	defer graphClient.Close(ctx)

	articles, err := loadArticles(ctx, log)
	if err != nil {
		log.Fatal("pipeline aborted", "error", err)
	}
	if len(articles) == 0 {
		log.Info("no articles to process")
		return
	}
	log.Info("articles loaded", "count", len(articles))

	extractor := extract.New(llm, log)
	engine := staging.NewEngine(graphClient, log)

	var total staging.Summary
	for i, article := range articles {
		log.Info("processing article", "index", i+1, "total", len(articles), "title", article.Title)
		if strings.TrimSpace(article.RawText) == "" {
			log.Warn("article has no raw text, skipping", "title", article.Title)
			continue
		}

		ext, err := extractor.Extract(ctx, article.RawText)
		if err != nil {
			log.Warn("extraction failed, skipping article", "title", article.Title, "error", err)
			continue
		}

		sum := engine.Ingest(ctx, ext, article.Link)
		total.NodesUpserted += sum.NodesUpserted
		total.NodesSkipped += sum.NodesSkipped
		total.RelsUpserted += sum.RelsUpserted
		total.RelsSkipped += sum.RelsSkipped
		total.EndpointMisses += sum.EndpointMisses
		total.QueriesFailed += sum.QueriesFailed
	}

	log.Info("pipeline finished",
		"nodes_upserted", total.NodesUpserted,
		"nodes_skipped", total.NodesSkipped,
		"rels_upserted", total.RelsUpserted,
		"rels_skipped", total.RelsSkipped,
		"endpoint_misses", total.EndpointMisses,
		"queries_failed", total.QueriesFailed)
}

// loadArticles reads a pre-crawled dump when ARTICLES_FILE is set, otherwise
// crawls the configured feeds. A crawl can be saved with ARTICLES_OUT.
func loadArticles(ctx context.Context, log *logger.Logger) ([]domain.Article, error) {
	if path := strings.TrimSpace(os.Getenv("ARTICLES_FILE")); path != "" {
		return feeds.LoadArticlesFile(path)
	}

	cfgPath := envutil.Str("FEEDS_CONFIG", "feeds.yaml")
	cfg, err := feeds.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	articles := feeds.NewCrawler(log).Crawl(ctx, cfg)

	if out := strings.TrimSpace(os.Getenv("ARTICLES_OUT")); out != "" && len(articles) > 0 {
		raw, err := json.MarshalIndent(articles, "", "  ")
		if err == nil {
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				log.Warn("could not save crawled articles", "path", out, "error", err)
			}
		}
	}
	return articles, nil
}
