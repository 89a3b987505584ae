package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cortexintel/cortex/internal/graphview"
	"github.com/cortexintel/cortex/internal/http/handlers"
	"github.com/cortexintel/cortex/internal/platform/anthropic"
	"github.com/cortexintel/cortex/internal/platform/envutil"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
	"github.com/cortexintel/cortex/internal/review"
	"github.com/cortexintel/cortex/internal/server"
	"github.com/cortexintel/cortex/internal/translate"
	"github.com/cortexintel/cortex/internal/viewcache"
)

func main() {
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("graph store init failed", "error", err)
	}
	defer graphClient.Close(ctx)

	cache := viewcache.NewFromEnv(log)
	defer cache.Close()

	// The translator is optional: without an API key the query endpoint
	// serves the default approved view.
	var translator *translate.Translator
	if llm, err := anthropic.NewFromEnv(log); err != nil {
		log.Warn("anthropic client unavailable, natural-language query disabled", "error", err)
	} else {
		translator = translate.New(llm, log)
	}

	reviewService := review.NewService(graphClient, cache, log)
	viewService := graphview.NewService(graphClient, cache, log)

	router := server.NewRouter(server.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(),
		ReviewHandler: handlers.NewReviewHandler(reviewService),
		GraphHandler:  handlers.NewGraphHandler(viewService, translator, log),
		AllowOrigins:  splitOrigins(os.Getenv("CORS_ALLOW_ORIGINS")),
	})

	port := envutil.Str("PORT", "8080")
	log.Info("server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server failed", "error", err)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
