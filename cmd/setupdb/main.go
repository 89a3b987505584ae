// The setupdb command applies the uniqueness constraints the upsert-by-name
// identity model relies on. Safe to rerun.
package main

import (
	"context"
	"fmt"
	"os"

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

	ctx := context.Background()
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("graph store init failed", "error", err)
	}
	defer graphClient.Close(ctx)

	staging.EnsureConstraints(ctx, graphClient, log)
	log.Info("schema setup finished")
}
