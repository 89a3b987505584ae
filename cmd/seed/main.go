// The seed command loads the built-in trusted reports. This is the privileged
// administrative path: data lands approved, bypassing review.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cortexintel/cortex/internal/platform/envutil"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
	"github.com/cortexintel/cortex/internal/seed"
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

	for _, report := range seed.BuiltinReports {
		if err := seed.Ingest(ctx, graphClient, log, report); err != nil {
			log.Error("seed report failed", "report", report.Name, "error", err)
		}
	}
	log.Info("seeding finished", "reports", len(seed.BuiltinReports))
}
