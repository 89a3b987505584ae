package staging

import (
	"context"

	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
)

var constraintStatements = []string{
	`CREATE CONSTRAINT actors_unique_name IF NOT EXISTS FOR (a:Actor) REQUIRE a.name IS UNIQUE`,
	`CREATE CONSTRAINT malware_unique_name IF NOT EXISTS FOR (m:Malware) REQUIRE m.name IS UNIQUE`,
	`CREATE CONSTRAINT ttp_unique_name IF NOT EXISTS FOR (t:TTP) REQUIRE t.name IS UNIQUE`,
	`CREATE CONSTRAINT tool_unique_name IF NOT EXISTS FOR (t:Tool) REQUIRE t.name IS UNIQUE`,
	`CREATE CONSTRAINT infrastructure_unique_name IF NOT EXISTS FOR (i:Infrastructure) REQUIRE i.name IS UNIQUE`,
	`CREATE CONSTRAINT ip_unique_address IF NOT EXISTS FOR (i:IP) REQUIRE i.address IS UNIQUE`,
	`CREATE CONSTRAINT domain_unique_name IF NOT EXISTS FOR (d:Domain) REQUIRE d.name IS UNIQUE`,
	`CREATE CONSTRAINT report_unique_url IF NOT EXISTS FOR (r:Report) REQUIRE r.url IS UNIQUE`,
}

// EnsureConstraints applies the uniqueness constraints the upsert-by-name
// identity model relies on. Best-effort: failures are logged and skipped so a
// store without schema privileges still ingests.
func EnsureConstraints(ctx context.Context, run neo4jdb.Runner, log *logger.Logger) {
	for _, stmt := range constraintStatements {
		if _, err := run.Run(ctx, stmt, nil); err != nil {
			log.Warn("constraint init failed (continuing)", "error", err)
		}
	}
}
