// Package seed is the privileged manual-ingestion path. Unlike AI-extracted
// data it writes trusted reports directly as approved; it never funnels
// through the staging engine.
package seed

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
)

var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Report is one hand-written intelligence report to seed.
type Report struct {
	Name          string
	Source        string
	Nodes         []domain.ExtractedNode
	Relationships []domain.Triple
}

// BuiltinReports are the fixture reports used to bootstrap a fresh store.
var BuiltinReports = []Report{
	{
		Name:   "ShadowStalker uses EchoViper",
		Source: "manual:report-1",
		Nodes: []domain.ExtractedNode{
			{Type: domain.TypeActor, Name: "ShadowStalker"},
			{Type: domain.TypeMalware, Name: "EchoViper"},
			{Type: domain.TypeInfrastructure, Name: "198.51.100.23"},
		},
		Relationships: []domain.Triple{
			{Source: "ShadowStalker", Relation: domain.RelUses, Target: "EchoViper"},
			{Source: "EchoViper", Relation: domain.RelHasInfrastructure, Target: "198.51.100.23"},
		},
	},
	{
		Name:   "ShadowStalker uses ViperLink RAT",
		Source: "manual:report-2",
		Nodes: []domain.ExtractedNode{
			{Type: domain.TypeActor, Name: "ShadowStalker"},
			{Type: domain.TypeMalware, Name: "ViperLink"},
			{Type: domain.TypeInfrastructure, Name: "control.viperlink-c2.com"},
		},
		Relationships: []domain.Triple{
			{Source: "ShadowStalker", Relation: domain.RelUses, Target: "ViperLink"},
			{Source: "ViperLink", Relation: domain.RelHasInfrastructure, Target: "control.viperlink-c2.com"},
		},
	},
}

// Ingest writes one trusted report. Status is set to approved on create only,
// so re-seeding never touches existing data.
func Ingest(ctx context.Context, run neo4jdb.Runner, log *logger.Logger, report Report) error {
	log.Info("seeding report", "report", report.Name)

	for _, node := range report.Nodes {
		if node.Type == "" || node.Name == "" || !labelPattern.MatchString(node.Type) {
			return fmt.Errorf("seed: invalid node %q/%q in report %q", node.Type, node.Name, report.Name)
		}
		cypher := fmt.Sprintf(`
MERGE (n:%s {name: $name})
ON CREATE SET n.status = 'approved', n.source = $source
`, node.Type)
		if _, err := run.Run(ctx, cypher, map[string]any{
			"name":   node.Name,
			"source": report.Source,
		}); err != nil {
			return fmt.Errorf("seed: upsert node %q: %w", node.Name, err)
		}
	}

	for _, rel := range report.Relationships {
		if !labelPattern.MatchString(rel.Relation) {
			return fmt.Errorf("seed: invalid relation %q in report %q", rel.Relation, report.Name)
		}
		cypher := fmt.Sprintf(`
MATCH (a {name: $source_name})
MATCH (b {name: $target_name})
MERGE (a)-[r:%s]->(b)
ON CREATE SET r.status = 'approved', r.source = $source
`, rel.Relation)
		if _, err := run.Run(ctx, cypher, map[string]any{
			"source_name": rel.Source,
			"target_name": rel.Target,
			"source":      report.Source,
		}); err != nil {
			return fmt.Errorf("seed: upsert relationship %s-%s->%s: %w",
				rel.Source, rel.Relation, rel.Target, err)
		}
	}
	return nil
}
