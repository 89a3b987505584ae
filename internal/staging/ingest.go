// Package staging writes extracted entities and relationships into the graph
// store under pending status. Everything it creates is invisible to the
// approved view until a reviewer acts on it.
package staging

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
)

// Labels and relationship types are interpolated into Cypher (they cannot be
// parameterized), so they are restricted to identifier characters.
var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Summary reports what one article's ingest actually did. EndpointMisses
// counts relationship upserts that matched no endpoint pair; the store-level
// no-op is kept but never silent.
type Summary struct {
	NodesUpserted  int `json:"nodes_upserted"`
	NodesSkipped   int `json:"nodes_skipped"`
	RelsUpserted   int `json:"rels_upserted"`
	RelsSkipped    int `json:"rels_skipped"`
	EndpointMisses int `json:"endpoint_misses"`
	QueriesFailed  int `json:"queries_failed"`
}

type Engine struct {
	run neo4jdb.Runner
	log *logger.Logger
}

func NewEngine(run neo4jdb.Runner, log *logger.Logger) *Engine {
	return &Engine{run: run, log: log.With("component", "staging")}
}

// Ingest upserts one article's extraction. Nodes land before relationships so
// edge endpoints introduced by the same article already exist. Each record is
// its own query; a failure is logged and counted, never fatal to the batch.
func (e *Engine) Ingest(ctx context.Context, ext *domain.Extraction, sourceLink string) Summary {
	var sum Summary
	if ext == nil || len(ext.Nodes) == 0 {
		e.log.Info("extraction produced no nodes, skipping ingest", "source", sourceLink)
		return sum
	}

	for _, node := range ext.Nodes {
		if node.Type == "" || node.Name == "" || !labelPattern.MatchString(node.Type) {
			e.log.Warn("skipping invalid node record", "type", node.Type, "name", node.Name)
			sum.NodesSkipped++
			continue
		}
		cypher := fmt.Sprintf(`
MERGE (n:%s {name: $name})
ON CREATE SET n.status = 'pending', n.source = $source
`, node.Type)
		if _, err := e.run.Run(ctx, cypher, map[string]any{
			"name":   node.Name,
			"source": sourceLink,
		}); err != nil {
			e.log.Error("node upsert failed", "name", node.Name, "error", err)
			sum.QueriesFailed++
			continue
		}
		sum.NodesUpserted++
	}

	for _, rel := range ext.Relationships {
		if rel.Source == "" || rel.Target == "" || !labelPattern.MatchString(rel.Relation) {
			e.log.Warn("skipping invalid relationship record",
				"source", rel.Source, "relation", rel.Relation, "target", rel.Target)
			sum.RelsSkipped++
			continue
		}
		cypher := fmt.Sprintf(`
MATCH (a {name: $source_name})
MATCH (b {name: $target_name})
MERGE (a)-[r:%s]->(b)
ON CREATE SET r.status = 'pending', r.source = $source
RETURN elementId(r) AS id
`, rel.Relation)
		records, err := e.run.Run(ctx, cypher, map[string]any{
			"source_name": rel.Source,
			"target_name": rel.Target,
			"source":      sourceLink,
		})
		if err != nil {
			e.log.Error("relationship upsert failed",
				"source", rel.Source, "relation", rel.Relation, "target", rel.Target, "error", err)
			sum.QueriesFailed++
			continue
		}
		if len(records) == 0 {
			// Endpoint matched nothing; the MERGE was a no-op at the store.
			e.log.Warn("relationship endpoint missing, upsert was a no-op",
				"source", rel.Source, "relation", rel.Relation, "target", rel.Target)
			sum.EndpointMisses++
			continue
		}
		sum.RelsUpserted++
	}

	e.log.Info("article staged",
		"source", sourceLink,
		"nodes_upserted", sum.NodesUpserted,
		"nodes_skipped", sum.NodesSkipped,
		"rels_upserted", sum.RelsUpserted,
		"rels_skipped", sum.RelsSkipped,
		"endpoint_misses", sum.EndpointMisses,
		"queries_failed", sum.QueriesFailed)
	return sum
}
