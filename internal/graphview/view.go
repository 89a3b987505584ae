// Package graphview builds and executes the approved-only read queries behind
// the dashboard: the default full-graph view, single-node expansion, and
// vetted natural-language queries.
package graphview

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
	"github.com/cortexintel/cortex/internal/viewcache"
)

// DefaultQuery is the full approved subgraph: every triple where the
// relationship and both endpoints carry approved status.
const DefaultQuery = `MATCH (n {status: 'approved'})-[r {status: 'approved'}]->(m {status: 'approved'}) RETURN n, r, m`

const nodeConnectionsQuery = `
MATCH (n {name: $name, status: 'approved'})-[r {status: 'approved'}]-(m {status: 'approved'})
RETURN type(r) AS rel_type, m.name AS target_name, labels(m)[0] AS target_type`

type Service struct {
	run   neo4jdb.Runner
	cache *viewcache.Cache
	log   *logger.Logger
}

func NewService(run neo4jdb.Runner, cache *viewcache.Cache, log *logger.Logger) *Service {
	return &Service{run: run, cache: cache, log: log.With("component", "graphview")}
}

// Graph executes the default approved-view query, serving and refreshing the
// cache. An empty store yields an empty result, not an error.
func (s *Service) Graph(ctx context.Context) (*domain.GraphResult, error) {
	if cached, ok := s.cache.GetGraph(ctx); ok {
		return cached, nil
	}
	result, err := s.runGraphQuery(ctx, DefaultQuery)
	if err != nil {
		return nil, err
	}
	s.cache.SetGraph(ctx, result)
	return result, nil
}

// QueryGraph runs a caller-supplied Cypher query after the read-only and
// approved-filter guard. A query that fails the guard falls back to the
// default view rather than reaching the store.
func (s *Service) QueryGraph(ctx context.Context, cypher string) (*domain.GraphResult, error) {
	if err := ValidateCypher(cypher); err != nil {
		s.log.Warn("generated query rejected, falling back to default view",
			"error", err, "query", cypher)
		return s.Graph(ctx)
	}
	return s.runGraphQuery(ctx, cypher)
}

func (s *Service) runGraphQuery(ctx context.Context, cypher string) (*domain.GraphResult, error) {
	records, err := s.run.Run(ctx, cypher, nil)
	if err != nil {
		return nil, fmt.Errorf("graphview: run graph query: %w", err)
	}
	return collectElements(records), nil
}

// collectElements walks every value of every record, deduplicates nodes by
// element id, and keeps edges at natural multiplicity. Anything without
// approved status is dropped here regardless of what the query matched, and
// an edge survives only when both of its endpoints survive too. A query can
// match a relationship whose endpoint is unfiltered or still pending; such an
// edge must not reach the view, and must never dangle against the node set.
func collectElements(records []*neo4j.Record) *domain.GraphResult {
	result := &domain.GraphResult{
		Nodes: []domain.GraphNode{},
		Edges: []domain.GraphEdge{},
	}
	seen := make(map[string]bool)

	for _, rec := range records {
		for _, value := range rec.Values {
			if v, ok := value.(neo4j.Node); ok {
				if !approvedProps(v.Props) || seen[v.ElementId] {
					continue
				}
				seen[v.ElementId] = true
				result.Nodes = append(result.Nodes, domain.GraphNode{
					ID:   v.ElementId,
					Name: propString(v.Props, "name"),
					Type: firstLabel(v.Labels),
				})
			}
		}
	}

	for _, rec := range records {
		for _, value := range rec.Values {
			if v, ok := value.(neo4j.Relationship); ok {
				if !approvedProps(v.Props) || !seen[v.StartElementId] || !seen[v.EndElementId] {
					continue
				}
				result.Edges = append(result.Edges, domain.GraphEdge{
					ID:     v.ElementId,
					Source: v.StartElementId,
					Target: v.EndElementId,
					Type:   v.Type,
				})
			}
		}
	}
	return result
}

// NodeConnections expands one approved entity: every approved neighbor
// reached over an approved relationship.
func (s *Service) NodeConnections(ctx context.Context, name string) ([]domain.Neighbor, error) {
	records, err := s.run.Run(ctx, nodeConnectionsQuery, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("graphview: node connections: %w", err)
	}
	neighbors := make([]domain.Neighbor, 0, len(records))
	for _, rec := range records {
		neighbors = append(neighbors, domain.Neighbor{
			RelType:    recordString(rec, "rel_type"),
			TargetName: recordString(rec, "target_name"),
			TargetType: recordString(rec, "target_type"),
		})
	}
	return neighbors, nil
}

func approvedProps(props map[string]any) bool {
	status, err := domain.ParseStatus(props["status"])
	return err == nil && status == domain.StatusApproved
}

func propString(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func firstLabel(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

func recordString(rec *neo4j.Record, key string) string {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}
