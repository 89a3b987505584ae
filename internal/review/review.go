// Package review drives the human approval loop over staged graph data. Two
// independent lanes (nodes, relationships) share the same approve/reject
// contract; each lane's current item is ephemeral session state, never
// persisted in the store.
package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/platform/neo4jdb"
	"github.com/cortexintel/cortex/internal/viewcache"
)

const (
	nextPendingNodeQuery = `
MATCH (n)
WHERE n.status = 'pending'
RETURN n.name AS name, labels(n)[0] AS type, n.source AS source, elementId(n) AS id
LIMIT 1`

	approveNodeQuery = `MATCH (n) WHERE elementId(n) = $id SET n.status = 'approved'`

	// Rejecting a node cascades: every incident relationship goes with it.
	rejectNodeQuery = `MATCH (n) WHERE elementId(n) = $id DETACH DELETE n`

	nextPendingRelQuery = `
MATCH (a)-[r {status: 'pending'}]->(b)
RETURN
    elementId(r) AS id,
    type(r) AS rel_type,
    r.source AS source,
    a.name AS source_name,
    labels(a)[0] AS source_type,
    b.name AS target_name,
    labels(b)[0] AS target_type
LIMIT 1`

	approveRelQuery = `MATCH ()-[r]-() WHERE elementId(r) = $id SET r.status = 'approved'`

	rejectRelQuery = `MATCH ()-[r]-() WHERE elementId(r) = $id DELETE r`
)

// NodeDecision reports whether a decision was applied and what the lane shows
// next. Acted is false when there was nothing to act on.
type NodeDecision struct {
	Acted bool                `json:"acted"`
	Next  *domain.PendingNode `json:"next"`
}

type RelationshipDecision struct {
	Acted bool                        `json:"acted"`
	Next  *domain.PendingRelationship `json:"next"`
}

type Service struct {
	run   neo4jdb.Runner
	cache *viewcache.Cache
	log   *logger.Logger

	mu          sync.Mutex
	currentNode *domain.PendingNode
	currentRel  *domain.PendingRelationship
}

func NewService(run neo4jdb.Runner, cache *viewcache.Cache, log *logger.Logger) *Service {
	return &Service{run: run, cache: cache, log: log.With("component", "review")}
}

// NextNode fetches some still-pending node (store order, no tie-break) and
// makes it the node lane's current item. A nil result means the lane is
// exhausted.
func (s *Service) NextNode(ctx context.Context) (*domain.PendingNode, error) {
	records, err := s.run.Run(ctx, nextPendingNodeQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("review: fetch next pending node: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(records) == 0 {
		s.currentNode = nil
		return nil, nil
	}
	node := &domain.PendingNode{
		ID:     recordString(records[0], "id"),
		Name:   recordString(records[0], "name"),
		Type:   recordString(records[0], "type"),
		Source: recordString(records[0], "source"),
	}
	s.currentNode = node
	return node, nil
}

// ApproveNode flips exactly one node to approved, identified by element id.
// An empty id targets the lane's current item; with no current item the call
// is a no-op. The lane advances to the next pending node either way.
func (s *Service) ApproveNode(ctx context.Context, id string) (NodeDecision, error) {
	return s.decideNode(ctx, id, approveNodeQuery, "approved node")
}

// RejectNode detach-deletes the node: the node and all incident
// relationships, pending or approved, are removed.
func (s *Service) RejectNode(ctx context.Context, id string) (NodeDecision, error) {
	return s.decideNode(ctx, id, rejectNodeQuery, "rejected node")
}

func (s *Service) decideNode(ctx context.Context, id, query, action string) (NodeDecision, error) {
	s.mu.Lock()
	if id == "" && s.currentNode != nil {
		id = s.currentNode.ID
	}
	s.mu.Unlock()

	if id == "" {
		next, err := s.NextNode(ctx)
		return NodeDecision{Acted: false, Next: next}, err
	}

	if _, err := s.run.Run(ctx, query, map[string]any{"id": id}); err != nil {
		return NodeDecision{}, fmt.Errorf("review: %s: %w", action, err)
	}
	s.log.Info(action, "id", id)
	s.cache.Invalidate(ctx)

	s.mu.Lock()
	if s.currentNode != nil && s.currentNode.ID == id {
		s.currentNode = nil
	}
	s.mu.Unlock()

	next, err := s.NextNode(ctx)
	if err != nil {
		return NodeDecision{Acted: true}, err
	}
	return NodeDecision{Acted: true, Next: next}, nil
}

// NextRelationship fetches some still-pending relationship with both endpoint
// names and types, and makes it the relationship lane's current item. The
// node lane's state is untouched.
func (s *Service) NextRelationship(ctx context.Context) (*domain.PendingRelationship, error) {
	records, err := s.run.Run(ctx, nextPendingRelQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("review: fetch next pending relationship: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(records) == 0 {
		s.currentRel = nil
		return nil, nil
	}
	rel := &domain.PendingRelationship{
		ID:         recordString(records[0], "id"),
		RelType:    recordString(records[0], "rel_type"),
		Source:     recordString(records[0], "source"),
		SourceName: recordString(records[0], "source_name"),
		SourceType: recordString(records[0], "source_type"),
		TargetName: recordString(records[0], "target_name"),
		TargetType: recordString(records[0], "target_type"),
	}
	s.currentRel = rel
	return rel, nil
}

// ApproveRelationship flips exactly one relationship to approved. Endpoint
// nodes are untouched; the relationship only surfaces in the approved view
// once they are approved too.
func (s *Service) ApproveRelationship(ctx context.Context, id string) (RelationshipDecision, error) {
	return s.decideRelationship(ctx, id, approveRelQuery, "approved relationship")
}

// RejectRelationship deletes only the relationship; both endpoint nodes
// remain.
func (s *Service) RejectRelationship(ctx context.Context, id string) (RelationshipDecision, error) {
	return s.decideRelationship(ctx, id, rejectRelQuery, "rejected relationship")
}

func (s *Service) decideRelationship(ctx context.Context, id, query, action string) (RelationshipDecision, error) {
	s.mu.Lock()
	if id == "" && s.currentRel != nil {
		id = s.currentRel.ID
	}
	s.mu.Unlock()

	if id == "" {
		next, err := s.NextRelationship(ctx)
		return RelationshipDecision{Acted: false, Next: next}, err
	}

	if _, err := s.run.Run(ctx, query, map[string]any{"id": id}); err != nil {
		return RelationshipDecision{}, fmt.Errorf("review: %s: %w", action, err)
	}
	s.log.Info(action, "id", id)
	s.cache.Invalidate(ctx)

	s.mu.Lock()
	if s.currentRel != nil && s.currentRel.ID == id {
		s.currentRel = nil
	}
	s.mu.Unlock()

	next, err := s.NextRelationship(ctx)
	if err != nil {
		return RelationshipDecision{Acted: true}, err
	}
	return RelationshipDecision{Acted: true, Next: next}, nil
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
