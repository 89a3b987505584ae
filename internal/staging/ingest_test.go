package staging

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/logger"
)

type runCall struct {
	cypher string
	params map[string]any
}

type fakeRunner struct {
	calls   []runCall
	respond func(cypher string, params map[string]any) ([]*neo4j.Record, error)
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	f.calls = append(f.calls, runCall{cypher: cypher, params: params})
	if f.respond != nil {
		return f.respond(cypher, params)
	}
	return nil, nil
}

func relRecord(id string) []*neo4j.Record {
	return []*neo4j.Record{{Keys: []string{"id"}, Values: []any{id}}}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestIngestNodesBeforeRelationships(t *testing.T) {
	run := &fakeRunner{
		respond: func(cypher string, _ map[string]any) ([]*neo4j.Record, error) {
			if strings.Contains(cypher, "MERGE (a)-[r:") {
				return relRecord("rel-1"), nil
			}
			return nil, nil
		},
	}
	engine := NewEngine(run, testLogger(t))

	ext := &domain.Extraction{
		Nodes: []domain.ExtractedNode{
			{Type: "Actor", Name: "ShadowStalker"},
			{Type: "Malware", Name: "EchoViper"},
		},
		Relationships: []domain.Triple{
			{Source: "ShadowStalker", Relation: "USES", Target: "EchoViper"},
		},
	}
	sum := engine.Ingest(context.Background(), ext, "https://example.com/a1")

	if sum.NodesUpserted != 2 || sum.RelsUpserted != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(run.calls) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(run.calls))
	}
	// Node upserts must precede the relationship upsert.
	for i := 0; i < 2; i++ {
		if !strings.Contains(run.calls[i].cypher, "MERGE (n:") {
			t.Fatalf("call %d is not a node upsert: %s", i, run.calls[i].cypher)
		}
	}
	if !strings.Contains(run.calls[2].cypher, "MERGE (a)-[r:USES]->(b)") {
		t.Fatalf("last call is not the relationship upsert: %s", run.calls[2].cypher)
	}
}

func TestIngestStagingSemantics(t *testing.T) {
	run := &fakeRunner{
		respond: func(cypher string, _ map[string]any) ([]*neo4j.Record, error) {
			if strings.Contains(cypher, "MERGE (a)-[r:") {
				return relRecord("rel-1"), nil
			}
			return nil, nil
		},
	}
	engine := NewEngine(run, testLogger(t))

	ext := &domain.Extraction{
		Nodes:         []domain.ExtractedNode{{Type: "Actor", Name: "ShadowStalker"}},
		Relationships: []domain.Triple{{Source: "ShadowStalker", Relation: "USES", Target: "ShadowStalker"}},
	}
	engine.Ingest(context.Background(), ext, "https://example.com/a1")

	for _, call := range run.calls {
		// Status and provenance are set ON CREATE only: re-ingesting an
		// approved item must never downgrade it.
		if !strings.Contains(call.cypher, "ON CREATE SET") {
			t.Fatalf("query does not scope status to creation: %s", call.cypher)
		}
		if strings.Contains(call.cypher, "ON MATCH") {
			t.Fatalf("query mutates matched records: %s", call.cypher)
		}
		if !strings.Contains(call.cypher, "status = 'pending'") {
			t.Fatalf("query does not stage as pending: %s", call.cypher)
		}
		if call.params["source"] != "https://example.com/a1" {
			t.Fatalf("query missing source param: %+v", call.params)
		}
	}
}

func TestIngestSkipsInvalidRecords(t *testing.T) {
	run := &fakeRunner{}
	engine := NewEngine(run, testLogger(t))

	ext := &domain.Extraction{
		Nodes: []domain.ExtractedNode{
			{Type: "", Name: "NoType"},
			{Type: "Actor", Name: ""},
			{Type: "Actor;DROP", Name: "Injection"},
			{Type: "Tool", Name: "Mimikatz"},
		},
		Relationships: []domain.Triple{
			{Source: "", Relation: "USES", Target: "Mimikatz"},
			{Source: "Mimikatz", Relation: "BAD TYPE", Target: "x"},
		},
	}
	sum := engine.Ingest(context.Background(), ext, "src")

	if sum.NodesUpserted != 1 {
		t.Fatalf("expected 1 node upserted, got %d", sum.NodesUpserted)
	}
	if sum.NodesSkipped != 3 {
		t.Fatalf("expected 3 nodes skipped, got %d", sum.NodesSkipped)
	}
	if sum.RelsSkipped != 2 {
		t.Fatalf("expected 2 relationships skipped, got %d", sum.RelsSkipped)
	}
	if len(run.calls) != 1 {
		t.Fatalf("invalid records must not reach the store, got %d calls", len(run.calls))
	}
}

func TestIngestQueryFailureIsIsolated(t *testing.T) {
	run := &fakeRunner{
		respond: func(_ string, params map[string]any) ([]*neo4j.Record, error) {
			if params["name"] == "Broken" {
				return nil, errors.New("constraint violation")
			}
			return nil, nil
		},
	}
	engine := NewEngine(run, testLogger(t))

	ext := &domain.Extraction{
		Nodes: []domain.ExtractedNode{
			{Type: "Actor", Name: "Broken"},
			{Type: "Actor", Name: "Fine"},
		},
	}
	sum := engine.Ingest(context.Background(), ext, "src")

	if sum.QueriesFailed != 1 {
		t.Fatalf("expected 1 failed query, got %d", sum.QueriesFailed)
	}
	if sum.NodesUpserted != 1 {
		t.Fatalf("sibling record should still ingest, got %d upserted", sum.NodesUpserted)
	}
}

func TestIngestCountsEndpointMisses(t *testing.T) {
	run := &fakeRunner{
		respond: func(cypher string, _ map[string]any) ([]*neo4j.Record, error) {
			// The relationship MERGE matches nothing: zero records back.
			return nil, nil
		},
	}
	engine := NewEngine(run, testLogger(t))

	ext := &domain.Extraction{
		Nodes: []domain.ExtractedNode{{Type: "Actor", Name: "ShadowStalker"}},
		Relationships: []domain.Triple{
			{Source: "ShadowStalker", Relation: "USES", Target: "NeverIngested"},
		},
	}
	sum := engine.Ingest(context.Background(), ext, "src")

	if sum.EndpointMisses != 1 {
		t.Fatalf("expected 1 endpoint miss, got %d", sum.EndpointMisses)
	}
	if sum.RelsUpserted != 0 {
		t.Fatalf("expected 0 relationships upserted, got %d", sum.RelsUpserted)
	}
}

func TestIngestEmptyExtraction(t *testing.T) {
	run := &fakeRunner{}
	engine := NewEngine(run, testLogger(t))

	sum := engine.Ingest(context.Background(), nil, "src")
	if len(run.calls) != 0 {
		t.Fatalf("nil extraction must not hit the store")
	}
	if sum != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", sum)
	}

	sum = engine.Ingest(context.Background(), &domain.Extraction{}, "src")
	if len(run.calls) != 0 || sum != (Summary{}) {
		t.Fatalf("empty extraction must be a no-op, got %+v", sum)
	}
}
