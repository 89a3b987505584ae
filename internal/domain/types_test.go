package domain

import (
	"encoding/json"
	"testing"
)

func TestExtractionUnmarshal(t *testing.T) {
	raw := `{
		"nodes": [
			{"type": "Actor", "name": "ShadowStalker"},
			{"type": "Malware", "name": "EchoViper"}
		],
		"relationships": [
			["ShadowStalker", "USES", "EchoViper"]
		]
	}`
	var ext Extraction
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ext.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(ext.Nodes))
	}
	if ext.Nodes[0].Type != TypeActor || ext.Nodes[0].Name != "ShadowStalker" {
		t.Fatalf("unexpected first node: %+v", ext.Nodes[0])
	}
	if len(ext.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(ext.Relationships))
	}
	rel := ext.Relationships[0]
	if rel.Source != "ShadowStalker" || rel.Relation != RelUses || rel.Target != "EchoViper" {
		t.Fatalf("unexpected relationship: %+v", rel)
	}
}

func TestTripleUnmarshalWrongArity(t *testing.T) {
	var tr Triple
	if err := json.Unmarshal([]byte(`["a", "USES"]`), &tr); err == nil {
		t.Fatal("expected error for 2-element triple")
	}
	if err := json.Unmarshal([]byte(`["a", "USES", "b", "c"]`), &tr); err == nil {
		t.Fatal("expected error for 4-element triple")
	}
	if err := json.Unmarshal([]byte(`"not an array"`), &tr); err == nil {
		t.Fatal("expected error for non-array triple")
	}
}

func TestTripleRoundTrip(t *testing.T) {
	in := Triple{Source: "EchoViper", Relation: RelCommunicatesWith, Target: "198.51.100.25"}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Triple
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}
