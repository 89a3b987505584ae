package domain

import (
	"encoding/json"
	"fmt"
)

// Entity labels the extractor is instructed to produce. Manual ingestion may
// use ad-hoc labels beyond these (IP, Domain, Report).
const (
	TypeActor          = "Actor"
	TypeMalware        = "Malware"
	TypeTTP            = "TTP"
	TypeTool           = "Tool"
	TypeInfrastructure = "Infrastructure"
)

// KnownEntityTypes in prompt order.
var KnownEntityTypes = []string{TypeActor, TypeTTP, TypeMalware, TypeInfrastructure, TypeTool}

// Relationship labels the extractor is instructed to produce.
const (
	RelUses              = "USES"
	RelTargets           = "TARGETS"
	RelExploits          = "EXPLOITS"
	RelCommunicatesWith  = "COMMUNICATES_WITH"
	RelAlsoKnownAs       = "ALSO_KNOWN_AS"
	RelDeploys           = "DEPLOYS"
	RelHasInfrastructure = "HAS_INFRASTRUCTURE"
)

// Article is one crawled item: feed metadata plus the cleaned body text.
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	RawText   string `json:"raw_text"`
}

// ExtractedNode is one entity record produced by the LLM extractor.
type ExtractedNode struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Triple is one relationship record. The extractor emits it as a three-element
// JSON array [source, relation, target].
type Triple struct {
	Source   string
	Relation string
	Target   string
}

func (t *Triple) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("relationship triple has %d elements, want 3", len(parts))
	}
	t.Source, t.Relation, t.Target = parts[0], parts[1], parts[2]
	return nil
}

func (t Triple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{t.Source, t.Relation, t.Target})
}

// Extraction is the structured payload the LLM returns for one article.
type Extraction struct {
	Nodes         []ExtractedNode `json:"nodes"`
	Relationships []Triple        `json:"relationships"`
}
