// Package extract turns raw article text into a structured entity and
// relationship payload with one LLM call. Extraction failures are per-article:
// the caller skips the article and moves on.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/anthropic"
	"github.com/cortexintel/cortex/internal/platform/logger"
)

const systemPrompt = `You are an expert cyber threat intelligence analyst.
Your task is to read the provided text and extract threat intelligence
entities and their relationships.

You must extract the following entities (nodes):
- Actor: Threat groups or actors (e.g. 'ShadowStalker', 'Lazarus Group').
- TTP: Tactics, Techniques and Procedures (e.g. 'Phishing', 'CVE-2024-1234').
- Malware: Names of malicious software (e.g. 'EchoViper', 'WannaCry').
- Infrastructure: IPs, domains, URLs (e.g. '198.51.100.25', 'control.shadow-ops.net').
- Tool: Tools used by the actors (e.g. 'CobaltStrike', 'Mimikatz').

Format your answer as a SINGLE JSON object with two keys:
1. "nodes": a list of objects, one per unique entity, each with:
  - "type": the entity type (e.g. 'Actor', 'Malware', 'TTP', 'Infrastructure', 'Tool').
  - "name": the name or value of the entity (e.g. 'ShadowStalker', 'CVE-2024-1234').
2. "relationships": a list of 3-element lists describing connections between
  entities, in the format [ [source_entity, "RELATION", target_entity] ].
  - source_entity: the name of the source entity.
  - "RELATION": the action type, e.g. "USES", "TARGETS", "EXPLOITS",
    "COMMUNICATES_WITH", "ALSO_KNOWN_AS", "DEPLOYS".
  - target_entity: the name of the target entity.

Important rules:
- Entity names in "relationships" must match the names in "nodes" EXACTLY.
- Respond with the JSON object only. No greeting, explanation or preamble.`

type Extractor struct {
	llm anthropic.Client
	log *logger.Logger
}

func New(llm anthropic.Client, log *logger.Logger) *Extractor {
	return &Extractor{llm: llm, log: log.With("component", "extract")}
}

// Extract sends one article's text to the model and parses the structured
// payload. A non-JSON reply or API failure is an error; the article is skipped
// upstream.
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract: empty article text")
	}

	e.log.Debug("sending text for extraction", "chars", len(text))
	reply, err := e.llm.Complete(ctx, systemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("extract: llm call: %w", err)
	}

	var ext domain.Extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &ext); err != nil {
		return nil, fmt.Errorf("extract: model returned invalid JSON: %w", err)
	}
	return &ext, nil
}
