// Package translate converts a natural-language question into a Cypher query
// over the approved graph. The prompt promises a read-only, approved-filtered
// (n, r, m) query; graphview re-checks that promise before execution.
package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cortexintel/cortex/internal/platform/anthropic"
	"github.com/cortexintel/cortex/internal/platform/logger"
)

const systemPrompt = `You are an expert translator from natural language to Neo4j Cypher.
Your task is to take a user question and turn it into a Cypher query that
returns a subgraph (nodes and relationships) from a threat intelligence
database.

The graph schema is:
Nodes:
- (:Actor {name: "...", status: "approved"})
- (:Malware {name: "...", status: "approved"})
- (:TTP {name: "...", status: "approved"})
- (:Tool {name: "...", status: "approved"})
- (:Infrastructure {name: "...", status: "approved"})

Relationships:
- [:USES {status: "approved"}]
- [:TARGETS {status: "approved"}]
- ... (all relationships also carry 'status: "approved"')

Rules:
1. Return ONLY the Cypher code. No "Here is the query:", no backtick fences,
   no other text.
2. Your query must ALWAYS return nodes and relationships (RETURN n, r, m).
3. IMPORTANT: every entity (node and relationship) in your query MUST be
   filtered to have the property {status: 'approved'}.

Example questions and answers (Cypher queries):
- Q: Show me everything
  A: MATCH (n {status: 'approved'})-[r {status: 'approved'}]->(m {status: 'approved'}) RETURN n, r, m
- Q: What tools does ShadowStalker use
  A: MATCH (a:Actor {name: 'ShadowStalker', status: 'approved'})-[r:USES {status: 'approved'}]->(t:Tool {status: 'approved'}) RETURN a, r, t
- Q: What does EchoViper communicate with
  A: MATCH (m:Malware {name: 'EchoViper', status: 'approved'})-[r:COMMUNICATES_WITH {status: 'approved'}]->(i:Infrastructure {status: 'approved'}) RETURN m, r, i
- Q: What do you know about CVE-2024-1234
  A: MATCH (n {name: 'CVE-2024-1234', status: 'approved'})-[r {status: 'approved'}]-(m {status: 'approved'}) RETURN n, r, m`

var (
	openFencePattern  = regexp.MustCompile(`(?i)^\s*` + "```" + `cypher\s*`)
	closeFencePattern = regexp.MustCompile(`\s*` + "```" + `\s*$`)
)

type Translator struct {
	llm anthropic.Client
	log *logger.Logger
}

func New(llm anthropic.Client, log *logger.Logger) *Translator {
	return &Translator{llm: llm, log: log.With("component", "translate")}
}

// Translate returns one Cypher query string for the question. Models
// sometimes wrap the code in fences despite the prompt; those are stripped.
func (t *Translator) Translate(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("translate: empty question")
	}
	reply, err := t.llm.Complete(ctx, systemPrompt, question)
	if err != nil {
		return "", fmt.Errorf("translate: llm call: %w", err)
	}
	cypher := StripFences(reply)
	t.log.Debug("translated question to cypher", "query", cypher)
	return cypher, nil
}

// StripFences removes a leading "```cypher" fence and a trailing "```".
func StripFences(s string) string {
	s = openFencePattern.ReplaceAllString(s, "")
	s = closeFencePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
