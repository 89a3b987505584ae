package graphview

import (
	"fmt"
	"regexp"
	"strings"
)

// The translator prompt promises read-only, approved-filtered queries, but
// the model output is untrusted input. ValidateCypher enforces the contract
// statically before anything reaches the store.

var writeClausePattern = regexp.MustCompile(
	`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|FOREACH|LOAD\s+CSV|CALL)\b`)

var approvedFilterPattern = regexp.MustCompile(
	`(?i)status\s*:\s*['"]approved['"]|status\s*=\s*['"]approved['"]`)

// ValidateCypher accepts a query only if it is a single MATCH/RETURN read
// statement and filters on approved status. Everything else is rejected and
// the caller falls back to the default view.
func ValidateCypher(cypher string) error {
	q := strings.TrimSpace(cypher)
	if q == "" {
		return fmt.Errorf("empty query")
	}
	if strings.Contains(q, ";") {
		return fmt.Errorf("multiple statements not allowed")
	}
	upper := strings.ToUpper(q)
	if !strings.HasPrefix(upper, "MATCH") {
		return fmt.Errorf("query must start with MATCH")
	}
	if !strings.Contains(upper, "RETURN") {
		return fmt.Errorf("query must have a RETURN clause")
	}
	if loc := writeClausePattern.FindString(q); loc != "" {
		return fmt.Errorf("write or procedure clause %q not allowed", strings.ToUpper(loc))
	}
	if !approvedFilterPattern.MatchString(q) {
		return fmt.Errorf("query does not filter on approved status")
	}
	return nil
}
