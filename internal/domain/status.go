package domain

import (
	"fmt"
	"strings"
)

// Status is the review lifecycle tag carried by every entity and relationship.
// Exactly two values exist; anything else read back from the store is a data
// defect and is rejected by ParseStatus.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved
}

// ParseStatus normalizes a raw store property into the closed enum. Unknown
// values are errors, never propagated.
func ParseStatus(raw any) (Status, error) {
	str, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("status is not a string: %T", raw)
	}
	s := Status(strings.ToLower(strings.TrimSpace(str)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", str)
	}
	return s, nil
}
