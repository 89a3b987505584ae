package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/cortexintel/cortex/internal/platform/logger"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Complete(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"MATCH (n) RETURN n", "MATCH (n) RETURN n"},
		{"```cypher\nMATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
		{"```CYPHER\nMATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
		{"  MATCH (n) RETURN n  ", "MATCH (n) RETURN n"},
		{"MATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
	}
	for _, c := range cases {
		if got := StripFences(c.in); got != c.want {
			t.Fatalf("StripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTranslate(t *testing.T) {
	llm := &fakeLLM{reply: "```cypher\nMATCH (n {status: 'approved'}) RETURN n\n```"}
	tr := New(llm, testLogger(t))

	cypher, err := tr.Translate(context.Background(), "show me everything")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if cypher != "MATCH (n {status: 'approved'}) RETURN n" {
		t.Fatalf("unexpected cypher: %q", cypher)
	}
}

func TestTranslateEmptyQuestion(t *testing.T) {
	tr := New(&fakeLLM{}, testLogger(t))
	if _, err := tr.Translate(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestTranslatePropagatesError(t *testing.T) {
	tr := New(&fakeLLM{err: errors.New("api down")}, testLogger(t))
	if _, err := tr.Translate(context.Background(), "show me everything"); err == nil {
		t.Fatal("expected error when the model call fails")
	}
}
