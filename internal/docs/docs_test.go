package docs

import (
	"slices"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	topics := Topics()
	for _, want := range []string{"board", "config", "notifications", "summary"} {
		if !slices.Contains(topics, want) {
			t.Fatalf("missing topic %q in %v", want, topics)
		}
	}
	if !slices.IsSorted(topics) {
		t.Fatalf("topics not sorted: %v", topics)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	body, ok := Get(" Board ")
	if !ok || body == "" {
		t.Fatalf("expected board topic")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unknown topic should not resolve")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("empty topic should not resolve")
	}
}
