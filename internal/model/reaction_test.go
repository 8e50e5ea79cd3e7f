package model

import "testing"

func TestParseReaction(t *testing.T) {
	for r, name := range reactionNames {
		got, err := ParseReaction(name)
		if err != nil || got != r {
			t.Fatalf("expected %v for %q, got %v (%v)", r, name, got, err)
		}
	}

	if _, err := ParseReaction("meh"); err == nil {
		t.Fatalf("expected an error for an unknown reaction")
	}
}

func TestIsPositive(t *testing.T) {
	if ReactionNone.IsPositive() {
		t.Fatalf("none must not be positive")
	}
	if !ReactionMoreResearch.IsPositive() {
		t.Fatalf("moreResearch must be positive")
	}
}
