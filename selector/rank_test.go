package selector

import (
	"fmt"
	"testing"
)

func css(sel string, conf float64, unique bool) Generated {
	g := cssCandidate(sel, conf, TypeCSS, "test")
	g.IsUnique = unique
	return g
}

func TestRank_ConfidenceFloor(t *testing.T) {
	in := []Generated{
		css("#a", 0.90, true),
		css("#b", 0.74, true),
		css("#c", 0.50, true),
	}
	got := rank(in, Options{}, DefaultWeights())
	if len(got) != 1 || got[0].Selector != "#a" {
		t.Fatalf("floor filter: got %+v, want only #a", got)
	}
}

func TestRank_SortsByConfidence(t *testing.T) {
	in := []Generated{
		css("#low", 0.76, false),
		css("#high", 0.95, false),
		css("#mid", 0.85, false),
	}
	got := rank(in, Options{}, DefaultWeights())
	want := []string{"#high", "#mid", "#low"}
	for i, sel := range want {
		if got[i].Selector != sel {
			t.Fatalf("order[%d]: got %s, want %s", i, got[i].Selector, sel)
		}
	}
}

func TestRank_UniquenessFirst(t *testing.T) {
	in := []Generated{
		css("#strong", 0.95, false),
		css("#unique", 0.80, true),
	}
	got := rank(in, Options{PrioritizeUniqueness: true}, DefaultWeights())
	if got[0].Selector != "#unique" {
		t.Fatalf("uniqueness-first: got %s on top, want #unique", got[0].Selector)
	}

	got = rank(in, Options{}, DefaultWeights())
	if got[0].Selector != "#strong" {
		t.Fatalf("confidence order: got %s on top, want #strong", got[0].Selector)
	}
}

func TestRank_Truncates(t *testing.T) {
	var in []Generated
	for i := 0; i < 15; i++ {
		in = append(in, css(fmt.Sprintf("#c%d", i), 0.80, false))
	}
	got := rank(in, Options{}, DefaultWeights())
	if len(got) != 10 {
		t.Fatalf("truncation: got %d candidates, want 10", len(got))
	}
}

func TestRank_DedupesKeepingHigherConfidence(t *testing.T) {
	in := []Generated{
		css("#dup", 0.80, false),
		css("#dup", 0.90, true),
	}
	got := rank(in, Options{}, DefaultWeights())
	if len(got) != 1 {
		t.Fatalf("dedupe: got %d candidates, want 1", len(got))
	}
	if got[0].Confidence != 0.90 || !got[0].IsUnique {
		t.Fatalf("dedupe kept %+v, want the 0.90 unique one", got[0])
	}
}

func TestRank_MaxLength(t *testing.T) {
	in := []Generated{
		css("#short", 0.90, false),
		css(`#a-very-long-scoped-selector[data-testid="something"]`, 0.90, false),
	}
	got := rank(in, Options{MaxLength: 20}, DefaultWeights())
	if len(got) != 1 || got[0].Selector != "#short" {
		t.Fatalf("max length filter: got %+v, want only #short", got)
	}
}
