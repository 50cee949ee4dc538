package ingest

import (
	"reflect"
	"testing"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/pmi"
)

func repeat(doc []string, n int) [][]string {
	corpus := make([][]string, n)
	for i := range corpus {
		corpus[i] = append([]string(nil), doc...)
	}
	return corpus
}

func TestBuildPhraseModelSelectsStrongPair(t *testing.T) {
	corpus := append(
		repeat([]string{"glycoside", "hydrolase", "alpha"}, 6),
		repeat([]string{"beta", "glycoside", "hydrolase"}, 6)...,
	)
	opts := PhraseOptions{MinCount: 5, Threshold: 0.2, Delimiter: "_"}

	model := BuildPhraseModel(corpus, opts)
	if model.Len() != 1 {
		t.Fatalf("Expected 1 accepted pair, got %d: %v", model.Len(), model.Phrases())
	}

	p := model.Phrases()[0]
	if p.Left != "glycoside" || p.Right != "hydrolase" || p.Count != 12 {
		t.Errorf("Unexpected phrase %+v", p)
	}

	got := model.Apply([]string{"beta", "glycoside", "hydrolase", "alpha"})
	want := []string{"beta", "glycoside_hydrolase", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestPhraseModelGreedyLeftToRight(t *testing.T) {
	corpus := repeat([]string{"glycoside", "hydrolase", "family", "enzyme"}, 10)
	model := BuildPhraseModel(corpus, PhraseOptions{MinCount: 5, Threshold: 0.1})

	if model.Len() != 3 {
		t.Fatalf("Expected all 3 pairs accepted, got %d", model.Len())
	}

	got := model.Apply([]string{"glycoside", "hydrolase", "family", "enzyme"})
	want := []string{"glycoside_hydrolase", "family_enzyme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestBuildPhraseModelMinCount(t *testing.T) {
	corpus := repeat([]string{"cell", "wall"}, 4)
	model := BuildPhraseModel(corpus, PhraseOptions{MinCount: 5, Threshold: -1000})
	if model.Len() != 0 {
		t.Errorf("Pairs below min count must not be accepted, got %v", model.Phrases())
	}

	tokens := []string{"cell", "wall"}
	if got := model.Apply(tokens); !reflect.DeepEqual(got, tokens) {
		t.Errorf("Empty model must not change tokens, got %v", got)
	}
}

func TestBuildPhraseModelDefaultThreshold(t *testing.T) {
	// Small corpora never reach the default threshold
	corpus := repeat([]string{"cell", "wall", "degradation"}, 20)
	model := BuildPhraseModel(corpus, DefaultPhraseOptions())
	if model.Len() != 0 {
		t.Errorf("Expected no phrases, got %v", model.Phrases())
	}
}

func TestBuildPhraseModelNPMI(t *testing.T) {
	corpus := append(
		repeat([]string{"carbohydrate", "binding", "module"}, 8),
		repeat([]string{"binding", "protein", "domain"}, 8)...,
	)
	opts := PhraseOptions{MinCount: 5, Threshold: 0.3, Scorer: pmi.NPMIScorer{}}
	model := BuildPhraseModel(corpus, opts)

	for _, p := range model.Phrases() {
		if p.Score <= 0.3 || p.Score > 1+1e-9 {
			t.Errorf("NPMI score out of range for %+v", p)
		}
	}
	if model.Len() == 0 {
		t.Error("Expected at least one NPMI phrase")
	}
}

func TestCollapsePhrasesTwoPasses(t *testing.T) {
	corpus := repeat([]string{"cell", "wall", "degradation"}, 10)
	opts := PhraseOptions{MinCount: 5, Threshold: 0.1, Delimiter: "_"}

	out, models := CollapsePhrases(corpus, opts)
	if len(models) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(models))
	}
	if len(out) != len(corpus) {
		t.Fatalf("Expected %d sequences, got %d", len(corpus), len(out))
	}
	for i, doc := range out {
		if !reflect.DeepEqual(doc, []string{"cell_wall_degradation"}) {
			t.Errorf("doc %d = %v", i, doc)
		}
	}
}

func TestCollapsePhrasesKeepsEmptyDocuments(t *testing.T) {
	corpus := [][]string{{"alpha"}, {}, nil, {"beta", "gamma"}}
	out, _ := CollapsePhrases(corpus, DefaultPhraseOptions())

	if len(out) != 4 {
		t.Fatalf("Expected 4 sequences, got %d", len(out))
	}
	if len(out[1]) != 0 || len(out[2]) != 0 {
		t.Errorf("Empty documents must stay empty, got %v", out)
	}
}

func TestPhraseModelStatsTop(t *testing.T) {
	corpus := append(repeat([]string{"xylan", "backbone"}, 10), repeat([]string{"starch", "granule"}, 6)...)
	model := BuildPhraseModel(corpus, PhraseOptions{MinCount: 5, Threshold: 0})

	stats := model.Stats(1)
	if stats.Tokens != 32 || stats.Vocabulary != 4 || stats.Pairs != 2 {
		t.Errorf("Unexpected counts %+v", stats)
	}
	if stats.Accepted != 2 {
		t.Fatalf("Expected 2 accepted pairs, got %d", stats.Accepted)
	}
	if len(stats.Top) != 1 || stats.Top[0] != model.Phrases()[0] {
		t.Errorf("Top should hold the best pair only, got %v", stats.Top)
	}
}
