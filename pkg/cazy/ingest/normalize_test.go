package ingest

import (
	"reflect"
	"testing"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/lexicon"
)

func TestNormalizerStem(t *testing.T) {
	n := NewNormalizer(nil, true)

	tests := map[string]string{
		"running":  "run",
		"cats":     "cat",
		"proteins": "protein",
	}
	for in, want := range tests {
		if got := n.Token(in); got != want {
			t.Errorf("Token(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizerLexiconAfterStem(t *testing.T) {
	lex := lexicon.New()
	lex.AddGroup("run", []string{"ran"})

	n := NewNormalizer(lex, true)
	if got := n.Token("ran"); got != "run" {
		t.Errorf("Expected lexicon lemma, got %q", got)
	}
	if got := n.Token("running"); got != "run" {
		t.Errorf("Expected stem, got %q", got)
	}
}

func TestNormalizerWithoutStemming(t *testing.T) {
	n := NewNormalizer(nil, false)
	if got := n.Token("proteins"); got != "proteins" {
		t.Errorf("Expected token unchanged, got %q", got)
	}
}

func TestNormalizePreservesShape(t *testing.T) {
	n := NewNormalizer(nil, true)
	corpus := [][]string{{"cats", "running"}, {}, {"proteins"}}

	out := n.Normalize(corpus)
	want := [][]string{{"cat", "run"}, {}, {"protein"}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Normalize = %v, want %v", out, want)
	}
	if corpus[0][0] != "cats" {
		t.Error("Normalize must not modify its input")
	}
}
