package ingest

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"words", "cell wall degradation", []string{"cell", "wall", "degradation"}},
		{"punctuation", "cell-wall, degradation (2021)!", []string{"cell", "wall", "degradation", "2021"}},
		{"underscore kept", "glycoside_hydrolase family", []string{"glycoside_hydrolase", "family"}},
		{"unicode letters", "β-glucosidase", []string{"β", "glucosidase"}},
		{"whitespace only", "  \t\n ", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanAndTokenizeAlignment(t *testing.T) {
	texts := []string{"<p>Alpha amylase</p>", "", "1234", "Beta"}
	corpus := CleanAndTokenize(texts)

	if len(corpus) != len(texts) {
		t.Fatalf("Expected %d sequences, got %d", len(texts), len(corpus))
	}
	if !reflect.DeepEqual(corpus[0], []string{"alpha", "amylase"}) {
		t.Errorf("Unexpected first sequence %v", corpus[0])
	}
	if len(corpus[1]) != 0 || len(corpus[2]) != 0 {
		t.Errorf("Expected empty sequences, got %v and %v", corpus[1], corpus[2])
	}
}
