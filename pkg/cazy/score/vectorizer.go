package score

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Terms are runs of two or more word characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer maps texts to L2-normalized TF-IDF vectors
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Where n is the number of fitted documents and df(t) the number of them
// containing t. Terms unseen at fit time are ignored.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// feature is one non-zero entry of a sparse vector
type feature struct {
	index int
	value float64
}

// FitVectorizer learns the vocabulary and idf weights. Terms are indexed
// in lexical order.
func FitVectorizer(texts []string) *Vectorizer {
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, term := range terms(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(vocab)),
		IDF:        make([]float64, len(vocab)),
	}
	n := float64(len(texts))
	for i, term := range vocab {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// Size returns the number of features.
func (v *Vectorizer) Size() int {
	return len(v.IDF)
}

// transform returns the sparse TF-IDF vector of a text, sorted by index.
func (v *Vectorizer) transform(text string) []feature {
	counts := make(map[int]float64)
	for _, term := range terms(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	vec := make([]feature, 0, len(counts))
	var norm float64
	for idx, tf := range counts {
		w := tf * v.IDF[idx]
		vec = append(vec, feature{index: idx, value: w})
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].value /= norm
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].index < vec[j].index })
	return vec
}

func terms(text string) []string {
	return termPattern.FindAllString(strings.ToLower(text), -1)
}
