package ingest

import (
	"strings"
	"unicode"
)

// Tokenize splits text into maximal runs of letters, digits and
// underscores. Everything else separates tokens and is discarded.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// CleanAndTokenize runs Clean then Tokenize on every text.
func CleanAndTokenize(texts []string) [][]string {
	corpus := make([][]string, len(texts))
	for i, text := range texts {
		corpus[i] = Tokenize(Clean(text))
	}
	return corpus
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}
