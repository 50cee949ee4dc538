package stoplist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTokenLen is the shortest token kept by Filter.
const MinTokenLen = 4

// Manager holds the stopword set applied to token sequences
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a stoplist with the given words
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[strings.ToLower(s)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// Default returns the English list extended with the domain noise words.
func Default() *Manager {
	m := NewManager(English)
	for _, s := range Domain {
		m.Add(s)
	}
	return m
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	m.stops[strings.ToLower(token)] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	return len(m.stops)
}

// Keep reports whether a token survives filtering: not a stopword,
// longer than three characters and not purely numeric.
func (m *Manager) Keep(token string) bool {
	if utf8.RuneCountInString(token) < MinTokenLen {
		return false
	}
	if isNumeric(token) {
		return false
	}
	return !m.IsStop(token)
}

// Filter removes stopwords, short tokens and numeric tokens, preserving order.
func (m *Manager) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if m.Keep(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// FilterCorpus applies Filter to every document.
func (m *Manager) FilterCorpus(corpus [][]string) [][]string {
	out := make([][]string, len(corpus))
	for i, doc := range corpus {
		out[i] = m.Filter(doc)
	}
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
