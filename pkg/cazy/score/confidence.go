package score

import (
	"fmt"
	"strconv"
	"strings"
)

// NoneLabel is how a missing confidence is written in result tables.
const NoneLabel = "None"

// Confidence is a relevance score in [0,100], or the absence of one when
// the article could not be retrieved or scored.
type Confidence struct {
	value  float64
	scored bool
}

// Unscored is the confidence of an article that produced no score.
var Unscored = Confidence{}

// Scored wraps a numeric confidence.
func Scored(v float64) Confidence {
	return Confidence{value: v, scored: true}
}

// Value returns the numeric confidence and whether there is one.
func (c Confidence) Value() (float64, bool) {
	return c.value, c.scored
}

// IsScored reports whether the confidence is numeric.
func (c Confidence) IsScored() bool {
	return c.scored
}

func (c Confidence) String() string {
	if !c.scored {
		return NoneLabel
	}
	return strconv.FormatFloat(c.value, 'f', -1, 64)
}

// ParseConfidence reads a confidence written by String.
// Empty cells and "None" are unscored.
func ParseConfidence(s string) (Confidence, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == NoneLabel {
		return Unscored, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Unscored, fmt.Errorf("parse confidence %q: %w", s, err)
	}
	return Scored(v), nil
}
