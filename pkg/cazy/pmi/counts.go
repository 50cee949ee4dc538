package pmi

// Counter maintains unigram and adjacent-pair counts for phrase scoring
type Counter struct {
	N   int64               // total number of tokens seen
	Nx  map[string]int64    // frequency per token
	Nxy map[TokenPair]int64 // frequency per adjacent pair, in reading order
}

// TokenPair represents an ordered pair of adjacent tokens (T1 precedes T2)
type TokenPair struct {
	T1, T2 string
}

// NewCounter creates a new co-occurrence counter
func NewCounter() *Counter {
	return &Counter{
		N:   0,
		Nx:  make(map[string]int64),
		Nxy: make(map[TokenPair]int64),
	}
}

// CountCorpus builds a counter over every sentence of a corpus.
func CountCorpus(corpus [][]string) *Counter {
	c := NewCounter()
	for _, sentence := range corpus {
		c.AddSentence(sentence)
	}
	return c
}

// AddSentence updates counts with the tokens of one sentence.
// Pairs never span two sentences.
func (c *Counter) AddSentence(tokens []string) {
	for i, t := range tokens {
		c.N++
		c.Nx[t]++
		if i > 0 {
			c.Nxy[TokenPair{T1: tokens[i-1], T2: t}]++
		}
	}
}

// GetPairCount returns how often t1 is immediately followed by t2
func (c *Counter) GetPairCount(t1, t2 string) int64 {
	return c.Nxy[TokenPair{T1: t1, T2: t2}]
}

// GetTokenCount returns the frequency of a token
func (c *Counter) GetTokenCount(t string) int64 {
	return c.Nx[t]
}

// TotalTokens returns the number of tokens processed
func (c *Counter) TotalTokens() int64 {
	return c.N
}

// UniqueTokens returns the number of unique tokens
func (c *Counter) UniqueTokens() int {
	return len(c.Nx)
}

// UniquePairs returns the number of unique adjacent pairs
func (c *Counter) UniquePairs() int {
	return len(c.Nxy)
}

// VocabSize is the vocabulary size used by the phrase scorer:
// unique tokens plus unique adjacent pairs.
func (c *Counter) VocabSize() int64 {
	return int64(len(c.Nx) + len(c.Nxy))
}
