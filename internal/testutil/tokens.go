package testutil

import (
	"fmt"
	"sync"
)

// SequenceTokens returns predetermined request tokens in order.
//
// Panics once all tokens are consumed, which catches a test issuing more
// requests than it expected.
//
// Thread-safety: safe for concurrent use.
type SequenceTokens struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewSequenceTokens creates a generator over tokens.
//
//	gen := NewSequenceTokens("req-a", "req-b")
//	gen.Generate() // "req-a"
//	gen.Generate() // "req-b"
//	gen.Generate() // panic
func NewSequenceTokens(tokens ...string) *SequenceTokens {
	return &SequenceTokens{tokens: tokens}
}

// Generate returns the next token.
func (g *SequenceTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("SequenceTokens: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// CountingTokens returns prefix-1, prefix-2, ... without limit.
// Used where a test does not care how many requests it makes.
type CountingTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewCountingTokens creates a counting generator. An empty prefix means "req".
func NewCountingTokens(prefix string) *CountingTokens {
	if prefix == "" {
		prefix = "req"
	}
	return &CountingTokens{prefix: prefix}
}

// Generate returns the next numbered token.
func (g *CountingTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
