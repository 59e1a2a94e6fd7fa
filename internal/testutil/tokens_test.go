package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceTokens(t *testing.T) {
	gen := NewSequenceTokens("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestCountingTokens(t *testing.T) {
	gen := NewCountingTokens("")
	assert.Equal(t, "req-1", gen.Generate())
	assert.Equal(t, "req-2", gen.Generate())

	assert.Equal(t, "load-1", NewCountingTokens("load").Generate())
}
