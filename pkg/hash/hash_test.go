package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIsStable(t *testing.T) {
	a := Hash([]byte("hello"))
	b := Hash([]byte("hello"))
	assert.Equal(t, a, b)
	assert.Len(t, a.String(), 16)
}

func TestHashDiffersOnDifferentInput(t *testing.T) {
	a := Hash([]byte("hello"))
	b := Hash([]byte("world"))
	assert.NotEqual(t, a, b)
}
