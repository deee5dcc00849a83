package gamerand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeterminism(t *testing.T) {
	a := NewStream(0xDEADBEEF12345678)
	b := NewStream(0xDEADBEEF12345678)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Next(), b.Next(), "draw %d diverged", i)
	}
}

func TestStreamStateRestore(t *testing.T) {
	a := NewStream(42)
	for i := 0; i < 100; i++ {
		a.Next()
	}

	// Restoring the two words mid-stream must continue the exact sequence.
	b := &Stream{S0: a.S0, S1: a.S1}
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestScaledPickBounds(t *testing.T) {
	s := NewStream(7)
	for i := 0; i < 10000; i++ {
		idx := ScaledPick(s.Next(), 0x1F, 20)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 20)
	}
}

func TestScaledPickIsNotModulo(t *testing.T) {
	// mask 0x1F over 20 entries: the scaled form maps 31 -> 19, while
	// modulo would map 31 -> 11.
	assert.Equal(t, 19, ScaledPick(31, 0x1F, 20))
	assert.Equal(t, 0, ScaledPick(0, 0x1F, 20))
	assert.Equal(t, 9, ScaledPick(15, 0x1F, 20))
}

func TestScaledPickCoversAllEntries(t *testing.T) {
	seen := make(map[int]bool)
	for r := uint32(0); r <= 0x7F; r++ {
		seen[ScaledPick(r, 0x7F, 40)] = true
	}
	assert.Len(t, seen, 40)
}

func TestRotr(t *testing.T) {
	assert.Equal(t, uint32(0x80000000), Rotr(1, 1))
	assert.Equal(t, uint32(0x12345678), Rotr(Rotr(0x12345678, 13), -13))
}
