// Package gamerand provides the deterministic pseudo-random stream that
// feeds company AI planning. The whole simulation is replayable from a
// seed, so every draw is consumed in a fixed order and the generator state
// is part of the saved world.
package gamerand

import "math/bits"

// Stream is a two-word rotate/xor generator. Both words persist with the
// save so a reloaded session continues the exact same draw sequence.
type Stream struct {
	S0 uint32
	S1 uint32
}

// NewStream seeds a stream. The two halves of the seed become the two
// generator words.
func NewStream(seed uint64) *Stream {
	return &Stream{
		S0: uint32(seed),
		S1: uint32(seed >> 32),
	}
}

// Next advances the stream and returns the next 32-bit draw.
func (s *Stream) Next() uint32 {
	s0 := s.S0
	s.S0 += bits.RotateLeft32(s.S1^0x1234567F, -7)
	s.S1 = bits.RotateLeft32(s0, -3)
	return s.S0
}

// Rotr rotates x right by k bits. Planning code rotates the current draw
// between picks instead of drawing fresh words.
func Rotr(x uint32, k int) uint32 {
	return bits.RotateLeft32(x, -k)
}

// ScaledPick maps a masked random word onto an index in [0, n).
// The form (rand & mask) * n / (mask+1) is load-bearing: it is not the
// same distribution as modulo and replaying saved games depends on it.
func ScaledPick(rand uint32, mask uint32, n int) int {
	return int(uint64(rand&mask) * uint64(n) / uint64(mask+1))
}
