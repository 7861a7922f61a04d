package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeterminism(t *testing.T) {
	a := NewStream(42)
	b := NewStream(42)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Uint64(), b.Uint64(), "draw %d", i)
	}
}

func TestStreamSeedsDiffer(t *testing.T) {
	a := NewStream(42)
	b := NewStream(43)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Zero(t, same)
}

func TestIntervalIIBounds(t *testing.T) {
	s := NewStream(7)
	for i := 0; i < 10000; i++ {
		v := s.IntervalII(-3, 5)
		require.GreaterOrEqual(t, v, -3.0)
		require.LessOrEqual(t, v, 5.0)
	}
}

func TestIntervalIIDegenerate(t *testing.T) {
	s := NewStream(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 2.5, s.IntervalII(2.5, 2.5))
	}
}
