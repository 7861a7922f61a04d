package trace

// Stream is the deterministic value source driving trace generation. The
// same seed yields the same sequence on every platform: state evolution
// is pure 64-bit integer arithmetic and the float conversion is a single
// exact scaling, so no floating-point control state can perturb it.
type Stream struct {
	state uint64
}

// NewStream returns a stream producing the sequence for the given seed.
func NewStream(seed uint64) *Stream {
	return &Stream{state: seed}
}

// Uint64 advances the stream and returns the next 64-bit value.
func (s *Stream) Uint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// unit returns the next value in [0, 1], both endpoints reachable. The
// 53-bit numerator divides exactly in binary64, so the result is the
// same bit pattern everywhere.
func (s *Stream) unit() float64 {
	const max53 = 1<<53 - 1
	return float64(s.Uint64()>>11) / float64(max53)
}

// IntervalII returns the next value in [lo, hi], both ends inclusive.
func (s *Stream) IntervalII(lo, hi float64) float64 {
	return lo + s.unit()*(hi-lo)
}
