package genlib

import (
	"math"

	"github.com/sapfsound/sapf/internal/object"
)

func sgn(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// cubeRoot is the signed cube root used by the cubic-ramp fallback: it
// is defined and continuous for negative x, unlike math.Pow(x, 1.0/3).
func cubeRoot(x float64) float64 {
	return sgn(x) * math.Cbrt(math.Abs(x))
}

// ncubicLinezSource ramps in cube-root space and cubes each output
// sample, giving a smooth ramp between endpoints of any sign (including
// a ramp that crosses zero), where a plain geometric ramp would be
// undefined.
type ncubicLinezSource struct {
	a, step   float64
	i         int
	n         int
}

func (s *ncubicLinezSource) FillZ(buf []float64, n int) ([]float64, bool) {
	take := n
	remaining := s.n - s.i
	if take > remaining {
		take = remaining
	}
	for k := 0; k < take; k++ {
		c := s.a + float64(s.i)*s.step
		buf = append(buf, c*c*c)
		s.i++
	}
	return buf, s.i >= s.n
}

// NCubicLinez returns exactly n samples ramping from start to end via
// cube-root-space linear interpolation, cubed back on output.
func NCubicLinez(n int, start, end float64) *object.ZGen {
	if n <= 0 {
		return emptyZGen()
	}
	a := cubeRoot(start)
	b := cubeRoot(end)
	step := (b - a) / float64(n)
	return object.NewZGen(&ncubicLinezSource{a: a, step: step, n: n})
}

func emptyZGen() *object.ZGen {
	g := object.NewZGen(&nbyzSource{remaining: 0})
	g.Ended = true
	return g
}

// XLine returns a ramp from start to end lasting dur seconds at the
// given sample rate. When start and end share a sign and neither is
// zero it is a true geometric (exponential) ramp — matching the
// original xline_'s fast path, which is what produces the literal
// bit-exact reproduction of "5 .1 .9 xline" at 48000Hz (exactly 240000
// monotonically increasing samples). When the signs mismatch or either
// endpoint is zero, a geometric ratio is undefined, so it falls back to
// the cubic ramp instead, exactly as the original does.
func XLine(sampleRate, dur, start, end float64) *object.ZGen {
	n := int(dur*sampleRate + 0.5)
	if n < 1 {
		n = 1
	}
	if start == 0 || end == 0 || sgn(start) != sgn(end) {
		return NCubicLinez(n, start, end)
	}
	grow := math.Pow(end/start, 1.0/float64(n))
	return NGrowz(n, start, grow)
}

// Line returns a plain linear ramp from start to end lasting dur seconds
// at the given sample rate — no sign-mismatch fallback is needed because
// addition, unlike geometric growth, is always well defined.
func Line(sampleRate, dur, start, end float64) *object.ZGen {
	n := int(dur*sampleRate + 0.5)
	if n < 1 {
		n = 1
	}
	step := (end - start) / float64(n)
	return NByz(n, start, step)
}
