package genlib

import (
	"math/rand"

	"github.com/sapfsound/sapf/internal/object"
)

// noiseSource is an unbounded white-noise signal in [-1, 1), used as the
// ambient test signal for exercising the audio driver and block
// scheduler without a full UGen catalog.
type noiseSource struct {
	rnd *rand.Rand
}

func (s *noiseSource) FillZ(buf []float64, n int) ([]float64, bool) {
	for i := 0; i < n; i++ {
		buf = append(buf, s.rnd.Float64()*2-1)
	}
	return buf, false
}

// Noise returns an unbounded white-noise signal seeded deterministically
// from seed, so tests can assert reproducible values.
func Noise(seed int64) *object.ZGen {
	return object.NewZGen(&noiseSource{rnd: rand.New(rand.NewSource(seed))})
}
