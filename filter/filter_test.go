package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flo"
	"github.com/dudk/flo/filter"
	"github.com/dudk/flo/internal/mock"
	"github.com/dudk/flo/signal"
	"github.com/dudk/flo/wave"
)

func TestLowpassPassesDC(t *testing.T) {
	r := flo.NewSoundResult()
	f := filter.NewLowpass()
	assert.NoError(t, r.Input.SetSource(f))
	assert.NoError(t, f.Input.SetSource(mock.NewSource(1)))

	var c flo.Chunk
	for i := 0; i < 4; i++ {
		r.NextChunk(&c)
	}
	assert.InDelta(t, 1, c[flo.ChunkSize-1].L, 1e-6)
	assert.InDelta(t, 1, c[flo.ChunkSize-1].R, 1e-6)
}

func TestLowpassAttenuates(t *testing.T) {
	tests := []struct {
		frequency float64
		cutoff    float64
		min, max  float64
	}{
		{frequency: 100, cutoff: 5000, min: 0.45, max: 0.55},
		{frequency: 10000, cutoff: 200, min: 0, max: 0.01},
	}
	for _, test := range tests {
		r := flo.NewSoundResult()
		f := filter.NewLowpass()
		o := wave.New()
		o.Frequency.SetDefault(test.frequency)
		f.Cutoff.SetDefault(test.cutoff)
		assert.NoError(t, r.Input.SetSource(f))
		assert.NoError(t, f.Input.SetSource(o))

		var c flo.Chunk
		for i := 0; i < 8; i++ {
			r.NextChunk(&c)
		}
		peak := signal.Peak(c[:])
		assert.GreaterOrEqual(t, peak, test.min)
		assert.LessOrEqual(t, peak, test.max)
	}
}

func TestLowpassReset(t *testing.T) {
	r := flo.NewSoundResult()
	f := filter.NewLowpass()
	assert.NoError(t, r.Input.SetSource(f))
	assert.NoError(t, f.Input.SetSource(mock.NewSource(1)))

	var first, c flo.Chunk
	r.NextChunk(&first)
	r.NextChunk(&c)
	r.Reset()
	r.NextChunk(&c)
	assert.Equal(t, first, c)
}
