// Package resampler provides a sound source which plays its input at a
// different speed.
package resampler

import (
	"math"

	"github.com/dudk/flo"
)

// MinSpeed is the lowest speed the input can be played at.
const MinSpeed = 1.0 / 64

type playback struct {
	prev   flo.Sample
	cur    flo.Chunk
	pos    float64
	primed bool
}

func (p *playback) Reset() {
	*p = playback{}
}

// Resampler renders its input at Speed times the normal rate using linear
// interpolation with one sample of latency. Time of everything connected
// to the input runs at the same speed: a source one level down observes
// Speed samples per output sample.
type Resampler struct {
	*flo.SoundSource
	Input *flo.SingleInput
	Speed *flo.NumberInput
}

// New returns a resampler with unit speed.
func New() *Resampler {
	r := &Resampler{}
	r.SoundSource = flo.NewSoundSource("resampler", r, func() flo.StateData {
		return &playback{}
	})
	r.Input = flo.NewSingleInput(r)
	r.Speed = flo.NewNumberInput(r, 1)
	return r
}

// RenderChunk implements flo.Renderer.
func (r *Resampler) RenderChunk(c *flo.Chunk, s *flo.State) {
	p := flo.DataOf[*playback](s)
	if !p.primed {
		r.Input.NextChunk(&p.cur, s)
		p.primed = true
	}
	for i := range c {
		speed := math.Max(MinSpeed, r.Speed.Evaluate(s))
		r.Input.StateFor(s).SetTimeSpeed(speed)
		for p.pos >= flo.ChunkSize {
			p.prev = p.cur[flo.ChunkSize-1]
			r.Input.NextChunk(&p.cur, s)
			p.pos -= flo.ChunkSize
		}
		j, frac := math.Modf(p.pos)
		a, b := p.prev, p.cur[int(j)]
		if j > 0 {
			a = p.cur[int(j)-1]
		}
		c[i] = a.Scale(1 - frac).Add(b.Scale(frac))
		p.pos += speed
		s.Advance(1)
	}
}
