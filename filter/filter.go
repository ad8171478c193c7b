// Package filter provides a biquad low-pass filter sound source.
package filter

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/dudk/flo"
)

const (
	// DefaultCutoff is used when cutoff is not connected.
	DefaultCutoff = 1000
	// DefaultQ is used when resonance is not connected.
	DefaultQ = 0.7071
)

// sections keep filter memory of both channels and the parameters the
// coefficients were designed for.
type sections struct {
	l, r      *biquad.Section
	cutoff, q float64
}

func newSections() flo.StateData {
	return &sections{
		l: biquad.NewSection(biquad.Coefficients{}),
		r: biquad.NewSection(biquad.Coefficients{}),
	}
}

func (s *sections) Reset() {
	s.l.Reset()
	s.r.Reset()
	s.cutoff, s.q = 0, 0
}

func (s *sections) design(cutoff, q float64) {
	if cutoff == s.cutoff && q == s.q {
		return
	}
	s.cutoff, s.q = cutoff, q
	c := design.Lowpass(cutoff, q, flo.SampleRate)
	s.l.Coefficients, s.r.Coefficients = c, c
}

// Lowpass filters its input. Cutoff and Q are evaluated once per chunk.
type Lowpass struct {
	*flo.SoundSource
	Input  *flo.SingleInput
	Cutoff *flo.NumberInput
	Q      *flo.NumberInput
}

// NewLowpass returns a low-pass filter.
func NewLowpass() *Lowpass {
	f := &Lowpass{}
	f.SoundSource = flo.NewSoundSource("lowpass", f, newSections)
	f.Input = flo.NewSingleInput(f)
	f.Cutoff = flo.NewNumberInput(f, DefaultCutoff)
	f.Q = flo.NewNumberInput(f, DefaultQ)
	return f
}

// RenderChunk implements flo.Renderer.
func (f *Lowpass) RenderChunk(c *flo.Chunk, s *flo.State) {
	f.Input.NextChunk(c, s)
	st := flo.DataOf[*sections](s)
	st.design(f.Cutoff.Evaluate(s), f.Q.Evaluate(s))
	for i := range c {
		c[i].L = st.l.ProcessSample(c[i].L)
		c[i].R = st.r.ProcessSample(c[i].R)
	}
}
