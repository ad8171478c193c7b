// Package wave provides an oscillator sound source.
package wave

import (
	"math"

	"github.com/dudk/flo"
)

// Waveform maps phase in [0, 1) to a value in [-1, 1].
type Waveform func(phase float64) float64

// Sine waveform.
func Sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// Saw waveform.
func Saw(phase float64) float64 {
	return 2*phase - 1
}

// Square waveform.
func Square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// Triangle waveform.
func Triangle(phase float64) float64 {
	return 1 - 4*math.Abs(phase-0.5)
}

const (
	// DefaultFrequency is used when frequency is not connected.
	DefaultFrequency = 250
	// DefaultAmplitude is used when amplitude is not connected.
	DefaultAmplitude = 0.5
)

type phase struct {
	value float64
}

func (p *phase) Reset() {
	p.value = 0
}

// Oscillator renders a periodic waveform in both channels.
type Oscillator struct {
	*flo.SoundSource
	waveform Waveform

	Frequency *flo.NumberInput
	Amplitude *flo.NumberInput
	// Phase is the current phase of the oscillator in [0, 1).
	Phase *flo.SoundNumberSource
}

// Option provides a way to set functional parameters to oscillator.
type Option func(o *Oscillator)

// WithWaveform sets the waveform. Default is Sine.
func WithWaveform(w Waveform) Option {
	return func(o *Oscillator) {
		o.waveform = w
	}
}

// New returns new oscillator.
func New(options ...Option) *Oscillator {
	o := &Oscillator{waveform: Sine}
	o.SoundSource = flo.NewSoundSource("oscillator", o, func() flo.StateData {
		return &phase{}
	})
	o.Frequency = flo.NewNumberInput(o, DefaultFrequency)
	o.Amplitude = flo.NewNumberInput(o, DefaultAmplitude)
	o.Phase = flo.NewSoundNumberSource(o, "phase", func(s, _ *flo.State) float64 {
		return flo.DataOf[*phase](s).value
	})
	for _, option := range options {
		option(o)
	}
	return o
}

// RenderChunk implements flo.Renderer.
func (o *Oscillator) RenderChunk(c *flo.Chunk, s *flo.State) {
	p := flo.DataOf[*phase](s)
	for i := range c {
		c[i] = flo.Mono(o.Amplitude.Evaluate(s) * o.waveform(p.value))
		p.value += o.Frequency.Evaluate(s) / flo.SampleRate
		p.value -= math.Floor(p.value)
		s.Advance(1)
	}
}
