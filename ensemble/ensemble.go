// Package ensemble provides a unison sound source: the same input is
// rendered once per voice, every voice with its own frequency.
package ensemble

import (
	"github.com/dudk/flo"
)

const (
	// DefaultFrequency is used when frequency is not connected.
	DefaultFrequency = 250
	// DefaultSpread is used when spread is not connected.
	DefaultSpread = 0.02
)

// Ensemble renders its input once per voice and averages the result.
// Sources connected to the input read the frequency of the voice they're
// rendered for from VoiceFrequency.
type Ensemble struct {
	*flo.SoundSource
	Input *flo.MultiInput[int]

	// Frequency is the center frequency of the voices.
	Frequency *flo.NumberInput
	// Spread is the relative distance between the lowest and the highest
	// voice frequency.
	Spread *flo.NumberInput
	// VoiceFrequency is the frequency of the voice being rendered.
	VoiceFrequency *flo.SoundNumberSource

	// voice is the chunk of the voice being mixed. Ensemble can't be
	// rendered recursively and the graph serializes rendering, so a single
	// buffer is enough.
	voice flo.Chunk
}

// params keeps frequency and spread of every sample of the chunk. They are
// evaluated once per sample of the ensemble and shared by the voices.
type params struct {
	frequency [flo.ChunkSize]float64
	spread    [flo.ChunkSize]float64
}

func (p *params) Reset() {
	*p = params{}
}

// Option provides a way to set functional parameters to ensemble.
type Option func(e *Ensemble)

// WithVoices sets the initial number of voices.
func WithVoices(n int) Option {
	return func(e *Ensemble) {
		e.SetVoices(n)
	}
}

// New returns an ensemble with a single voice.
func New(options ...Option) *Ensemble {
	e := &Ensemble{}
	e.SoundSource = flo.NewSoundSource("ensemble", e, func() flo.StateData {
		return &params{}
	})
	e.Input = flo.NewMultiInput[int](e, nil)
	e.Frequency = flo.NewNumberInput(e, DefaultFrequency)
	e.Spread = flo.NewNumberInput(e, DefaultSpread)
	e.VoiceFrequency = flo.NewSoundNumberSource(e.Input, "voice frequency", e.voiceFrequency)
	e.SetVoices(1)
	for _, option := range options {
		option(e)
	}
	return e
}

// NumVoices returns the number of voices.
func (e *Ensemble) NumVoices() int {
	return len(e.Input.Keys())
}

// SetVoices adds or removes voices. States of the remaining voices are
// preserved.
func (e *Ensemble) SetVoices(n int) {
	for v := e.NumVoices(); v < n; v++ {
		e.Input.AddKey(v)
	}
	for v := e.NumVoices(); v > n && v > 0; v-- {
		e.Input.RemoveKey(v - 1)
	}
}

// voiceFrequency reads the parameters of the ensemble sample ctx is at. s
// is the state of the voice input, its parent is the ensemble state.
func (e *Ensemble) voiceFrequency(s, ctx *flo.State) float64 {
	es := s.Parent()
	p := flo.DataOf[*params](es)
	i := int(ctx.SamplesAt(es) - es.Samples())
	if i < 0 {
		i = 0
	} else if i >= flo.ChunkSize {
		i = flo.ChunkSize - 1
	}
	n := e.NumVoices()
	if n < 2 {
		return p.frequency[i]
	}
	k := float64(e.Input.KeyOf(s))
	return p.frequency[i] * (1 + p.spread[i]*(k/float64(n-1)-0.5))
}

// RenderChunk implements flo.Renderer.
func (e *Ensemble) RenderChunk(c *flo.Chunk, s *flo.State) {
	c.Silence()
	keys := e.Input.Keys()
	if len(keys) == 0 {
		return
	}
	p := flo.DataOf[*params](s)
	for i := range c {
		p.frequency[i] = e.Frequency.Evaluate(s)
		p.spread[i] = e.Spread.Evaluate(s)
		s.Advance(1)
	}
	s.Advance(-flo.ChunkSize)
	for _, k := range keys {
		e.Input.NextChunk(&e.voice, s, k)
		c.Add(&e.voice)
	}
	c.Scale(1 / float64(len(keys)))
}
