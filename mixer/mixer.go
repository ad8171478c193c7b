// Package mixer provides a sound source which sums up multiple inputs.
package mixer

import (
	"github.com/dudk/flo"
)

// Mixer sums up chunks of all connected inputs.
type Mixer struct {
	*flo.SoundSource
	inputs  []*Input
	average bool
	// connected inputs of the chunk being rendered.
	active []*Input
}

// Input is a mixer input with its own level.
type Input struct {
	*flo.SingleInput
	// Level belongs to the mixer and is evaluated with the mixer's state
	// once per sample.
	Level *flo.NumberInput

	// buffer of the last rendered chunk. Mixer can't be rendered
	// recursively, so a buffer per input is enough.
	buffer flo.Chunk
}

// Option provides a way to set functional parameters to mixer.
type Option func(m *Mixer)

// WithInputs adds n inputs to the mixer.
func WithInputs(n int) Option {
	return func(m *Mixer) {
		for i := 0; i < n; i++ {
			m.AddInput()
		}
	}
}

// WithAverage divides the sum by the number of connected inputs.
func WithAverage() Option {
	return func(m *Mixer) {
		m.average = true
	}
}

// New returns new mixer.
func New(options ...Option) *Mixer {
	m := &Mixer{}
	m.SoundSource = flo.NewSoundSource("mixer", m, nil)
	for _, option := range options {
		option(m)
	}
	return m
}

// AddInput adds a new disconnected input with unit level.
func (m *Mixer) AddInput() *Input {
	in := &Input{
		SingleInput: flo.NewSingleInput(m),
	}
	in.Level = flo.NewNumberInput(m, 1)
	m.inputs = append(m.inputs, in)
	return in
}

// RemoveInput disconnects the input and removes it from the mixer. The
// mixer is left unchanged if the source can't be disconnected.
func (m *Mixer) RemoveInput(in *Input) error {
	if err := in.SetSource(nil); err != nil {
		return err
	}
	if err := in.Level.SetSource(nil); err != nil {
		return err
	}
	m.RemoveDependency(in)
	for i := range m.inputs {
		if m.inputs[i] == in {
			m.inputs = append(m.inputs[:i], m.inputs[i+1:]...)
			break
		}
	}
	return nil
}

// Inputs returns mixer inputs in order they were added.
func (m *Mixer) Inputs() []*Input {
	return append([]*Input(nil), m.inputs...)
}

// RenderChunk implements flo.Renderer.
func (m *Mixer) RenderChunk(c *flo.Chunk, s *flo.State) {
	c.Silence()
	m.active = m.active[:0]
	for _, in := range m.inputs {
		if in.Source() == nil {
			continue
		}
		in.NextChunk(&in.buffer, s)
		m.active = append(m.active, in)
	}
	if len(m.active) == 0 {
		return
	}
	for i := range c {
		for _, in := range m.active {
			c[i] = c[i].Add(in.buffer[i].Scale(in.Level.Evaluate(s)))
		}
		s.Advance(1)
	}
	if m.average && len(m.active) > 1 {
		c.Scale(1 / float64(len(m.active)))
	}
}
