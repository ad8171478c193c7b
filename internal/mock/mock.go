// Package mock provides mocks for graph components and allows to execute integration tests.
package mock

import "github.com/dudk/flo"

// Source mocks a sound source which fills chunks with constant value.
type Source struct {
	*flo.SoundSource
	counter
	Value float64
	// Rendered is the number of chunks rendered in the context.
	Rendered *flo.SoundNumberSource
}

// Count is the state of mocked sources.
type Count struct {
	Chunks int
}

// Reset implements flo.StateData.
func (c *Count) Reset() {
	c.Chunks = 0
}

func newCount() flo.StateData {
	return &Count{}
}

// NewSource returns a source which renders v in both channels.
func NewSource(v float64) *Source {
	m := &Source{Value: v}
	m.SoundSource = flo.NewSoundSource("mock source", m, newCount)
	m.Rendered = flo.NewSoundNumberSource(m, "rendered", func(s, _ *flo.State) float64 {
		return float64(flo.DataOf[*Count](s).Chunks)
	})
	return m
}

// RenderChunk implements flo.Renderer.
func (m *Source) RenderChunk(c *flo.Chunk, s *flo.State) {
	c.Fill(flo.Mono(m.Value))
	flo.DataOf[*Count](s).Chunks++
	m.advance(flo.ChunkSize)
}

// Processor mocks a sound source which passes its input multiplied by
// gain.
type Processor struct {
	*flo.SoundSource
	counter
	Input *flo.SingleInput
	Gain  *flo.NumberInput
}

// NewProcessor returns a processor with unit gain.
func NewProcessor() *Processor {
	m := &Processor{}
	m.SoundSource = flo.NewSoundSource("mock processor", m, newCount)
	m.Input = flo.NewSingleInput(m)
	m.Gain = flo.NewNumberInput(m, 1)
	return m
}

// RenderChunk implements flo.Renderer.
func (m *Processor) RenderChunk(c *flo.Chunk, s *flo.State) {
	m.Input.NextChunk(c, s)
	for i := range c {
		c[i] = c[i].Scale(m.Gain.Evaluate(s))
		s.Advance(1)
	}
	flo.DataOf[*Count](s).Chunks++
	m.advance(flo.ChunkSize)
}

// Voices mocks a polyphonic sound source which sums all keys of its input.
type Voices struct {
	*flo.SoundSource
	counter
	Input *flo.MultiInput[int]
	// Key is the key of the voice which is being evaluated.
	Key *flo.SoundNumberSource
}

// NewVoices returns a source without keys.
func NewVoices() *Voices {
	m := &Voices{}
	m.SoundSource = flo.NewSoundSource("mock voices", m, nil)
	m.Input = flo.NewMultiInput[int](m, nil)
	m.Key = flo.NewSoundNumberSource(m.Input, "key", func(s, _ *flo.State) float64 {
		return float64(m.Input.KeyOf(s))
	})
	return m
}

// RenderChunk implements flo.Renderer.
func (m *Voices) RenderChunk(c *flo.Chunk, s *flo.State) {
	c.Silence()
	var voice flo.Chunk
	for _, k := range m.Input.Keys() {
		m.Input.NextChunk(&voice, s, k)
		c.Add(&voice)
	}
	m.advance(flo.ChunkSize)
}

// Borrower mocks a borrowing number source which counts evaluations in
// every context.
type Borrower struct {
	*flo.BorrowingNumberSource
}

// NewBorrower returns a borrowing counter.
func NewBorrower() *Borrower {
	return &Borrower{
		BorrowingNumberSource: flo.NewBorrowingNumberSource("mock borrower", newCount, func(data flo.StateData, _ *flo.State) float64 {
			c := data.(*Count)
			c.Chunks++
			return float64(c.Chunks)
		}),
	}
}

// counter counts rendered chunks and samples across all contexts.
type counter struct {
	messages int
	samples  int
}

// advance counter's metrics.
func (c *counter) advance(size int) {
	c.messages++
	c.samples = c.samples + size
}

// Count returns messages and samples metrics.
func (c *counter) Count() (int, int) {
	return c.messages, c.samples
}
