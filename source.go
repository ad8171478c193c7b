package flo

// Renderer is implemented by concrete sound sources. RenderChunk must
// write every sample of c. Time of s is committed after it returns, so
// renderers never manage time bookkeeping themselves.
type Renderer interface {
	RenderChunk(c *Chunk, s *State)
}

// Source is implemented by every type embedding *SoundSource.
type Source interface {
	SoundNode
	soundSource() *SoundSource
}

// SoundSource is the part of a sound node which produces chunks. Concrete
// sources embed it and implement Renderer.
type SoundSource struct {
	*Node
	renderer Renderer

	// Time is the elapsed time of this source in seconds, as observed
	// from the context it's evaluated in.
	Time *SoundNumberSource
}

// NewSoundSource creates a sound source. newState is called for every new
// context; nil means the source needs no payload.
func NewSoundSource(name string, r Renderer, newState func() StateData) *SoundSource {
	if newState == nil {
		newState = newNoState
	}
	s := &SoundSource{
		Node:     newNode(name, newState),
		renderer: r,
	}
	s.Node.source = s
	s.Time = NewSoundNumberSource(s, "time", func(st, ctx *State) float64 {
		return float64(ctx.SamplesAt(st)) / SampleRate
	})
	return s
}

func (s *SoundSource) soundSource() *SoundSource {
	return s
}

// Inputs returns sound inputs owned by this source.
func (s *SoundSource) Inputs() []*Node {
	inputs := make([]*Node, 0, len(s.dependencies))
	for _, d := range s.dependencies {
		if d.input != nil && d.input.owner == s.Node {
			inputs = append(inputs, d)
		}
	}
	return inputs
}

// nextChunk renders the state which belongs to the context of dst. parent
// is the state of dst in the same context.
func (s *SoundSource) nextChunk(c *Chunk, parent *State, dst *Node) {
	st := s.table.StateFor(dst, parent.index, 0)
	s.renderer.RenderChunk(c, st)
	st.commit()
}

// Destroy severs all edges of the source: number wires of its inputs and
// outputs, sound wires of its inputs and every input reading from it.
// Edges are removed without safety checks, states of contexts which are
// no longer reachable are erased.
func (s *SoundSource) Destroy() {
	for _, in := range s.allNumberInputs() {
		in.disconnect()
	}
	for _, src := range s.allNumberSources() {
		disconnectDependents(src)
	}
	for _, in := range s.Inputs() {
		for _, d := range in.Dependencies() {
			in.RemoveDependency(d)
		}
	}
	for _, d := range s.Dependents() {
		d.RemoveDependency(s.Node)
	}
}

func (s *SoundSource) allNumberInputs() []*NumberInput {
	inputs := append([]*NumberInput(nil), s.numberInputs...)
	for _, in := range s.Inputs() {
		inputs = append(inputs, in.numberInputs...)
	}
	return inputs
}

func (s *SoundSource) allNumberSources() []NumberSource {
	sources := append([]NumberSource(nil), s.numberSources...)
	for _, in := range s.Inputs() {
		sources = append(sources, in.numberSources...)
	}
	return sources
}
