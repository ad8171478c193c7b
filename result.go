package flo

// SoundResult is the root of rendering. It has a single state and a
// single input; every call to NextChunk pulls one chunk through the graph
// connected to the input.
type SoundResult struct {
	*Node
	Input *SingleInput
}

// NewSoundResult creates a render root.
func NewSoundResult() *SoundResult {
	r := &SoundResult{
		Node: newNode("result", newNoState),
	}
	r.table.enableMonostate()
	r.Input = NewSingleInput(r)
	return r
}

// NextChunk renders the next chunk of connected source or silence.
func (r *SoundResult) NextChunk(c *Chunk) {
	st := r.table.slot(0)
	r.Input.NextChunk(c, st)
	st.commit()
}

// Reset brings the time and states of everything rendered by the result
// back to the start.
func (r *SoundResult) Reset() {
	r.table.resetSlot(0)
}
