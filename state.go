package flo

import (
	"fmt"
	"math"
)

// StateData is the node-specific part of a state: oscillator phase, filter
// memory, playback position. Reset must bring it to the same values a
// freshly created instance has.
type StateData interface {
	Reset()
}

// NoState is used by nodes which only need time bookkeeping.
type NoState struct{}

// Reset does nothing.
func (*NoState) Reset() {}

func newNoState() StateData {
	return &NoState{}
}

// State is a single per-context instance of a node's runtime data.
//
// States live in the StateTable of their owner and move when the table
// grows or shrinks. A *State must not be kept across any call which edits
// the graph; it's only valid during one rendering pass.
type State struct {
	owner *Node
	// dependent and dependentIndex identify the parent state, the slot of
	// the dependent node this context came from. They are refreshed every
	// time the dependent's table changes its layout.
	dependent      *Node
	dependentIndex int
	key            int
	index          int

	total  int64
	offset int64
	speed  float64

	data     StateData
	borrowed []StateData
}

// DataOf returns the payload of the state as the type the node stores.
func DataOf[T StateData](s *State) T {
	return s.data.(T)
}

// Owner returns the node this state belongs to.
func (s *State) Owner() *Node {
	return s.owner
}

// Data returns the node-specific payload.
func (s *State) Data() StateData {
	return s.data
}

// Index returns position of the state in the owner's table.
func (s *State) Index() int {
	return s.index
}

// KeyIndex returns the key position of the state.
func (s *State) KeyIndex() int {
	return s.key
}

// Parent returns the state of the dependent this context came from. It's
// nil for the root of the context.
func (s *State) Parent() *State {
	if s.dependent == nil {
		return nil
	}
	return s.dependent.table.slot(s.dependentIndex)
}

// Find walks up the parents until the state owned by owner is found. It
// panics if there's none: a number connection was made without checking
// its safety.
func (s *State) Find(owner SoundNode) *State {
	o := owner.soundNode()
	for st := s; st != nil; st = st.Parent() {
		if st.owner == o {
			return st
		}
	}
	panic(fmt.Sprintf("flo: no state of %v in context", o))
}

// Samples returns elapsed samples, committed and provisional.
func (s *State) Samples() int64 {
	return s.total + s.offset
}

// Time returns elapsed time in seconds.
func (s *State) Time() float64 {
	return float64(s.Samples()) / SampleRate
}

// Advance moves the provisional time offset by n samples. It's committed
// once the chunk is rendered.
func (s *State) Advance(n int) {
	s.offset += int64(n)
}

// TimeSpeed returns how many samples of this state pass during a single
// sample of its parent.
func (s *State) TimeSpeed() float64 {
	return s.speed
}

// SetTimeSpeed sets the time speed of this state. Non-positive values are
// ignored.
func (s *State) SetTimeSpeed(speed float64) {
	if speed > 0 {
		s.speed = speed
	}
}

// SamplesAt returns the elapsed samples of ancestor as observed from s. At
// every level the accumulated offset of the child is divided by the
// child's time speed and truncated to whole samples before it's added to
// the parent's offset.
func (s *State) SamplesAt(ancestor *State) int64 {
	offset := s.offset
	for cur := s; cur != ancestor; {
		p := cur.Parent()
		if p == nil {
			panic(fmt.Sprintf("flo: state of %v is not in context", ancestor.owner))
		}
		offset = p.offset + int64(math.Floor(float64(offset)/cur.speed))
		cur = p
	}
	return ancestor.total + offset
}

// commit adds rendered chunk to the total time.
func (s *State) commit() {
	s.total += ChunkSize
	s.offset = 0
}

// reset brings time and payloads back to the initial values.
func (s *State) reset() {
	s.total, s.offset, s.speed = 0, 0, 1
	s.data.Reset()
	for _, b := range s.borrowed {
		b.Reset()
	}
}
