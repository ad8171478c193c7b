package flo

import "slices"

// SoundInput is implemented by SingleInput and MultiInput.
type SoundInput interface {
	SoundNode
	soundInputBase() *soundInput
}

// soundInput is the consumer side of a sound wire. Its states follow the
// states of the owner: one row per owner state, one slot per key.
type soundInput struct {
	*Node
	owner *Node
}

func newSoundInput(name string, owner SoundNode, newState func() StateData) soundInput {
	if newState == nil {
		newState = newNoState
	}
	return soundInput{
		Node:  newNode(name, newState),
		owner: owner.soundNode(),
	}
}

func (in *soundInput) soundInputBase() *soundInput {
	return in
}

// Owner returns the node this input belongs to.
func (in *soundInput) Owner() *Node {
	return in.owner
}

// Source returns connected source or nil.
func (in *soundInput) Source() *SoundSource {
	if len(in.dependencies) == 0 {
		return nil
	}
	return in.dependencies[0].source
}

// CanSetSource checks if SetSource would succeed.
func (in *soundInput) CanSetSource(src Source) bool {
	return in.checkSource(src) == nil
}

// SetSource connects the input to src, replacing the current source. Nil
// disconnects the input. If the connection is not allowed, the input is
// left unchanged and the reason is returned.
func (in *soundInput) SetSource(src Source) error {
	if err := in.checkSource(src); err != nil {
		return err
	}
	if in.Source() == sourceOf(src) {
		return nil
	}
	in.setSource(src)
	return nil
}

func (in *soundInput) checkSource(src Source) error {
	next, cur := nodeOf(sourceOf(src)), nodeOf(in.Source())
	if cur == next {
		return nil
	}
	if cur != nil && !in.CanRemoveDependency(cur) {
		return ErrStrandsState
	}
	if next != nil {
		if next.HasDependency(in.Node) {
			return ErrCycle
		}
		if !in.CanAddDependency(next) {
			return ErrUnsafeSource
		}
	}
	return nil
}

func (in *soundInput) setSource(src Source) {
	if cur := in.Source(); cur != nil {
		in.RemoveDependency(cur)
	}
	if src != nil {
		in.AddDependency(src)
	}
}

// pull renders the source into c within context st, or silence if the
// input is not connected.
func (in *soundInput) pull(c *Chunk, st *State) {
	if src := in.Source(); src != nil {
		src.nextChunk(c, st, in.Node)
	} else {
		c.Silence()
	}
	st.commit()
}

func (in *soundInput) checkOwner(ownerState *State) {
	if ownerState.owner != in.owner {
		violated("%v: state of %v is not owned by %v", in.Node, ownerState.owner, in.owner)
	}
}

func sourceOf(src Source) *SoundSource {
	if src == nil {
		return nil
	}
	return src.soundSource()
}

func nodeOf(s *SoundSource) *Node {
	if s == nil {
		return nil
	}
	return s.Node
}

// SingleInput is a sound input with a single state per owner state.
type SingleInput struct {
	soundInput
}

// NewSingleInput creates an input owned by owner.
func NewSingleInput(owner SoundNode) *SingleInput {
	in := &SingleInput{
		soundInput: newSoundInput("input", owner, nil),
	}
	in.Node.input = &in.soundInput
	owner.soundNode().AddDependency(in)
	return in
}

// StateFor returns the state of the input within the owner's context.
func (in *SingleInput) StateFor(ownerState *State) *State {
	in.checkOwner(ownerState)
	return in.table.StateFor(in.owner, ownerState.index, 0)
}

// NextChunk renders the next chunk of the connected source within the
// owner's context.
func (in *SingleInput) NextChunk(c *Chunk, ownerState *State) {
	in.pull(c, in.StateFor(ownerState))
}

// MultiInput is a sound input with one state per owner state and key.
// Keys are registered by the owner before they're used for rendering.
type MultiInput[K comparable] struct {
	soundInput
	keys []K
}

// NewMultiInput creates an input without keys owned by owner. newState
// creates per-key payload; nil means no payload.
func NewMultiInput[K comparable](owner SoundNode, newState func() StateData) *MultiInput[K] {
	in := &MultiInput[K]{
		soundInput: newSoundInput("multi input", owner, newState),
	}
	in.table.numKeys = 0
	in.Node.input = &in.soundInput
	owner.soundNode().AddDependency(in)
	return in
}

// Keys returns registered keys in the order they were added.
func (in *MultiInput[K]) Keys() []K {
	return append([]K(nil), in.keys...)
}

// HasKey returns true if k is registered.
func (in *MultiInput[K]) HasKey(k K) bool {
	return slices.Contains(in.keys, k)
}

// AddKey registers a new key and creates its states in every context.
func (in *MultiInput[K]) AddKey(k K) {
	if in.HasKey(k) {
		violated("%v: key %v already exists", in.Node, k)
	}
	in.keys = append(in.keys, k)
	n := len(in.keys)
	in.table.insertKeys(n-1, n)
}

// RemoveKey erases states of the key in every context.
func (in *MultiInput[K]) RemoveKey(k K) {
	i := in.keyIndex(k)
	in.table.eraseKeys(i, i+1)
	in.keys = slices.Delete(in.keys, i, i+1)
}

// KeyOf returns the key of a state owned by this input.
func (in *MultiInput[K]) KeyOf(s *State) K {
	if s.owner != in.Node {
		violated("%v: state of %v is not owned by input", in.Node, s.owner)
	}
	return in.keys[s.key]
}

// StateFor returns the state of key k within the owner's context.
func (in *MultiInput[K]) StateFor(ownerState *State, k K) *State {
	in.checkOwner(ownerState)
	return in.table.StateFor(in.owner, ownerState.index, in.keyIndex(k))
}

// ResetKey resets the state of key k within the owner's context and
// everything rendered from it.
func (in *MultiInput[K]) ResetKey(ownerState *State, k K) {
	in.table.resetSlot(in.StateFor(ownerState, k).index)
}

// NextChunk renders the next chunk for key k within the owner's context.
func (in *MultiInput[K]) NextChunk(c *Chunk, ownerState *State, k K) {
	in.pull(c, in.StateFor(ownerState, k))
}

func (in *MultiInput[K]) keyIndex(k K) int {
	i := slices.Index(in.keys, k)
	if i < 0 {
		violated("%v: key %v is not registered", in.Node, k)
	}
	return i
}
