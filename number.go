package flo

import "fmt"

// NumberNode is a vertex of the number graph. A number input depends on
// the source connected to it, a number source depends on its own inputs.
type NumberNode struct {
	uid          string
	name         string
	dependencies []*NumberNode
	dependents   []*NumberNode

	// set for number inputs.
	input *NumberInput
	// owner is the sound node whose state a sound number source reads.
	owner *Node
	// set for borrowing number sources.
	borrower *BorrowingNumberSource
}

func newNumberNode(name string) *NumberNode {
	return &NumberNode{
		uid:  newUID(),
		name: name,
	}
}

func (n *NumberNode) numberNode() *NumberNode {
	return n
}

// ID returns unique id of the node.
func (n *NumberNode) ID() string {
	return n.uid
}

// Name returns human-readable name of the node.
func (n *NumberNode) Name() string {
	return n.name
}

func (n *NumberNode) String() string {
	return fmt.Sprintf("%v %v", n.name, n.uid)
}

// Dependencies returns nodes n reads from.
func (n *NumberNode) Dependencies() []*NumberNode {
	return append([]*NumberNode(nil), n.dependencies...)
}

// Dependents returns nodes reading from n.
func (n *NumberNode) Dependents() []*NumberNode {
	return append([]*NumberNode(nil), n.dependents...)
}

// HasDependency returns true if other is reachable from n.
func (n *NumberNode) HasDependency(other *NumberNode) bool {
	return reaches(n, other, (*NumberNode).getDependencies)
}

// CanAddDependency returns true if edge from n to other is not a self
// edge, a duplicate or a cycle.
func (n *NumberNode) CanAddDependency(other *NumberNode) bool {
	if other == n || other.HasDependency(n) {
		return false
	}
	for _, d := range n.dependencies {
		if d == other {
			return false
		}
	}
	return true
}

func (n *NumberNode) addDependency(other *NumberNode) {
	if !n.CanAddDependency(other) {
		violated("%v cannot depend on %v", n, other)
	}
	n.dependencies = append(n.dependencies, other)
	other.dependents = append(other.dependents, n)
}

func (n *NumberNode) removeDependency(other *NumberNode) {
	n.dependencies = remove(n.dependencies, other)
	other.dependents = remove(other.dependents, n)
}

func (n *NumberNode) getDependencies() []*NumberNode {
	return n.dependencies
}

func (n *NumberNode) getDependents() []*NumberNode {
	return n.dependents
}

// NumberSource produces a scalar value within the context of a state.
type NumberSource interface {
	numberNode() *NumberNode
	Evaluate(ctx *State) float64
}

// NumberInput holds an optional number source and a default value used
// while it's not connected.
type NumberInput struct {
	*NumberNode
	// sound is the owning sound node. Nil for inputs of number sources.
	sound *Node
	// global inputs are evaluated without a state.
	global bool
	source NumberSource
	def    float64
}

// NewNumberInput creates a number input owned by a sound node. It's
// evaluated with the owner's states.
func NewNumberInput(owner SoundNode, def float64) *NumberInput {
	in := newNumberInput(def)
	in.sound = owner.soundNode()
	in.sound.numberInputs = append(in.sound.numberInputs, in)
	return in
}

func newNumberInput(def float64) *NumberInput {
	in := &NumberInput{
		NumberNode: newNumberNode("number input"),
		def:        def,
	}
	in.input = in
	return in
}

// newOwnedInput creates an input read by number source owner.
func newOwnedInput(owner *NumberNode, def float64) *NumberInput {
	in := newNumberInput(def)
	owner.addDependency(in.NumberNode)
	return in
}

// Default returns the value used when no source is connected.
func (in *NumberInput) Default() float64 {
	return in.def
}

// SetDefault sets the value used when no source is connected.
func (in *NumberInput) SetDefault(v float64) {
	in.def = v
}

// Source returns connected source or nil.
func (in *NumberInput) Source() NumberSource {
	return in.source
}

// Evaluate returns the value of connected source or default.
func (in *NumberInput) Evaluate(ctx *State) float64 {
	if in.source == nil {
		return in.def
	}
	return in.source.Evaluate(ctx)
}

// IsSafeSource returns true if every state src needs is reachable from
// every context the input is evaluated in.
func (in *NumberInput) IsSafeSource(src NumberSource) bool {
	owners, borrowers := statefulSources(src.numberNode())
	if len(owners) == 0 && len(borrowers) == 0 {
		return true
	}
	dests, stateless := statefulDests(in.NumberNode)
	if stateless {
		return false
	}
	for _, x := range owners {
		for _, d := range dests {
			if !stateReachable(edit{}, d, x) {
				return false
			}
		}
	}
	for _, b := range borrowers {
		hosts, stateless := statefulDests(b.NumberNode)
		if stateless {
			return false
		}
		for _, d := range dests {
			hosts = appendUnique(hosts, d)
		}
		if len(hosts) > 1 {
			return false
		}
	}
	return true
}

// SetSource connects src to the input, replacing the current source. Nil
// disconnects the input. The input is left unchanged if src would form a
// cycle or isn't safe.
func (in *NumberInput) SetSource(src NumberSource) error {
	if src == in.source {
		return nil
	}
	if src != nil {
		n := src.numberNode()
		if in.source != nil && in.source.numberNode() == n {
			return nil
		}
		if !in.canReplace(n) {
			return ErrCycle
		}
		if !in.IsSafeSource(src) {
			return ErrUnsafeSource
		}
	}
	in.setSource(src)
	return nil
}

func (in *NumberInput) canReplace(n *NumberNode) bool {
	return n != in.NumberNode && !n.HasDependency(in.NumberNode)
}

// disconnect removes the source without checks.
func (in *NumberInput) disconnect() {
	if in.source != nil {
		in.setSource(nil)
	}
}

func (in *NumberInput) setSource(src NumberSource) {
	var affected []*NumberNode
	if in.source != nil {
		old := in.source.numberNode()
		affected = closure(old, (*NumberNode).getDependencies)
		in.removeDependency(old)
	}
	in.source = src
	if src != nil {
		n := src.numberNode()
		in.addDependency(n)
		affected = append(affected, closure(n, (*NumberNode).getDependencies)...)
	}
	rehost(affected)
}

// Function is a pure number source: its value depends only on its inputs.
type Function struct {
	*NumberNode
	fn func(ctx *State) float64
}

// NewFunction creates a pure number source. fn evaluates the function's
// inputs with ctx.
func NewFunction(name string, fn func(ctx *State) float64) *Function {
	return &Function{
		NumberNode: newNumberNode(name),
		fn:         fn,
	}
}

// NewInput creates an input read by the function.
func (f *Function) NewInput(def float64) *NumberInput {
	return newOwnedInput(f.NumberNode, def)
}

// Evaluate applies the function.
func (f *Function) Evaluate(ctx *State) float64 {
	return f.fn(ctx)
}

// SoundNumberSource exposes a quantity of a sound node's state, such as
// oscillator phase or elapsed time.
type SoundNumberSource struct {
	*NumberNode
	fn func(s, ctx *State) float64
}

// NewSoundNumberSource creates a number source which reads state of owner.
// fn gets the owner's state found in the context and the context itself.
func NewSoundNumberSource(owner SoundNode, name string, fn func(s, ctx *State) float64) *SoundNumberSource {
	src := &SoundNumberSource{
		NumberNode: newNumberNode(name),
		fn:         fn,
	}
	src.owner = owner.soundNode()
	src.owner.numberSources = append(src.owner.numberSources, src)
	return src
}

// Owner returns the node whose state is read.
func (src *SoundNumberSource) Owner() *Node {
	return src.owner
}

// Evaluate finds the owner's state in the context and applies the source
// function.
func (src *SoundNumberSource) Evaluate(ctx *State) float64 {
	return src.fn(ctx.Find(src.owner), ctx)
}

// BorrowingNumberSource keeps its state in the table of the sound node it's
// evaluated by. That node is the host; a borrowing source can't be
// connected to more than one stateful destination.
type BorrowingNumberSource struct {
	*NumberNode
	host     *Node
	newState func() StateData
	fn       func(data StateData, ctx *State) float64
}

// NewBorrowingNumberSource creates a stateful number source. newState
// creates the per-context payload passed to fn.
func NewBorrowingNumberSource(name string, newState func() StateData, fn func(data StateData, ctx *State) float64) *BorrowingNumberSource {
	b := &BorrowingNumberSource{
		NumberNode: newNumberNode(name),
		newState:   newState,
		fn:         fn,
	}
	b.borrower = b
	return b
}

// Host returns the node which holds the borrowed states or nil.
func (b *BorrowingNumberSource) Host() *Node {
	return b.host
}

// NewInput creates an input read by the source.
func (b *BorrowingNumberSource) NewInput(def float64) *NumberInput {
	return newOwnedInput(b.NumberNode, def)
}

// Evaluate applies the function to the borrowed state of the context.
func (b *BorrowingNumberSource) Evaluate(ctx *State) float64 {
	if b.host == nil {
		violated("%v is evaluated without a host", b.NumberNode)
	}
	st := ctx.Find(b.host)
	return b.fn(st.borrowed[b.host.table.borrowerIndex(b)], ctx)
}

// rehost moves borrowed states to the only stateful destination.
func (b *BorrowingNumberSource) rehost() {
	dests, _ := statefulDests(b.NumberNode)
	var host *Node
	if len(dests) == 1 {
		host = dests[0]
	}
	if host == b.host {
		return
	}
	if b.host != nil {
		b.host.table.removeBorrower(b)
	}
	b.host = host
	if host != nil {
		host.table.addBorrower(b)
	}
}

func rehost(nodes []*NumberNode) {
	seen := make(map[*BorrowingNumberSource]struct{})
	for _, n := range nodes {
		if n.borrower == nil {
			continue
		}
		if _, ok := seen[n.borrower]; ok {
			continue
		}
		seen[n.borrower] = struct{}{}
		n.borrower.rehost()
	}
}

// NumberResult is a global number destination. It's evaluated without any
// state, so only stateless sources can be connected to it.
type NumberResult struct {
	Input *NumberInput
}

// NewNumberResult creates a global number destination with default value.
func NewNumberResult(def float64) *NumberResult {
	in := newNumberInput(def)
	in.global = true
	return &NumberResult{Input: in}
}

// Evaluate returns value of connected source or default.
func (r *NumberResult) Evaluate() float64 {
	return r.Input.Evaluate(nil)
}
