package flo

import (
	"fmt"

	"github.com/rs/xid"
)

// SoundNode is implemented by every sound graph type. It's satisfied by
// embedding *Node, directly or through SoundSource and the sound inputs.
type SoundNode interface {
	soundNode() *Node
}

// Node is a vertex of the sound graph. It keeps the ordered edge sets and
// the StateTable with one state per context the node is reachable in.
//
// Dependency means "reads from": a sound source depends on its inputs and
// an input depends on the source connected to it. Dependents are the
// reverse edges.
type Node struct {
	uid          string
	name         string
	dependencies []*Node
	dependents   []*Node
	table        StateTable

	// back references to the graph types built on top of the node.
	source *SoundSource
	input  *soundInput

	numberInputs  []*NumberInput
	numberSources []NumberSource
}

func newNode(name string, newState func() StateData) *Node {
	n := &Node{
		uid:  newUID(),
		name: name,
	}
	n.table = StateTable{
		owner:    n,
		newState: newState,
		numKeys:  1,
	}
	return n
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

func (n *Node) soundNode() *Node {
	return n
}

// ID returns unique id of the node.
func (n *Node) ID() string {
	return n.uid
}

// Name returns human-readable name of the node.
func (n *Node) Name() string {
	return n.name
}

// String returns name and id of the node.
func (n *Node) String() string {
	if n.name == "" {
		return n.uid
	}
	return fmt.Sprintf("%v %v", n.name, n.uid)
}

// StateTable returns the table holding states of this node.
func (n *Node) StateTable() *StateTable {
	return &n.table
}

// Dependencies returns direct dependencies of the node.
func (n *Node) Dependencies() []*Node {
	return append([]*Node(nil), n.dependencies...)
}

// Dependents returns direct dependents of the node.
func (n *Node) Dependents() []*Node {
	return append([]*Node(nil), n.dependents...)
}

// HasDependency returns true if other is reachable from n through one or
// more dependency edges.
func (n *Node) HasDependency(other SoundNode) bool {
	return reaches(n, other.soundNode(), (*Node).getDependencies)
}

// HasDependent returns true if n is reachable from other through one or
// more dependency edges.
func (n *Node) HasDependent(other SoundNode) bool {
	return reaches(n, other.soundNode(), (*Node).getDependents)
}

// AllDependencies returns n and every node reachable from it.
func (n *Node) AllDependencies() []*Node {
	return closure(n, (*Node).getDependencies)
}

// AllDependents returns n and every node n is reachable from.
func (n *Node) AllDependents() []*Node {
	return closure(n, (*Node).getDependents)
}

// CanAddDependency checks if n.AddDependency(other) is allowed: other is
// not n, the edge doesn't exist yet, no cycle is formed and every number
// connection in the affected subgraph still reaches its state.
func (n *Node) CanAddDependency(other SoundNode) bool {
	o := other.soundNode()
	if o == n || n.dependsOn(o) || o.HasDependency(n) {
		return false
	}
	if o.table.monostate && (len(o.dependents) > 0 || n.table.NumSlots() > 1) {
		return false
	}
	return numberSafe(edit{from: n, to: o, add: true}, o)
}

// CanRemoveDependency checks if n.RemoveDependency(other) is allowed: the
// edge exists and no number connection loses the state it depends on.
func (n *Node) CanRemoveDependency(other SoundNode) bool {
	o := other.soundNode()
	if !n.dependsOn(o) {
		return false
	}
	return numberSafe(edit{from: n, to: o, remove: true}, o)
}

// AddDependency adds an edge from n to other and gives other the states of
// every context n is reachable in. It panics on self edges, duplicates and
// cycles; number safety is the caller's responsibility.
func (n *Node) AddDependency(other SoundNode) {
	o := other.soundNode()
	switch {
	case o == n:
		violated("%v cannot depend on itself", n)
	case n.dependsOn(o):
		violated("%v already depends on %v", n, o)
	case o.HasDependency(n):
		violated("%v depending on %v forms a cycle", n, o)
	}
	n.dependencies = append(n.dependencies, o)
	o.dependents = append(o.dependents, n)
	o.table.addDependent(n)
	o.table.insertDependentStates(n, 0, n.table.NumSlots())
}

// RemoveDependency removes an existing edge from n to other and erases the
// states other had for n. It panics if the edge doesn't exist.
func (n *Node) RemoveDependency(other SoundNode) {
	o := other.soundNode()
	if !n.dependsOn(o) {
		violated("%v doesn't depend on %v", n, o)
	}
	o.table.eraseDependentStates(n, 0, o.table.rowsOf(n))
	o.table.removeDependent(n)
	n.dependencies = remove(n.dependencies, o)
	o.dependents = remove(o.dependents, n)
}

func (n *Node) dependsOn(o *Node) bool {
	for _, d := range n.dependencies {
		if d == o {
			return true
		}
	}
	return false
}

func (n *Node) getDependencies() []*Node {
	return n.dependencies
}

func (n *Node) getDependents() []*Node {
	return n.dependents
}

// isRoot reports if the node starts contexts on its own: it has a state
// without being read by anyone.
func (n *Node) isRoot() bool {
	return n.table.monostate && len(n.dependents) == 0
}

// reaches walks the graph from n with next and returns true if target is
// found after at least one step.
func reaches[T comparable](n, target T, next func(T) []T) bool {
	visited := map[T]struct{}{n: {}}
	queue := append([]T(nil), next(n)...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		queue = append(queue, next(cur)...)
	}
	return false
}

// closure returns n and everything reachable from it with next, in
// breadth-first order.
func closure[T comparable](n T, next func(T) []T) []T {
	visited := map[T]struct{}{n: {}}
	result := []T{n}
	for i := 0; i < len(result); i++ {
		for _, m := range next(result[i]) {
			if _, ok := visited[m]; ok {
				continue
			}
			visited[m] = struct{}{}
			result = append(result, m)
		}
	}
	return result
}

func remove[T comparable](s []T, v T) []T {
	for i := range s {
		if s[i] == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
