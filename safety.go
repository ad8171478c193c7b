package flo

// edit is a view of the sound graph with one edge added or removed. The
// zero value is the graph as it is.
type edit struct {
	from, to    *Node
	add, remove bool
}

func (e edit) dependencies(n *Node) []*Node {
	switch {
	case e.add && n == e.from:
		return append(n.Dependencies(), e.to)
	case e.remove && n == e.from:
		return remove(n.Dependencies(), e.to)
	}
	return n.dependencies
}

func (e edit) dependents(n *Node) []*Node {
	switch {
	case e.add && n == e.to:
		return append(n.Dependents(), e.from)
	case e.remove && n == e.to:
		return remove(n.Dependents(), e.from)
	}
	return n.dependents
}

func (e edit) isRoot(n *Node) bool {
	return n.table.monostate && len(e.dependents(n)) == 0
}

// numberSafe checks that after the edit every number input in the subtree
// of top can still find the states its source reads.
func numberSafe(v edit, top *Node) bool {
	for _, d := range closure(top, v.dependencies) {
		for _, in := range d.numberInputs {
			if in.source == nil {
				continue
			}
			owners, _ := statefulSources(in.source.numberNode())
			for _, x := range owners {
				if !stateReachable(v, d, x) {
					return false
				}
			}
		}
	}
	return true
}

// stateReachable returns true if state of x can be found from every state
// of d: x is d, or x reads from d and every path from d to a render root
// passes through x.
func stateReachable(v edit, d, x *Node) bool {
	if d == x {
		return true
	}
	if !reaches(x, d, v.dependencies) {
		return false
	}
	visited := map[*Node]struct{}{d: {}}
	stack := []*Node{d}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v.isRoot(n) {
			return false
		}
		for _, p := range v.dependents(n) {
			if p == x {
				continue
			}
			if _, ok := visited[p]; ok {
				continue
			}
			visited[p] = struct{}{}
			stack = append(stack, p)
		}
	}
	return true
}

// statefulSources returns sound nodes whose states are read by the number
// source n and the borrowing sources it evaluates.
func statefulSources(n *NumberNode) (owners []*Node, borrowers []*BorrowingNumberSource) {
	for _, m := range closure(n, (*NumberNode).getDependencies) {
		if m.owner != nil {
			owners = appendUnique(owners, m.owner)
		}
		if m.borrower != nil {
			borrowers = append(borrowers, m.borrower)
		}
	}
	return owners, borrowers
}

// statefulDests returns sound nodes which evaluate n with their states and
// whether n is evaluated by a global destination.
func statefulDests(n *NumberNode) (dests []*Node, stateless bool) {
	for _, m := range closure(n, (*NumberNode).getDependents) {
		if m.input == nil {
			continue
		}
		switch {
		case m.input.sound != nil:
			dests = appendUnique(dests, m.input.sound)
		case m.input.global:
			stateless = true
		}
	}
	return dests, stateless
}

// disconnectDependents removes src from every input it's connected to.
func disconnectDependents(src NumberSource) {
	for _, d := range src.numberNode().Dependents() {
		if d.input != nil {
			d.input.disconnect()
		}
	}
}

func appendUnique[T comparable](s []T, v T) []T {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
