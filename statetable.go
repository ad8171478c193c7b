package flo

import "slices"

// StateTable stores the states of a single node. Slots are laid out as
// rows of dependent states, grouped by dependent in the order dependents
// were added, with one slot per key in every row:
//
//	slot index = (offset of dependent + dependent state index) * keys + key
//
// Every slot holds the node's own state and one borrowed state per
// registered borrowing number source.
//
// In monostate mode the table holds exactly one slot no matter how many
// dependent states exist. It's used by render roots.
type StateTable struct {
	owner     *Node
	newState  func() StateData
	slots     []State
	rows      []dependentRows
	numKeys   int
	monostate bool
	borrowers []*BorrowingNumberSource
}

// dependentRows is the number of states the table keeps for a dependent.
// It follows the dependent's slot count, but lags behind it while a
// structural change is being propagated.
type dependentRows struct {
	node  *Node
	count int
}

// NumSlots returns the number of states in the table.
func (t *StateTable) NumSlots() int {
	return len(t.slots)
}

// NumDependentStates returns the number of rows in the table.
func (t *StateTable) NumDependentStates() int {
	if t.monostate {
		return 1
	}
	return t.numRows()
}

// NumKeys returns the number of keys, slots per row.
func (t *StateTable) NumKeys() int {
	return t.numKeys
}

// NumBorrowers returns the number of borrowed states in every slot.
func (t *StateTable) NumBorrowers() int {
	return len(t.borrowers)
}

// IsMonostate returns true if the table is collapsed to a single slot.
func (t *StateTable) IsMonostate() bool {
	return t.monostate
}

// State returns the state at provided slot index.
func (t *StateTable) State(i int) *State {
	return t.slot(i)
}

// StateIndex returns the slot index of the state which belongs to the
// context (dependent, dependent state, key). It panics if such state
// isn't registered.
func (t *StateTable) StateIndex(dependent SoundNode, dependentIndex, key int) int {
	d := dependent.soundNode()
	if t.monostate {
		if dependentIndex != 0 || key != 0 {
			violated("%v: monostate table has no state (%v, %d, %d)", t.owner, d, dependentIndex, key)
		}
		return 0
	}
	r := t.rowIndex(d)
	if dependentIndex < 0 || dependentIndex >= t.rows[r].count || key < 0 || key >= t.numKeys {
		violated("%v: no state (%v, %d, %d)", t.owner, d, dependentIndex, key)
	}
	return (t.offsetAt(r)+dependentIndex)*t.numKeys + key
}

// StateFor returns the state of the context (dependent, dependent state,
// key).
func (t *StateTable) StateFor(dependent SoundNode, dependentIndex, key int) *State {
	return &t.slots[t.StateIndex(dependent, dependentIndex, key)]
}

// ResetStateFor resets every key of the dependent state's row and the
// same contexts in all dependencies. Nothing is reallocated.
func (t *StateTable) ResetStateFor(dependent SoundNode, dependentIndex int) {
	t.resetStateFor(dependent.soundNode(), dependentIndex)
}

func (t *StateTable) slot(i int) *State {
	if i < 0 || i >= len(t.slots) {
		violated("%v: slot %d out of %d", t.owner, i, len(t.slots))
	}
	return &t.slots[i]
}

func (t *StateTable) numRows() int {
	total := 0
	for _, r := range t.rows {
		total += r.count
	}
	return total
}

func (t *StateTable) rowIndex(d *Node) int {
	for i := range t.rows {
		if t.rows[i].node == d {
			return i
		}
	}
	violated("%v is not a dependent of %v", d, t.owner)
	return -1
}

func (t *StateTable) offsetAt(r int) int {
	offset := 0
	for i := 0; i < r; i++ {
		offset += t.rows[i].count
	}
	return offset
}

func (t *StateTable) rowsOf(d *Node) int {
	return t.rows[t.rowIndex(d)].count
}

func (t *StateTable) addDependent(d *Node) {
	if t.monostate && len(t.rows) > 0 {
		violated("%v: monostate table with more than one dependent", t.owner)
	}
	t.rows = append(t.rows, dependentRows{node: d})
}

func (t *StateTable) removeDependent(d *Node) {
	r := t.rowIndex(d)
	if t.rows[r].count != 0 {
		violated("%v: removing dependent %v with %d states", t.owner, d, t.rows[r].count)
	}
	t.rows = slices.Delete(t.rows, r, r+1)
}

// construct returns a new reset state with all borrowed states.
func (t *StateTable) construct() State {
	s := State{
		owner: t.owner,
		speed: 1,
		data:  t.newState(),
	}
	if len(t.borrowers) > 0 {
		s.borrowed = make([]StateData, len(t.borrowers))
		for i, b := range t.borrowers {
			s.borrowed[i] = b.newState()
		}
	}
	s.reset()
	return s
}

// insertDependentStates is called when dependent d gained states
// [begin, end). New slots are inserted for every key and the insertion is
// propagated to all dependencies of the owner.
func (t *StateTable) insertDependentStates(d *Node, begin, end int) {
	r := t.rowIndex(d)
	if begin < 0 || end < begin || begin > t.rows[r].count {
		violated("%v: invalid insertion [%d, %d) of %v states", t.owner, begin, end, d)
	}
	if begin == end {
		return
	}
	t.rows[r].count += end - begin
	if t.monostate {
		if t.rows[r].count > 1 {
			violated("%v: monostate table with more than one dependent state", t.owner)
		}
		t.repoint()
		return
	}

	k := t.numKeys
	pos := (t.offsetAt(r) + begin) * k
	n := (end - begin) * k
	if n == 0 {
		return
	}
	fresh := make([]State, n)
	for i := range fresh {
		fresh[i] = t.construct()
	}
	t.slots = slices.Insert(t.slots, pos, fresh...)
	t.repoint()

	for _, dep := range t.owner.dependencies {
		dep.table.insertDependentStates(t.owner, pos, pos+n)
	}
}

// eraseDependentStates is called when dependent d lost states
// [begin, end). The erase is propagated to all dependencies first.
func (t *StateTable) eraseDependentStates(d *Node, begin, end int) {
	r := t.rowIndex(d)
	if begin < 0 || end < begin || end > t.rows[r].count {
		violated("%v: invalid erase [%d, %d) of %v states", t.owner, begin, end, d)
	}
	if begin == end {
		return
	}
	if t.monostate {
		t.rows[r].count -= end - begin
		t.repoint()
		return
	}

	k := t.numKeys
	pos := (t.offsetAt(r) + begin) * k
	n := (end - begin) * k
	if n > 0 {
		for _, dep := range t.owner.dependencies {
			dep.table.eraseDependentStates(t.owner, pos, pos+n)
		}
		copy(t.slots[pos:], t.slots[pos+n:])
		clear(t.slots[len(t.slots)-n:])
		t.slots = t.slots[:len(t.slots)-n]
	}
	t.rows[r].count -= end - begin
	t.repoint()
}

// insertKeys adds keys [begin, end) to every row. Every row is a separate
// range of new states for the dependencies.
func (t *StateTable) insertKeys(begin, end int) {
	if t.monostate {
		violated("%v: keys in monostate table", t.owner)
	}
	if begin < 0 || end < begin || begin > t.numKeys {
		violated("%v: invalid key insertion [%d, %d) of %d", t.owner, begin, end, t.numKeys)
	}
	if begin == end {
		return
	}
	oldKeys, newKeys := t.numKeys, t.numKeys+end-begin
	rows := t.numRows()
	slots := make([]State, rows*newKeys)
	for row := 0; row < rows; row++ {
		src := t.slots[row*oldKeys : (row+1)*oldKeys]
		dst := slots[row*newKeys : (row+1)*newKeys]
		copy(dst, src[:begin])
		for i := begin; i < end; i++ {
			dst[i] = t.construct()
		}
		copy(dst[end:], src[begin:])
	}
	t.slots = slots
	t.numKeys = newKeys
	t.repoint()

	for row := 0; row < rows; row++ {
		for _, dep := range t.owner.dependencies {
			dep.table.insertDependentStates(t.owner, row*newKeys+begin, row*newKeys+end)
		}
	}
}

// eraseKeys removes keys [begin, end) from every row.
func (t *StateTable) eraseKeys(begin, end int) {
	if t.monostate {
		violated("%v: keys in monostate table", t.owner)
	}
	if begin < 0 || end < begin || end > t.numKeys {
		violated("%v: invalid key erase [%d, %d) of %d", t.owner, begin, end, t.numKeys)
	}
	if begin == end {
		return
	}
	oldKeys, newKeys := t.numKeys, t.numKeys-(end-begin)
	rows := t.numRows()
	for row := rows - 1; row >= 0; row-- {
		for _, dep := range t.owner.dependencies {
			dep.table.eraseDependentStates(t.owner, row*oldKeys+begin, row*oldKeys+end)
		}
	}

	slots := make([]State, rows*newKeys)
	for row := 0; row < rows; row++ {
		src := t.slots[row*oldKeys : (row+1)*oldKeys]
		dst := slots[row*newKeys : (row+1)*newKeys]
		copy(dst, src[:begin])
		copy(dst[begin:], src[end:])
	}
	t.slots = slots
	t.numKeys = newKeys
	t.repoint()
}

func (t *StateTable) resetStateFor(d *Node, dependentIndex int) {
	if t.monostate {
		t.resetSlot(0)
		return
	}
	r := t.rowIndex(d)
	if dependentIndex < 0 || dependentIndex >= t.rows[r].count {
		violated("%v: no state (%v, %d)", t.owner, d, dependentIndex)
	}
	base := (t.offsetAt(r) + dependentIndex) * t.numKeys
	for key := 0; key < t.numKeys; key++ {
		t.resetSlot(base + key)
	}
}

// resetSlot resets a single slot and the contexts it started in the
// dependencies.
func (t *StateTable) resetSlot(i int) {
	t.slot(i).reset()
	for _, dep := range t.owner.dependencies {
		dep.table.resetStateFor(t.owner, i)
	}
}

// addBorrower appends a borrowed state to every slot.
func (t *StateTable) addBorrower(b *BorrowingNumberSource) {
	for _, x := range t.borrowers {
		if x == b {
			violated("%v: %v already borrows", t.owner, b)
		}
	}
	t.borrowers = append(t.borrowers, b)
	for i := range t.slots {
		s := b.newState()
		s.Reset()
		t.slots[i].borrowed = append(t.slots[i].borrowed, s)
	}
}

// removeBorrower removes the borrowed state of b from every slot.
func (t *StateTable) removeBorrower(b *BorrowingNumberSource) {
	idx := t.borrowerIndex(b)
	t.borrowers = slices.Delete(t.borrowers, idx, idx+1)
	for i := range t.slots {
		t.slots[i].borrowed = slices.Delete(t.slots[i].borrowed, idx, idx+1)
	}
}

func (t *StateTable) borrowerIndex(b *BorrowingNumberSource) int {
	for i, x := range t.borrowers {
		if x == b {
			return i
		}
	}
	violated("%v: %v doesn't borrow", t.owner, b)
	return -1
}

// enableMonostate collapses the table to a single slot. The owner must
// have at most one dependent with at most one state.
func (t *StateTable) enableMonostate() {
	if t.monostate {
		return
	}
	if len(t.rows) > 1 || t.numRows() > 1 || t.numKeys != 1 {
		violated("%v: cannot enable monostate with %d dependents", t.owner, len(t.rows))
	}
	t.monostate = true
	if len(t.slots) == 1 {
		t.repoint()
		return
	}
	t.slots = []State{t.construct()}
	t.repoint()
	for _, dep := range t.owner.dependencies {
		dep.table.insertDependentStates(t.owner, 0, 1)
	}
}

// repoint refreshes header of every slot after the layout changed.
func (t *StateTable) repoint() {
	if t.monostate {
		s := &t.slots[0]
		s.dependent, s.dependentIndex, s.key, s.index = nil, 0, 0, 0
		for _, r := range t.rows {
			if r.count == 1 {
				s.dependent = r.node
			}
		}
		return
	}
	offset := 0
	for _, r := range t.rows {
		t.repointRows(r, offset)
		offset += r.count
	}
}

// repointStatesFor refreshes the slots which belong to dependent d.
func (t *StateTable) repointStatesFor(d *Node) {
	r := t.rowIndex(d)
	t.repointRows(t.rows[r], t.offsetAt(r))
}

func (t *StateTable) repointRows(r dependentRows, offset int) {
	k := t.numKeys
	for j := 0; j < r.count; j++ {
		for key := 0; key < k; key++ {
			i := (offset+j)*k + key
			s := &t.slots[i]
			s.dependent, s.dependentIndex, s.key, s.index = r.node, j, key, i
		}
	}
}
