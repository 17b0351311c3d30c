package asm

// LocalLabelTable records every PC at which a decimal local label
// (e.g. "1:") was defined, in source order, so that "1f"/"1b"
// references can pick the nearest forward or backward definition.
type LocalLabelTable struct {
	positions map[string][]int64
}

// NewLocalLabelTable creates an empty table.
func NewLocalLabelTable() *LocalLabelTable {
	return &LocalLabelTable{positions: make(map[string][]int64)}
}

// Define appends pc to the list of definitions for the decimal label name.
func (t *LocalLabelTable) Define(name string, pc int64) {
	t.positions[name] = append(t.positions[name], pc)
}

// Forward returns the smallest recorded PC for name strictly greater
// than from (the "Nf" reference semantics).
func (t *LocalLabelTable) Forward(name string, from int64) (int64, bool) {
	best := int64(0)
	found := false
	for _, pc := range t.positions[name] {
		if pc > from && (!found || pc < best) {
			best = pc
			found = true
		}
	}
	return best, found
}

// Backward returns the largest recorded PC for name less than or equal
// to from (the "Nb" reference semantics).
func (t *LocalLabelTable) Backward(name string, from int64) (int64, bool) {
	best := int64(0)
	found := false
	for _, pc := range t.positions[name] {
		if pc <= from && (!found || pc > best) {
			best = pc
			found = true
		}
	}
	return best, found
}
