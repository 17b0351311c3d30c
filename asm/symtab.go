package asm

// SymbolTable maps a symbol name to an integer value, or records the
// name as declared-but-unresolved. Lookup is O(1); names are treated
// as opaque strings so qualified forms (Enum.Member) are just names
// with a dot in them.
type SymbolTable struct {
	values     map[string]int64
	unresolved map[string]bool
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		values:     make(map[string]int64),
		unresolved: make(map[string]bool),
	}
}

// Set binds name to a concrete value, clearing any unresolved marker.
func (st *SymbolTable) Set(name string, value int64) {
	st.values[name] = value
	delete(st.unresolved, name)
}

// SetUnresolved marks name as declared but without a known value yet.
// A name with a concrete value already is left alone.
func (st *SymbolTable) SetUnresolved(name string) {
	if _, ok := st.values[name]; !ok {
		st.unresolved[name] = true
	}
}

// Get returns the symbol's value and whether it currently resolves to one.
func (st *SymbolTable) Get(name string) (int64, bool) {
	v, ok := st.values[name]
	return v, ok
}

// Contains reports whether name has been set or declared unresolved.
func (st *SymbolTable) Contains(name string) bool {
	if _, ok := st.values[name]; ok {
		return true
	}
	return st.unresolved[name]
}

// Names returns every symbol name that has a concrete value, for
// iteration (e.g. a -symbols dump). Order is not guaranteed.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.values))
	for name := range st.values {
		names = append(names, name)
	}
	return names
}
