package parser

// Symbol is one symbol-table entry
type Symbol struct {
	DeclaredType ValueType
	Initialized  bool
}

// SymbolTable is a single flat scope keyed by identifier name. The flat
// scope (no function-local shadowing) is a known limitation kept to match
// the established diagnostics; see DESIGN.md.
type SymbolTable struct {
	entries map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]*Symbol)}
}

// Declare adds an entry for name. Re-declaration overwrites the existing
// entry; duplicate declarations are not reported.
func (st *SymbolTable) Declare(name string, declaredType ValueType, initialized bool) {
	st.entries[name] = &Symbol{DeclaredType: declaredType, Initialized: initialized}
}

// Lookup returns the entry for name, if any
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.entries[name]
	return sym, ok
}

// MarkInitialized flips the initialized flag for name if it is declared
func (st *SymbolTable) MarkInitialized(name string) {
	if sym, ok := st.entries[name]; ok {
		sym.Initialized = true
	}
}
