package emit

import "dltc/src/types"

// binding is one (name, type, isConst, storageHandle) entry of spec.md §3's
// symbol table: storageHandle is the IR register of the alloca backing the
// variable.
type binding struct {
	Type    types.Type
	Const   bool
	Storage string
}

// scope is one frame of the symbol-table stack: bindings looked up by name
// through a map, with a names slice alongside it that keeps insertion order
// available for diagnostics. The frame mirrors the teacher's small-scope-per-block
// design (ir/llvm/transform.go's symTab), generalized from a flat global
// hash map to one frame per lexical scope.
type scope struct {
	names   []string
	entries map[string]binding
}

func newScope() *scope {
	return &scope{entries: make(map[string]binding, 8)}
}

func (s *scope) declare(name string, b binding) {
	s.names = append(s.names, name)
	s.entries[name] = b
}

func (s *scope) lookup(name string) (binding, bool) {
	b, ok := s.entries[name]
	return b, ok
}

// symtab is the stack of scopes of one function's compilation, innermost
// scope last. Name lookup scans from innermost outward; first match wins
// (spec.md §3).
type symtab struct {
	scopes []*scope
}

func newSymtab() *symtab {
	return &symtab{}
}

func (st *symtab) push() {
	st.scopes = append(st.scopes, newScope())
}

// pop removes the innermost scope and returns the number of bindings it
// held, so callers can assert scope balance (spec.md §8 property 6).
func (st *symtab) pop() int {
	n := len(st.scopes)
	top := st.scopes[n-1]
	st.scopes = st.scopes[:n-1]
	return len(top.names)
}

func (st *symtab) top() *scope {
	return st.scopes[len(st.scopes)-1]
}

// declareInCurrentScope adds a binding to the innermost scope. Returns false
// if name already exists in that same scope (spec.md §3: "redeclaration is
// an error", shadowing only forbidden within the same scope).
func (st *symtab) declareInCurrentScope(name string, b binding) bool {
	cur := st.top()
	if _, exists := cur.entries[name]; exists {
		return false
	}
	cur.declare(name, b)
	return true
}

// lookup scans scopes innermost-first.
func (st *symtab) lookup(name string) (binding, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if b, ok := st.scopes[i].lookup(name); ok {
			return b, true
		}
	}
	return binding{}, false
}
