package emit

import "dltc/src/types"

// funcEntry is one (name, paramTypes, returnType, isExternal, isVariadic)
// row of spec.md §3's function table.
type funcEntry struct {
	Name       string
	ParamTypes []types.Type
	ReturnType types.Type
	External   bool
	Variadic   bool
	used       bool // not set by the emitter; calls are tracked in Emitter.used instead
}

// functable is the flat, append-only function table of one compilation.
// Names are unique; lookup goes through a map keyed by name, and order
// keeps the registration order.
type functable struct {
	order   []string
	entries map[string]*funcEntry
}

func newFunctable() *functable {
	ft := &functable{entries: make(map[string]*funcEntry, 16)}
	ft.registerBuiltins()
	return ft
}

func (ft *functable) add(e *funcEntry) bool {
	if _, exists := ft.entries[e.Name]; exists {
		return false
	}
	ft.order = append(ft.order, e.Name)
	ft.entries[e.Name] = e
	return true
}

func (ft *functable) lookup(name string) (*funcEntry, bool) {
	e, ok := ft.entries[name]
	return e, ok
}

// registerBuiltins seeds the table with the external symbols spec.md §6
// requires the emitted IR to be able to reference: exit, printf, malloc,
// free, strlen, strcpy, plus the stdlib wrapper names.
func (ft *functable) registerBuiltins() {
	i8p := types.PtrTo(types.I8)
	builtins := []*funcEntry{
		{Name: "exit", ParamTypes: []types.Type{types.Prim(types.I32)}, ReturnType: types.Prim(types.Void), External: true},
		{Name: "printf", ParamTypes: []types.Type{i8p}, ReturnType: types.Prim(types.I32), External: true, Variadic: true},
		{Name: "malloc", ParamTypes: []types.Type{types.Prim(types.I64)}, ReturnType: i8p, External: true},
		{Name: "free", ParamTypes: []types.Type{i8p}, ReturnType: types.Prim(types.Void), External: true},
		{Name: "strlen", ParamTypes: []types.Type{i8p}, ReturnType: types.Prim(types.I64), External: true},
		{Name: "strcpy", ParamTypes: []types.Type{i8p, i8p}, ReturnType: i8p, External: true},
		{Name: "stdOpenWindow", ParamTypes: []types.Type{types.Prim(types.I32), types.Prim(types.I32)}, ReturnType: types.Prim(types.I32), External: true},
		{Name: "stdIsKeyPressed", ParamTypes: []types.Type{types.Prim(types.I32)}, ReturnType: types.Prim(types.I32), External: true},
		{Name: "stdSleep", ParamTypes: []types.Type{types.Prim(types.I32)}, ReturnType: types.Prim(types.Void), External: true},
	}
	for _, b := range builtins {
		ft.add(b)
	}
}
