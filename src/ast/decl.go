package ast

import "dltc/src/types"

// Param is one name:type entry in a function's parameter list.
type Param struct {
	Name string
	Type types.Type
}

type FunctionDecl struct {
	Position
	Name       string
	Params     []Param
	ReturnType types.Type
	Body       *ScopeStmt
}

type ExternDecl struct {
	Position
	Name       string
	ParamTypes []types.Type
	ReturnType types.Type
	Variadic   bool
}

// Program is the root of one compilation's AST: spec.md §3's
// (externs, functions, top-level statements) triple. Top-level statements
// are folded into an implicit entry sequence ahead of `main`'s body by the
// emitter rather than kept as a separate execution path, mirroring how the
// teacher's Program node holds one flat global list emitted in source order.
type Program struct {
	Position
	Externs    []*ExternDecl
	Functions  []*FunctionDecl
	TopLevel   []Stmt
}

func (a *Arena) NewFunctionDecl(line int, name string, params []Param, ret types.Type, body *ScopeStmt) *FunctionDecl {
	n := a.funcs.alloc()
	*n = FunctionDecl{Position: Position{line}, Name: name, Params: params, ReturnType: ret, Body: body}
	return n
}

func (a *Arena) NewExternDecl(line int, name string, paramTypes []types.Type, ret types.Type, variadic bool) *ExternDecl {
	n := a.externs.alloc()
	*n = ExternDecl{Position: Position{line}, Name: name, ParamTypes: paramTypes, ReturnType: ret, Variadic: variadic}
	return n
}

func (a *Arena) NewProgram(externs []*ExternDecl, funcs []*FunctionDecl, top []Stmt) *Program {
	n := a.programs.alloc()
	*n = Program{Externs: externs, Functions: funcs, TopLevel: top}
	return n
}
