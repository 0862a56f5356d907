// Package ast defines the DLT abstract syntax tree as a set of small sealed
// interfaces (Expr, Stmt, IfTail) implemented by tagged concrete node
// structs, plus the bump Arena that owns every node for one compilation.
//
// This replaces the teacher's single flat ir.Node{Typ NodeType, Children
// []*Node} representation with Go sum types, per spec.md §9's design note:
// "Implementers should use sum types with exhaustive pattern matching;
// visitors degenerate into match expressions". The arena itself is grounded
// on the original implementation's ArenaAllocator (original_source/src/Arena.h):
// a fixed-capacity backing buffer that hands out placement-new'd nodes and is
// freed once, all at once, at the end of a compilation. Go has no placement
// new, so each node type gets its own chunked slice pool: a new chunk is
// appended (never reallocated in place) whenever the current one fills, so
// every pointer handed out remains valid for the arena's lifetime.
package ast

const chunkSize = 256

// pool is a bump allocator for one concrete node type T.
type pool[T any] struct {
	chunks [][]T
	at     int
}

func (p *pool[T]) alloc() *T {
	if len(p.chunks) == 0 || p.at == len(p.chunks[len(p.chunks)-1]) {
		p.chunks = append(p.chunks, make([]T, chunkSize))
		p.at = 0
	}
	c := p.chunks[len(p.chunks)-1]
	v := &c[p.at]
	p.at++
	return v
}

func (p *pool[T]) len() int {
	if len(p.chunks) == 0 {
		return 0
	}
	return (len(p.chunks)-1)*chunkSize + p.at
}

// Arena owns every node of one compilation. No node is ever freed
// individually; the whole Arena is dropped at the end of a compilation.
type Arena struct {
	idents       pool[Ident]
	intLits      pool[IntLit]
	floatLits    pool[FloatLit]
	doubleLits   pool[DoubleLit]
	stringLits   pool[StringLit]
	parens       pool[Paren]
	calls        pool[Call]
	casts        pool[Cast]
	addrOfs      pool[AddressOf]
	derefs       pool[Deref]
	arrayAccess  pool[ArrayAccess]
	binaries     pool[Binary]
	exitStmts    pool[ExitStmt]
	letStmts     pool[LetStmt]
	assignStmts  pool[AssignStmt]
	ifStmts      pool[IfStmt]
	whileStmts   pool[WhileStmt]
	returnStmts  pool[ReturnStmt]
	scopeStmts   pool[ScopeStmt]
	exprStmts    pool[ExprStmt]
	ptrAssigns   pool[PointerAssignStmt]
	arrayAssigns pool[ArrayAssignStmt]
	elifs        pool[Elif]
	elses        pool[Else]
	funcs        pool[FunctionDecl]
	externs      pool[ExternDecl]
	programs     pool[Program]
}

// NewArena returns an Arena scoped to one compilation.
func NewArena() *Arena { return &Arena{} }

// NodeCount returns the total number of AST nodes allocated from a, across
// every node type. The per-function counts passed to util.Telemetry come
// from the emitter, not from this method.
func (a *Arena) NodeCount() int {
	return a.idents.len() + a.intLits.len() + a.floatLits.len() + a.doubleLits.len() +
		a.stringLits.len() + a.parens.len() + a.calls.len() + a.casts.len() +
		a.addrOfs.len() + a.derefs.len() + a.arrayAccess.len() + a.binaries.len() +
		a.exitStmts.len() + a.letStmts.len() + a.assignStmts.len() + a.ifStmts.len() +
		a.whileStmts.len() + a.returnStmts.len() + a.scopeStmts.len() + a.exprStmts.len() +
		a.ptrAssigns.len() + a.arrayAssigns.len() + a.elifs.len() + a.elses.len() +
		a.funcs.len() + a.externs.len() + a.programs.len()
}
