package ast

import "dltc/src/types"

// Expr is the sealed union Expression = Term | Binary (spec.md §3). Every
// concrete type below implements it with an unexported marker method so the
// set of variants is closed to this package.
type Expr interface {
	Pos() Position
	exprNode()
}

// Position is a node's source location, attached to every node for
// diagnostics (spec.md §3 token/AST model).
type Position struct {
	Line int
}

func (p Position) Pos() Position { return p }

// --- Term variants ---

type IntLit struct {
	Position
	Value int64
}

type FloatLit struct {
	Position
	Value float32
}

type DoubleLit struct {
	Position
	Value float64
}

type StringLit struct {
	Position
	Value string
}

type Ident struct {
	Position
	Name string
}

type Paren struct {
	Position
	Inner Expr
}

type Call struct {
	Position
	Name string
	Args []Expr
}

type Cast struct {
	Position
	Target types.Type
	Inner  Expr
}

type AddressOf struct {
	Position
	Name string
}

type Deref struct {
	Position
	Inner Expr
}

type ArrayAccess struct {
	Position
	Array Expr
	Index Expr
}

// --- Binary ---

// BinOp mirrors frontend.BinOp; ast does not import frontend (frontend
// imports ast), so the operator set is restated here and kept in sync by
// the parser, which is the only producer of Binary nodes.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Lt
	Le
	Gt
	Ge
	Eq
)

func (op BinOp) String() string {
	return [...]string{"+", "-", "*", "/", "<", "<=", ">", ">=", "=="}[op]
}

// IsRelational reports whether op produces a boolean (icmp/fcmp) result
// rather than an arithmetic one.
func (op BinOp) IsRelational() bool { return op >= Lt }

type Binary struct {
	Position
	Op          BinOp
	Left, Right Expr
}

func (*IntLit) exprNode()      {}
func (*FloatLit) exprNode()    {}
func (*DoubleLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*Ident) exprNode()       {}
func (*Paren) exprNode()       {}
func (*Call) exprNode()        {}
func (*Cast) exprNode()        {}
func (*AddressOf) exprNode()   {}
func (*Deref) exprNode()       {}
func (*ArrayAccess) exprNode() {}
func (*Binary) exprNode()      {}

// --- Arena constructors ---

func (a *Arena) NewIntLit(line int, v int64) *IntLit {
	n := a.intLits.alloc()
	*n = IntLit{Position: Position{line}, Value: v}
	return n
}

func (a *Arena) NewFloatLit(line int, v float32) *FloatLit {
	n := a.floatLits.alloc()
	*n = FloatLit{Position: Position{line}, Value: v}
	return n
}

func (a *Arena) NewDoubleLit(line int, v float64) *DoubleLit {
	n := a.doubleLits.alloc()
	*n = DoubleLit{Position: Position{line}, Value: v}
	return n
}

func (a *Arena) NewStringLit(line int, v string) *StringLit {
	n := a.stringLits.alloc()
	*n = StringLit{Position: Position{line}, Value: v}
	return n
}

func (a *Arena) NewIdent(line int, name string) *Ident {
	n := a.idents.alloc()
	*n = Ident{Position: Position{line}, Name: name}
	return n
}

func (a *Arena) NewParen(line int, inner Expr) *Paren {
	n := a.parens.alloc()
	*n = Paren{Position: Position{line}, Inner: inner}
	return n
}

func (a *Arena) NewCall(line int, name string, args []Expr) *Call {
	n := a.calls.alloc()
	*n = Call{Position: Position{line}, Name: name, Args: args}
	return n
}

func (a *Arena) NewCast(line int, target types.Type, inner Expr) *Cast {
	n := a.casts.alloc()
	*n = Cast{Position: Position{line}, Target: target, Inner: inner}
	return n
}

func (a *Arena) NewAddressOf(line int, name string) *AddressOf {
	n := a.addrOfs.alloc()
	*n = AddressOf{Position: Position{line}, Name: name}
	return n
}

func (a *Arena) NewDeref(line int, inner Expr) *Deref {
	n := a.derefs.alloc()
	*n = Deref{Position: Position{line}, Inner: inner}
	return n
}

func (a *Arena) NewArrayAccess(line int, arr, idx Expr) *ArrayAccess {
	n := a.arrayAccess.alloc()
	*n = ArrayAccess{Position: Position{line}, Array: arr, Index: idx}
	return n
}

func (a *Arena) NewBinary(line int, op BinOp, l, r Expr) *Binary {
	n := a.binaries.alloc()
	*n = Binary{Position: Position{line}, Op: op, Left: l, Right: r}
	return n
}
