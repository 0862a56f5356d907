package ast

import (
	"fmt"
	"io"
)

// Print writes a deterministic, indented dump of the AST rooted at p to w:
// one line per node (node-first, children recursing after — leaves print
// last since they have no children of their own), using a fixed prefix
// string per node kind. Two programs differing only in whitespace produce
// identical prints (testable property 3), since nothing but line numbers —
// which Print never emits — depends on source layout.
//
// Adapted from the teacher's ir.Node.Print depth-indented recursion
// (src/ir/nodetype.go), generalized from a type tag + type-switch-free
// generic Node to this package's sealed Expr/Stmt interfaces via a type
// switch per sum type, and from clarete-langlang's tree_printer.go
// indent/unindent Builder style.
func Print(w io.Writer, p *Program) {
	pr := &printer{w: w}
	pr.line(0, "Program")
	for _, e := range p.Externs {
		pr.printExtern(1, e)
	}
	for _, f := range p.Functions {
		pr.printFunc(1, f)
	}
	for _, s := range p.TopLevel {
		pr.printStmt(1, s)
	}
}

type printer struct {
	w io.Writer
}

func (p *printer) line(depth int, format string, args ...interface{}) {
	pad := make([]byte, depth*2)
	for i := range pad {
		pad[i] = ' '
	}
	fmt.Fprintf(p.w, "%s%s\n", pad, fmt.Sprintf(format, args...))
}

func (p *printer) printExtern(depth int, e *ExternDecl) {
	p.line(depth, "ExternDecl %s -> %s variadic=%t", e.Name, e.ReturnType, e.Variadic)
}

func (p *printer) printFunc(depth int, f *FunctionDecl) {
	p.line(depth, "FunctionDecl %s -> %s", f.Name, f.ReturnType)
	for _, prm := range f.Params {
		p.line(depth+1, "Param %s: %s", prm.Name, prm.Type)
	}
	p.printStmt(depth+1, f.Body)
}

func (p *printer) printStmt(depth int, s Stmt) {
	switch n := s.(type) {
	case *ExitStmt:
		p.line(depth, "ExitStmt")
		p.printExpr(depth+1, n.Value)
	case *LetStmt:
		p.line(depth, "LetStmt %s: %s const=%t", n.Name, n.Type, n.Const)
		p.printExpr(depth+1, n.Value)
	case *AssignStmt:
		p.line(depth, "AssignStmt %s", n.Name)
		p.printExpr(depth+1, n.Value)
	case *IfStmt:
		p.line(depth, "IfStmt")
		p.printExpr(depth+1, n.Cond)
		p.printStmt(depth+1, n.Then)
		p.printTail(depth+1, n.Tail)
	case *WhileStmt:
		p.line(depth, "WhileStmt")
		p.printExpr(depth+1, n.Cond)
		p.printStmt(depth+1, n.Body)
	case *ReturnStmt:
		p.line(depth, "ReturnStmt")
		if n.Value != nil {
			p.printExpr(depth+1, n.Value)
		}
	case *ScopeStmt:
		p.line(depth, "Scope")
		for _, c := range n.Stmts {
			p.printStmt(depth+1, c)
		}
	case *ExprStmt:
		p.line(depth, "ExprStmt")
		p.printExpr(depth+1, n.Value)
	case *PointerAssignStmt:
		p.line(depth, "PointerAssignStmt")
		p.printExpr(depth+1, n.Ptr)
		p.printExpr(depth+1, n.Value)
	case *ArrayAssignStmt:
		p.line(depth, "ArrayAssignStmt")
		p.printExpr(depth+1, n.Array)
		p.printExpr(depth+1, n.Index)
		p.printExpr(depth+1, n.Value)
	default:
		p.line(depth, "---> UNKNOWN STATEMENT %T", s)
	}
}

func (p *printer) printTail(depth int, t IfTail) {
	switch n := t.(type) {
	case nil:
		return
	case *Elif:
		p.line(depth, "Elif")
		p.printExpr(depth+1, n.Cond)
		p.printStmt(depth+1, n.Body)
		p.printTail(depth+1, n.Next)
	case *Else:
		p.line(depth, "Else")
		p.printStmt(depth+1, n.Body)
	}
}

func (p *printer) printExpr(depth int, e Expr) {
	switch n := e.(type) {
	case *IntLit:
		p.line(depth, "IntLit %d", n.Value)
	case *FloatLit:
		p.line(depth, "FloatLit %g", n.Value)
	case *DoubleLit:
		p.line(depth, "DoubleLit %g", n.Value)
	case *StringLit:
		p.line(depth, "StringLit %q", n.Value)
	case *Ident:
		p.line(depth, "Ident %s", n.Name)
	case *Paren:
		p.line(depth, "Paren")
		p.printExpr(depth+1, n.Inner)
	case *Call:
		p.line(depth, "Call %s", n.Name)
		for _, arg := range n.Args {
			p.printExpr(depth+1, arg)
		}
	case *Cast:
		p.line(depth, "Cast -> %s", n.Target)
		p.printExpr(depth+1, n.Inner)
	case *AddressOf:
		p.line(depth, "AddressOf %s", n.Name)
	case *Deref:
		p.line(depth, "Deref")
		p.printExpr(depth+1, n.Inner)
	case *ArrayAccess:
		p.line(depth, "ArrayAccess")
		p.printExpr(depth+1, n.Array)
		p.printExpr(depth+1, n.Index)
	case *Binary:
		p.line(depth, "Binary %s", n.Op)
		p.printExpr(depth+1, n.Left)
		p.printExpr(depth+1, n.Right)
	default:
		p.line(depth, "---> UNKNOWN EXPRESSION %T", e)
	}
}
