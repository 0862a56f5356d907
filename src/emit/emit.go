// Package emit implements spec.md §4.4: it walks a *ast.Program and
// produces textual LLVM IR as a string, maintaining the symbol table,
// function table and string-literal pool described in spec.md §3. Each
// expression's type is computed as the expression is emitted and returned
// alongside its IR value; expression types are not cached. The textual form is hand-built with string formatting, not
// through LLVM's own API — the emitter owns the exact formatting contract
// (hex float encoding, %tN/bbN naming reset per function) that an LLVM
// printer would not reproduce. tinygo.org/x/go-llvm is used elsewhere
// (src/irverify) to parse this output back and verify it.
package emit

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"dltc/src/ast"
	"dltc/src/types"
	"dltc/src/util"
)

// Target selects the module's target triple/datalayout pair.
type Target int

const (
	Native Target = iota
	Wasm
)

// Options configures one call to Emit.
type Options struct {
	Target    Target
	Logger    util.Logger
	Telemetry *util.Telemetry
}

// Emitter holds the state shared across an entire compilation: the function
// table, string pool, and module-level output. Per spec.md §5 this struct
// is constructed fresh for each compilation and never reused.
type Emitter struct {
	opts    Options
	funcs   *functable
	strings *stringpool
	used    map[string]bool // external function names actually called
	arena   *ast.Arena
}

// Emit walks prog and returns the textual LLVM IR module, or the first
// util.CompileError encountered. Top-level statements are folded into an
// implicit prefix of main's body, per ast.Program's doc comment.
func Emit(prog *ast.Program, arena *ast.Arena, opts Options) (string, error) {
	e := &Emitter{
		opts:    opts,
		funcs:   newFunctable(),
		strings: newStringpool(),
		used:    make(map[string]bool, 8),
		arena:   arena,
	}

	for _, ext := range prog.Externs {
		entry := &funcEntry{Name: ext.Name, ParamTypes: ext.ParamTypes, ReturnType: ext.ReturnType, External: true, Variadic: ext.Variadic}
		if !e.funcs.add(entry) {
			return "", util.NewCompileError(util.Semantic, ext.Pos().Line, "duplicate declaration, function %q already declared", ext.Name)
		}
	}
	for _, fn := range prog.Functions {
		paramTypes := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			paramTypes[i] = p.Type
		}
		entry := &funcEntry{Name: fn.Name, ParamTypes: paramTypes, ReturnType: fn.ReturnType}
		if !e.funcs.add(entry) {
			return "", util.NewCompileError(util.Semantic, fn.Pos().Line, "duplicate declaration, function %q already declared", fn.Name)
		}
	}

	if len(prog.TopLevel) > 0 {
		main, ok := e.funcs.lookup("main")
		if !ok || main.External {
			return "", util.NewCompileError(util.Semantic, prog.Pos().Line, "top-level statements require a %q function to attach to", "main")
		}
		for _, fn := range prog.Functions {
			if fn.Name == "main" {
				fn.Body.Stmts = append(append([]ast.Stmt{}, prog.TopLevel...), fn.Body.Stmts...)
				break
			}
		}
	}

	e.prepassStrings(prog)

	var body strings.Builder
	for _, fn := range prog.Functions {
		text, err := e.emitFunction(fn)
		if err != nil {
			return "", err
		}
		body.WriteString(text)
		body.WriteByte('\n')
	}

	var out strings.Builder
	out.WriteString(e.header())
	out.WriteString(e.declarations())
	out.WriteString(e.globalStrings())
	out.WriteByte('\n')
	out.WriteString(body.String())
	return out.String(), nil
}

// prepassStrings walks every function body collecting distinct string
// literals in first-seen order, so all string constants can be emitted at
// the top of the module (spec.md §4.4's pre-pass).
func (e *Emitter) prepassStrings(prog *ast.Program) {
	for _, fn := range prog.Functions {
		e.prepassScope(fn.Body)
	}
}

func (e *Emitter) prepassScope(s *ast.ScopeStmt) {
	for _, st := range s.Stmts {
		e.prepassStmt(st)
	}
}

func (e *Emitter) prepassStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExitStmt:
		e.prepassExpr(n.Value)
	case *ast.LetStmt:
		e.prepassExpr(n.Value)
	case *ast.AssignStmt:
		e.prepassExpr(n.Value)
	case *ast.IfStmt:
		e.prepassExpr(n.Cond)
		e.prepassScope(n.Then)
		e.prepassTail(n.Tail)
	case *ast.WhileStmt:
		e.prepassExpr(n.Cond)
		e.prepassScope(n.Body)
	case *ast.ReturnStmt:
		if n.Value != nil {
			e.prepassExpr(n.Value)
		}
	case *ast.ScopeStmt:
		e.prepassScope(n)
	case *ast.ExprStmt:
		e.prepassExpr(n.Value)
	case *ast.PointerAssignStmt:
		e.prepassExpr(n.Ptr)
		e.prepassExpr(n.Value)
	case *ast.ArrayAssignStmt:
		e.prepassExpr(n.Array)
		e.prepassExpr(n.Index)
		e.prepassExpr(n.Value)
	}
}

func (e *Emitter) prepassTail(t ast.IfTail) {
	switch n := t.(type) {
	case *ast.Elif:
		e.prepassExpr(n.Cond)
		e.prepassScope(n.Body)
		e.prepassTail(n.Next)
	case *ast.Else:
		e.prepassScope(n.Body)
	}
}

func (e *Emitter) prepassExpr(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.StringLit:
		e.strings.intern(n.Value)
	case *ast.Paren:
		e.prepassExpr(n.Inner)
	case *ast.Call:
		for _, a := range n.Args {
			e.prepassExpr(a)
		}
	case *ast.Cast:
		e.prepassExpr(n.Inner)
	case *ast.Deref:
		e.prepassExpr(n.Inner)
	case *ast.ArrayAccess:
		e.prepassExpr(n.Array)
		e.prepassExpr(n.Index)
	case *ast.Binary:
		e.prepassExpr(n.Left)
		e.prepassExpr(n.Right)
	}
}

// header renders the module's target triple and datalayout, matched to the
// requested Target (spec.md §6's well-formedness obligation).
func (e *Emitter) header() string {
	switch e.opts.Target {
	case Wasm:
		return "target triple = \"wasm32-unknown-unknown\"\n" +
			"target datalayout = \"e-m:e-p:32:32-i64:64-n32:64-S128\"\n\n"
	default:
		return "target triple = \"x86_64-unknown-linux-gnu\"\n" +
			"target datalayout = \"e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128\"\n\n"
	}
}

// declarations emits a `declare` for every external function actually
// referenced by a call, sorted by name, so that every declare precedes any
// call to that symbol (spec.md §6).
func (e *Emitter) declarations() string {
	var sb strings.Builder
	names := make([]string, 0, len(e.used))
	for name := range e.used {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		entry, _ := e.funcs.lookup(name)
		sb.WriteString("declare ")
		sb.WriteString(llvmType(entry.ReturnType))
		sb.WriteString(" @")
		sb.WriteString(name)
		sb.WriteString("(")
		sb.WriteString(paramTypeList(entry.ParamTypes, entry.Variadic))
		sb.WriteString(")\n")
	}
	if len(names) > 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}

func paramTypeList(params []types.Type, variadic bool) string {
	parts := make([]string, 0, len(params)+1)
	for _, t := range params {
		parts = append(parts, llvmType(t))
	}
	if variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

// globalStrings emits one private unnamed_addr constant per pooled string
// literal, in first-occurrence order (spec.md §4.4, §8 property 9).
func (e *Emitter) globalStrings() string {
	var sb strings.Builder
	for i, s := range e.strings.values {
		escaped, length := escapeStringConstant(s)
		fmt.Fprintf(&sb, "@str.%d = private unnamed_addr constant [%d x i8] c\"%s\"\n", i, length, escaped)
	}
	if len(e.strings.values) > 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// escapeStringConstant renders s the way LLVM textual IR expects inside a
// c"..." constant: non-printable and special bytes become \XX hex escapes, a
// trailing NUL terminator is appended, and the returned length includes it.
func escapeStringConstant(s string) (string, int) {
	var sb strings.Builder
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		n++
		if c == '"' || c == '\\' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&sb, "\\%02X", c)
		} else {
			sb.WriteByte(c)
		}
	}
	sb.WriteString("\\00")
	n++
	return sb.String(), n
}
