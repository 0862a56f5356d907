package emit

import (
	"fmt"
	"strings"

	"dltc/src/ast"
	"dltc/src/types"
	"dltc/src/util"
)

// funcEmitter holds the per-function state of spec.md §4.4: the %tN and bbN
// counters reset at the start of every function, the symbol table, and the
// output buffer for this function's body.
type funcEmitter struct {
	e           *Emitter
	sym         *symtab
	buf         strings.Builder
	tempCount   int
	blockCount  int
	returnType  types.Type
	terminated  bool // true once the current block has received a terminator
	nodeCount   int
	irLineCount int
	line        int
}

// emitFunction emits one `define ... { ... }` block (spec.md §4.4's
// per-function emission).
func (e *Emitter) emitFunction(fn *ast.FunctionDecl) (string, error) {
	fe := &funcEmitter{e: e, sym: newSymtab(), returnType: fn.ReturnType}
	fe.sym.push()
	defer fe.sym.pop()

	paramDecls := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		paramDecls[i] = fmt.Sprintf("%s %%arg.%s", llvmType(p.Type), p.Name)
	}

	var header strings.Builder
	fmt.Fprintf(&header, "define %s @%s(%s) {\n", llvmType(fn.ReturnType), fn.Name, strings.Join(paramDecls, ", "))
	header.WriteString("entry:\n")

	for _, p := range fn.Params {
		reg := fe.instr("alloca %s", llvmType(p.Type))
		fe.emitLine("store %s %%arg.%s, %s* %s", llvmType(p.Type), p.Name, llvmType(p.Type), reg)
		fe.sym.declareInCurrentScope(p.Name, binding{Type: p.Type, Storage: reg})
	}

	if err := fe.emitScope(fn.Body); err != nil {
		return "", err
	}

	if !fe.terminated {
		if fn.ReturnType.IsVoid() {
			fe.emitLine("ret void")
		} else {
			fe.emitLine("ret %s %s", llvmType(fn.ReturnType), zeroValue(fn.ReturnType))
		}
	}

	var out strings.Builder
	out.WriteString(header.String())
	out.WriteString(fe.buf.String())
	out.WriteString("}\n")

	if e.opts.Telemetry != nil {
		e.opts.Telemetry.RecordFunction(fe.nodeCount, fe.irLineCount)
	}
	util.Tracef(e.opts.Logger, "emitted function %q (%d IR lines)", fn.Name, fe.irLineCount)
	return out.String(), nil
}

func zeroValue(t types.Type) string {
	if t.Pointer {
		return "null"
	}
	if t.IsFloat() {
		return hexFloat(0)
	}
	return "0"
}

// instr allocates a fresh %tN register, writes "  %tN = <format>\n" to the
// function buffer, and returns the register name.
func (fe *funcEmitter) instr(format string, args ...interface{}) string {
	name := fmt.Sprintf("%%t%d", fe.tempCount)
	fe.tempCount++
	fmt.Fprintf(&fe.buf, "  %s = %s\n", name, fmt.Sprintf(format, args...))
	fe.irLineCount++
	return name
}

// emitLine writes a plain instruction line with no result binding (store,
// br, ret, unreachable, call-to-void).
func (fe *funcEmitter) emitLine(format string, args ...interface{}) {
	fmt.Fprintf(&fe.buf, "  %s\n", fmt.Sprintf(format, args...))
	fe.irLineCount++
	if isTerminator(format) {
		fe.terminated = true
	}
}

func isTerminator(format string) bool {
	return strings.HasPrefix(format, "br ") || strings.HasPrefix(format, "ret") || strings.HasPrefix(format, "unreachable")
}

// newBlockLabel allocates a fresh "bbN" label.
func (fe *funcEmitter) newBlockLabel() string {
	name := fmt.Sprintf("bb%d", fe.blockCount)
	fe.blockCount++
	return name
}

// emitLabel starts a new basic block.
func (fe *funcEmitter) emitLabel(name string) {
	fmt.Fprintf(&fe.buf, "%s:\n", name)
	fe.terminated = false
}

// --- Statements ---

func (fe *funcEmitter) emitScope(s *ast.ScopeStmt) error {
	fe.sym.push()
	defer fe.sym.pop()
	for _, stmt := range s.Stmts {
		if err := fe.emitStmt(stmt); err != nil {
			return err
		}
		fe.nodeCount++
	}
	return nil
}

func (fe *funcEmitter) emitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.LetStmt:
		return fe.emitLet(n)
	case *ast.AssignStmt:
		return fe.emitAssign(n)
	case *ast.IfStmt:
		return fe.emitIf(n)
	case *ast.WhileStmt:
		return fe.emitWhile(n)
	case *ast.ReturnStmt:
		return fe.emitReturn(n)
	case *ast.ExitStmt:
		return fe.emitExit(n)
	case *ast.ScopeStmt:
		return fe.emitScope(n)
	case *ast.ExprStmt:
		_, _, err := fe.emitExpr(n.Value)
		return err
	case *ast.PointerAssignStmt:
		return fe.emitPointerAssign(n)
	case *ast.ArrayAssignStmt:
		return fe.emitArrayAssign(n)
	default:
		return util.NewCompileError(util.Internal, s.Pos().Line, "unhandled statement type %T", s)
	}
}

func (fe *funcEmitter) emitLet(n *ast.LetStmt) error {
	if _, exists := fe.sym.top().lookup(n.Name); exists {
		return util.NewCompileError(util.Semantic, n.Pos().Line, "duplicate variable declaration %q in the same scope", n.Name)
	}
	val, valTyp, err := fe.emitExpr(n.Value)
	if err != nil {
		return err
	}
	val = fe.convert(val, valTyp, n.Type)
	reg := fe.instr("alloca %s", llvmType(n.Type))
	fe.emitLine("store %s %s, %s* %s", llvmType(n.Type), val, llvmType(n.Type), reg)
	fe.sym.declareInCurrentScope(n.Name, binding{Type: n.Type, Const: n.Const, Storage: reg})
	return nil
}

func (fe *funcEmitter) emitAssign(n *ast.AssignStmt) error {
	b, ok := fe.sym.lookup(n.Name)
	if !ok {
		return util.NewCompileError(util.Semantic, n.Pos().Line, "undeclared identifier %q", n.Name)
	}
	if b.Const {
		return util.NewCompileError(util.Semantic, n.Pos().Line, "cannot assign to const %q", n.Name)
	}
	val, valTyp, err := fe.emitExpr(n.Value)
	if err != nil {
		return err
	}
	val = fe.convert(val, valTyp, b.Type)
	fe.emitLine("store %s %s, %s* %s", llvmType(b.Type), val, llvmType(b.Type), b.Storage)
	return nil
}

// emitCondition evaluates cond and synthesizes an i1 by comparing against
// zero (spec.md §4.4's boolean condition synthesis).
func (fe *funcEmitter) emitCondition(cond ast.Expr) (string, error) {
	val, typ, err := fe.emitExpr(cond)
	if err != nil {
		return "", err
	}
	if typ.IsFloat() {
		return fe.instr("fcmp one %s %s, %s", llvmType(typ), val, zeroValue(typ)), nil
	}
	return fe.instr("icmp ne %s %s, %s", llvmType(typ), val, zeroValue(typ)), nil
}

func (fe *funcEmitter) emitIf(n *ast.IfStmt) error {
	cond, err := fe.emitCondition(n.Cond)
	if err != nil {
		return err
	}
	thenLbl := fe.newBlockLabel()
	var elseLbl string
	if n.Tail != nil {
		elseLbl = fe.newBlockLabel()
	}
	mergeLbl := fe.newBlockLabel()

	branchElse := mergeLbl
	if n.Tail != nil {
		branchElse = elseLbl
	}
	fe.emitLine("br i1 %s, label %%%s, label %%%s", cond, thenLbl, branchElse)

	fe.emitLabel(thenLbl)
	if err := fe.emitScope(n.Then); err != nil {
		return err
	}
	thenFellThrough := !fe.terminated
	if thenFellThrough {
		fe.emitLine("br label %%%s", mergeLbl)
	}

	tailFellThrough := true
	if n.Tail != nil {
		fe.emitLabel(elseLbl)
		var err error
		tailFellThrough, err = fe.emitIfTail(n.Tail, mergeLbl)
		if err != nil {
			return err
		}
	}

	if thenFellThrough || tailFellThrough {
		fe.emitLabel(mergeLbl)
	}
	return nil
}

// emitIfTail emits one elif/else link, returning whether control can fall
// through past it (so the caller knows whether the merge label is reachable).
func (fe *funcEmitter) emitIfTail(tail ast.IfTail, mergeLbl string) (bool, error) {
	switch n := tail.(type) {
	case *ast.Elif:
		cond, err := fe.emitCondition(n.Cond)
		if err != nil {
			return false, err
		}
		thenLbl := fe.newBlockLabel()
		var nextLbl string
		if n.Next != nil {
			nextLbl = fe.newBlockLabel()
		} else {
			nextLbl = mergeLbl
		}
		fe.emitLine("br i1 %s, label %%%s, label %%%s", cond, thenLbl, nextLbl)

		fe.emitLabel(thenLbl)
		if err := fe.emitScope(n.Body); err != nil {
			return false, err
		}
		thenFell := !fe.terminated
		if thenFell {
			fe.emitLine("br label %%%s", mergeLbl)
		}

		nextFell := true
		if n.Next != nil {
			fe.emitLabel(nextLbl)
			var err error
			nextFell, err = fe.emitIfTail(n.Next, mergeLbl)
			if err != nil {
				return false, err
			}
		}
		return thenFell || nextFell, nil

	case *ast.Else:
		if err := fe.emitScope(n.Body); err != nil {
			return false, err
		}
		fell := !fe.terminated
		if fell {
			fe.emitLine("br label %%%s", mergeLbl)
		}
		return fell, nil

	default:
		return true, nil
	}
}

func (fe *funcEmitter) emitWhile(n *ast.WhileStmt) error {
	condLbl := fe.newBlockLabel()
	bodyLbl := fe.newBlockLabel()
	exitLbl := fe.newBlockLabel()

	fe.emitLine("br label %%%s", condLbl)
	fe.emitLabel(condLbl)
	cond, err := fe.emitCondition(n.Cond)
	if err != nil {
		return err
	}
	fe.emitLine("br i1 %s, label %%%s, label %%%s", cond, bodyLbl, exitLbl)

	fe.emitLabel(bodyLbl)
	if err := fe.emitScope(n.Body); err != nil {
		return err
	}
	if !fe.terminated {
		fe.emitLine("br label %%%s", condLbl)
	}

	fe.emitLabel(exitLbl)
	return nil
}

func (fe *funcEmitter) emitReturn(n *ast.ReturnStmt) error {
	if n.Value == nil {
		if !fe.returnType.IsVoid() {
			return util.NewCompileError(util.Semantic, n.Pos().Line, "missing return value in non-void function")
		}
		fe.emitLine("ret void")
		return nil
	}
	if fe.returnType.IsVoid() {
		return util.NewCompileError(util.Semantic, n.Pos().Line, "returning a value from a void function")
	}
	val, typ, err := fe.emitExpr(n.Value)
	if err != nil {
		return err
	}
	val = fe.convert(val, typ, fe.returnType)
	fe.emitLine("ret %s %s", llvmType(fe.returnType), val)
	return nil
}

func (fe *funcEmitter) emitExit(n *ast.ExitStmt) error {
	val, typ, err := fe.emitExpr(n.Value)
	if err != nil {
		return err
	}
	val = fe.convert(val, typ, types.Prim(types.I32))
	fe.e.used["exit"] = true
	fe.emitLine("call void @exit(i32 %s)", val)
	fe.emitLine("unreachable")
	return nil
}

func (fe *funcEmitter) emitPointerAssign(n *ast.PointerAssignStmt) error {
	ptrVal, ptrTyp, err := fe.emitExpr(n.Ptr)
	if err != nil {
		return err
	}
	if !ptrTyp.Pointer {
		return util.NewCompileError(util.Semantic, n.Pos().Line, "cannot dereference non-pointer type %s", ptrTyp)
	}
	pointee := types.Prim(ptrTyp.Base)
	val, valTyp, err := fe.emitExpr(n.Value)
	if err != nil {
		return err
	}
	val = fe.convert(val, valTyp, pointee)
	fe.emitLine("store %s %s, %s %s", llvmType(pointee), val, llvmType(ptrTyp), ptrVal)
	return nil
}

func (fe *funcEmitter) emitArrayAssign(n *ast.ArrayAssignStmt) error {
	arrVal, arrTyp, err := fe.emitExpr(n.Array)
	if err != nil {
		return err
	}
	if !arrTyp.Pointer {
		return util.NewCompileError(util.Semantic, n.Pos().Line, "cannot index non-pointer type %s", arrTyp)
	}
	idxVal, idxTyp, err := fe.emitExpr(n.Index)
	if err != nil {
		return err
	}
	idxVal = fe.convert(idxVal, idxTyp, types.Prim(types.I64))
	elemTyp := types.Prim(arrTyp.Base)
	gep := fe.instr("getelementptr %s, %s %s, i64 %s", llvmType(elemTyp), llvmType(arrTyp), arrVal, idxVal)
	val, valTyp, err := fe.emitExpr(n.Value)
	if err != nil {
		return err
	}
	val = fe.convert(val, valTyp, elemTyp)
	fe.emitLine("store %s %s, %s* %s", llvmType(elemTyp), val, llvmType(elemTyp), gep)
	return nil
}
