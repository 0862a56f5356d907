package emit

import (
	"dltc/src/ast"
	"dltc/src/types"
	"dltc/src/util"
)

// emitExpr emits the IR for one expression and returns the name of the IR
// value holding the result together with its inferred type (spec.md §4.4:
// "expression emission returns the name of the IR value holding the
// result").
func (fe *funcEmitter) emitExpr(expr ast.Expr) (string, types.Type, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return itoa64(n.Value), types.Prim(types.I32), nil
	case *ast.FloatLit:
		return hexFloat(float64(n.Value)), types.Prim(types.F32), nil
	case *ast.DoubleLit:
		return hexFloat(n.Value), types.Prim(types.F64), nil
	case *ast.StringLit:
		return fe.emitStringLit(n)
	case *ast.Ident:
		return fe.emitIdent(n)
	case *ast.Paren:
		return fe.emitExpr(n.Inner)
	case *ast.Cast:
		return fe.emitCast(n)
	case *ast.AddressOf:
		return fe.emitAddressOf(n)
	case *ast.Deref:
		return fe.emitDeref(n)
	case *ast.ArrayAccess:
		return fe.emitArrayAccess(n)
	case *ast.Call:
		return fe.emitCallExpr(n)
	case *ast.Binary:
		return fe.emitBinary(n)
	default:
		return "", types.Type{}, util.NewCompileError(util.Internal, expr.Pos().Line, "unhandled expression type %T", expr)
	}
}

func itoa64(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [24]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (fe *funcEmitter) emitStringLit(n *ast.StringLit) (string, types.Type, error) {
	idx := fe.e.strings.intern(n.Value)
	_, length := escapeStringConstant(n.Value)
	t := types.PtrTo(types.I8)
	reg := fe.instr("getelementptr inbounds [%d x i8], [%d x i8]* @str.%d, i64 0, i64 0", length, length, idx)
	return reg, t, nil
}

func (fe *funcEmitter) emitIdent(n *ast.Ident) (string, types.Type, error) {
	b, ok := fe.sym.lookup(n.Name)
	if !ok {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line, "undeclared identifier %q", n.Name)
	}
	reg := fe.instr("load %s, %s* %s", llvmType(b.Type), llvmType(b.Type), b.Storage)
	return reg, b.Type, nil
}

func (fe *funcEmitter) emitCast(n *ast.Cast) (string, types.Type, error) {
	val, typ, err := fe.emitExpr(n.Inner)
	if err != nil {
		return "", types.Type{}, err
	}
	return fe.convert(val, typ, n.Target), n.Target, nil
}

// emitAddressOf returns the binding's alloca register directly (no load),
// per spec.md §4.4.
func (fe *funcEmitter) emitAddressOf(n *ast.AddressOf) (string, types.Type, error) {
	b, ok := fe.sym.lookup(n.Name)
	if !ok {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line, "undeclared identifier %q", n.Name)
	}
	return b.Storage, types.PtrTo(b.Type.Base), nil
}

// emitDeref evaluates the pointer operand and loads through it, yielding the
// pointee value (spec.md §4.4: *p in a value context loads the pointee).
func (fe *funcEmitter) emitDeref(n *ast.Deref) (string, types.Type, error) {
	ptrVal, ptrTyp, err := fe.emitExpr(n.Inner)
	if err != nil {
		return "", types.Type{}, err
	}
	if !ptrTyp.Pointer {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line, "cannot dereference non-pointer type %s", ptrTyp)
	}
	elemTyp := types.Prim(ptrTyp.Base)
	reg := fe.instr("load %s, %s %s", llvmType(elemTyp), llvmType(ptrTyp), ptrVal)
	return reg, elemTyp, nil
}

func (fe *funcEmitter) emitArrayAccess(n *ast.ArrayAccess) (string, types.Type, error) {
	arrVal, arrTyp, err := fe.emitExpr(n.Array)
	if err != nil {
		return "", types.Type{}, err
	}
	if !arrTyp.Pointer {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line, "cannot index non-pointer type %s", arrTyp)
	}
	idxVal, idxTyp, err := fe.emitExpr(n.Index)
	if err != nil {
		return "", types.Type{}, err
	}
	idxVal = fe.convert(idxVal, idxTyp, types.Prim(types.I64))
	elemTyp := types.Prim(arrTyp.Base)
	gep := fe.instr("getelementptr %s, %s %s, i64 %s", llvmType(elemTyp), llvmType(arrTyp), arrVal, idxVal)
	loaded := fe.instr("load %s, %s* %s", llvmType(elemTyp), llvmType(elemTyp), gep)
	return loaded, elemTyp, nil
}

func (fe *funcEmitter) emitBinary(n *ast.Binary) (string, types.Type, error) {
	lVal, lTyp, err := fe.emitExpr(n.Left)
	if err != nil {
		return "", types.Type{}, err
	}
	rVal, rTyp, err := fe.emitExpr(n.Right)
	if err != nil {
		return "", types.Type{}, err
	}
	if !lTyp.IsNumeric() || !rTyp.IsNumeric() {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line, "operator %s requires numeric operands, got %s and %s", n.Op, lTyp, rTyp)
	}
	common := types.Common(lTyp, rTyp)
	lVal = fe.convert(lVal, lTyp, common)
	rVal = fe.convert(rVal, rTyp, common)

	if n.Op.IsRelational() {
		return fe.emitCompare(n.Op, lVal, rVal, common), types.Prim(types.I32), nil
	}

	isFloat := common.IsFloat()
	var op string
	switch n.Op {
	case ast.Add:
		op = pick(isFloat, "fadd", "add")
	case ast.Sub:
		op = pick(isFloat, "fsub", "sub")
	case ast.Mul:
		op = pick(isFloat, "fmul", "mul")
	case ast.Div:
		op = pick(isFloat, "fdiv", "sdiv")
	}
	result := fe.instr("%s %s %s, %s", op, llvmType(common), lVal, rVal)
	return result, common, nil
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// emitCompare implements spec.md §4.4's relational emission: icmp/fcmp, then
// zext i1 to i32 so the result is a uniform 32-bit boolean.
func (fe *funcEmitter) emitCompare(op ast.BinOp, lVal, rVal string, common types.Type) string {
	var cmp string
	if common.IsFloat() {
		cmp = fe.instr("fcmp %s %s %s, %s", floatPred(op), llvmType(common), lVal, rVal)
	} else {
		cmp = fe.instr("icmp %s %s %s, %s", intPred(op), llvmType(common), lVal, rVal)
	}
	return fe.instr("zext i1 %s to i32", cmp)
}

func intPred(op ast.BinOp) string {
	switch op {
	case ast.Lt:
		return "slt"
	case ast.Le:
		return "sle"
	case ast.Gt:
		return "sgt"
	case ast.Ge:
		return "sge"
	case ast.Eq:
		return "eq"
	}
	return "eq"
}

func floatPred(op ast.BinOp) string {
	switch op {
	case ast.Lt:
		return "olt"
	case ast.Le:
		return "ole"
	case ast.Gt:
		return "ogt"
	case ast.Ge:
		return "oge"
	case ast.Eq:
		return "oeq"
	}
	return "oeq"
}

// emitCallExpr implements spec.md §4.4's call protocol: arity validation,
// per-parameter coercion, variadic default promotion, then a single `call`.
func (fe *funcEmitter) emitCallExpr(n *ast.Call) (string, types.Type, error) {
	entry, ok := fe.e.funcs.lookup(n.Name)
	if !ok {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line, "call to undeclared function %q", n.Name)
	}
	if entry.Variadic {
		if len(n.Args) < len(entry.ParamTypes) {
			return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line,
				"function %q expects at least %d arguments, got %d", n.Name, len(entry.ParamTypes), len(n.Args))
		}
	} else if len(n.Args) != len(entry.ParamTypes) {
		return "", types.Type{}, util.NewCompileError(util.Semantic, n.Pos().Line,
			"function %q expects %d arguments, got %d", n.Name, len(entry.ParamTypes), len(n.Args))
	}

	argTexts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		val, typ, err := fe.emitExpr(arg)
		if err != nil {
			return "", types.Type{}, err
		}
		var target types.Type
		if i < len(entry.ParamTypes) {
			target = entry.ParamTypes[i]
			val = fe.convert(val, typ, target)
		} else {
			target = types.DefaultPromote(typ)
			val = fe.convert(val, typ, target)
		}
		argTexts[i] = llvmType(target) + " " + val
	}

	if entry.External {
		fe.e.used[entry.Name] = true
	}

	calleeType := llvmType(entry.ReturnType)
	if entry.Variadic {
		calleeType = llvmType(entry.ReturnType) + " (" + paramTypeList(entry.ParamTypes, true) + ")"
	}
	args := joinArgs(argTexts)

	if entry.ReturnType.IsVoid() {
		fe.emitLine("call %s @%s(%s)", calleeType, n.Name, args)
		return "", types.Prim(types.Void), nil
	}
	reg := fe.instr("call %s @%s(%s)", calleeType, n.Name, args)
	return reg, entry.ReturnType, nil
}

func joinArgs(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
