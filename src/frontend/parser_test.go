package frontend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dltc/src/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := Lex(src)
	require.NoError(t, err)
	prog, err := Parse(tokens, ast.NewArena())
	require.NoError(t, err)
	return prog
}

func printProgram(prog *ast.Program) string {
	var sb strings.Builder
	ast.Print(&sb, prog)
	return sb.String()
}

func TestParseFunctionWithImplicitVoidReturn(t *testing.T) {
	prog := mustParse(t, "fn f() { exit 0; }")
	require.Len(t, prog.Functions, 1)
	require.True(t, prog.Functions[0].ReturnType.IsVoid())
}

func TestParseExternDeclGrammar(t *testing.T) {
	prog := mustParse(t, "external int puts(int8*, ...);")
	require.Len(t, prog.Externs, 1)
	ext := prog.Externs[0]
	require.Equal(t, "puts", ext.Name)
	require.True(t, ext.Variadic)
	require.Len(t, ext.ParamTypes, 1)
}

func TestParseIncrementDecrementDesugaring(t *testing.T) {
	prog := mustParse(t, "fn f() -> int { let i: int = 0; i++; i--; return i; }")
	body := prog.Functions[0].Body.Stmts
	require.Len(t, body, 4)

	incAssign, ok := body[1].(*ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "i", incAssign.Name)
	bin, ok := incAssign.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Add, bin.Op)

	decAssign, ok := body[2].(*ast.AssignStmt)
	require.True(t, ok)
	binDec, ok := decAssign.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Sub, binDec.Op)
}

func TestParseArrayAccessVsArrayAssign(t *testing.T) {
	prog := mustParse(t, "fn f(p: int*) -> int { p[0] = 1; return p[0]; }")
	body := prog.Functions[0].Body.Stmts
	_, ok := body[0].(*ast.ArrayAssignStmt)
	require.True(t, ok)

	ret, ok := body[1].(*ast.ReturnStmt)
	require.True(t, ok)
	_, ok = ret.Value.(*ast.ArrayAccess)
	require.True(t, ok)
}

func TestParsePointerAssignVsDeref(t *testing.T) {
	prog := mustParse(t, "fn f(p: int*) -> int { *p = 5; return *p; }")
	body := prog.Functions[0].Body.Stmts
	_, ok := body[0].(*ast.PointerAssignStmt)
	require.True(t, ok)

	ret, ok := body[1].(*ast.ReturnStmt)
	require.True(t, ok)
	_, ok = ret.Value.(*ast.Deref)
	require.True(t, ok)
}

func TestParseCastVsParen(t *testing.T) {
	prog := mustParse(t, "fn f(a: int8) -> int { return (int) a; }")
	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	_, ok := ret.Value.(*ast.Cast)
	require.True(t, ok)

	prog2 := mustParse(t, "fn g() -> int { return (1 + 2); }")
	ret2 := prog2.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	_, ok = ret2.Value.(*ast.Paren)
	require.True(t, ok)
}

func TestParseCastToPointerType(t *testing.T) {
	prog := mustParse(t, "fn f(a: int) -> int* { return (int*) a; }")
	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	cast, ok := ret.Value.(*ast.Cast)
	require.True(t, ok)
	require.True(t, cast.Target.IsPointer())
}

func TestParsePrecedenceClimbing(t *testing.T) {
	prog := mustParse(t, "fn f() -> int { return 1 + 2 * 3; }")
	ret := prog.Functions[0].Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Add, top.Op)
	_, isLitLeft := top.Left.(*ast.IntLit)
	require.True(t, isLitLeft)
	mul, ok := top.Right.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Mul, mul.Op)
}

func TestParseIfElifElseChain(t *testing.T) {
	prog := mustParse(t, `fn f(a: int) -> int {
		if (a == 1) { return 1; }
		elif (a == 2) { return 2; }
		else { return 0; }
	}`)
	ifs := prog.Functions[0].Body.Stmts[0].(*ast.IfStmt)
	elif, ok := ifs.Tail.(*ast.Elif)
	require.True(t, ok)
	_, ok = elif.Next.(*ast.Else)
	require.True(t, ok)
}

func TestParsePrintDeterminismIgnoresWhitespace(t *testing.T) {
	a := mustParse(t, "fn f(a:int)->int{return a+1;}")
	b := mustParse(t, "fn   f ( a : int )  ->  int  {\n  return a + 1 ;\n}\n")
	require.Equal(t, printProgram(a), printProgram(b))
}

func TestParseUnexpectedTokenIsAParseError(t *testing.T) {
	tokens, err := Lex("fn f() -> int { return ; }")
	require.NoError(t, err)
	_, err = Parse(tokens, ast.NewArena())
	require.NoError(t, err) // bare `return;` is legal even in a non-void fn at parse time

	tokens2, err := Lex("fn f() -> int { return }")
	require.NoError(t, err)
	_, err = Parse(tokens2, ast.NewArena())
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
