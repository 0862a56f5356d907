package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dltc/src/ast"
	"dltc/src/frontend"
)

func compile(t *testing.T, src string, opts Options) string {
	t.Helper()
	tokens, err := frontend.Lex(src)
	require.NoError(t, err)
	tokens, err = frontend.Preprocess(tokens, frontend.OSFileReader, nil, frontend.Native)
	require.NoError(t, err)
	arena := ast.NewArena()
	prog, err := frontend.Parse(tokens, arena)
	require.NoError(t, err)
	out, err := Emit(prog, arena, opts)
	require.NoError(t, err)
	return out
}

func TestEmitHelloWorld(t *testing.T) {
	src := `fn main() -> int { printf("Hello %s\n", "world"); return 0; }`
	ir := compile(t, src, Options{})

	require.Contains(t, ir, `@str.0 = private unnamed_addr constant [10 x i8] c"Hello %s\0A\00"`)
	require.Contains(t, ir, `@str.1 = private unnamed_addr constant [6 x i8] c"world\00"`)
	require.Contains(t, ir, "define i32 @main()")
	require.Contains(t, ir, "call i32 (i8*, ...) @printf(")
	require.Contains(t, ir, "ret i32 0")
}

func TestEmitConditionalWidening(t *testing.T) {
	src := `fn f(a: int8, b: int) -> int { if (a > b) { return b; } else { return (int) a; } }`
	ir := compile(t, src, Options{})

	require.Contains(t, ir, "sext i8")
	require.Contains(t, ir, "to i32")
	require.Contains(t, ir, "icmp sgt i32")
	require.Contains(t, ir, "ret i32")
}

func TestEmitWhileDecrement(t *testing.T) {
	src := `fn g() -> int { let i: int = 10; while (i > 0) { i--; } return i; }`
	ir := compile(t, src, Options{})

	require.Contains(t, ir, "bb0:")
	require.Contains(t, ir, "bb1:")
	require.Contains(t, ir, "bb2:")
	require.Contains(t, ir, "sub i32")
	require.Contains(t, ir, "store i32")
}

func TestEmitPointerRoundTrip(t *testing.T) {
	src := `fn h() -> int { let x: int = 7; let p: int* = &x; *p = 42; return x; }`
	ir := compile(t, src, Options{})

	require.Contains(t, ir, "store i32 42, i32*")
	require.Contains(t, ir, "ret i32")
}

func TestEmitVariadicDefaultPromotion(t *testing.T) {
	src := `fn m() -> int { let c: int8 = 'A'; printf("%d", c); return 0; }`
	ir := compile(t, src, Options{})

	require.Contains(t, ir, "sext i8")
	require.Contains(t, ir, "to i32")
	require.Contains(t, ir, "call i32 (i8*, ...) @printf(i8* %t")
}

func TestEmitPreprocessorConditional(t *testing.T) {
	src := "#if defined(__linux__)\n" +
		"external void posixOnly();\n" +
		"#else\n" +
		"external void winOnly();\n" +
		"#endif\n" +
		"fn main() -> int { posixOnly(); return 0; }"
	ir := compile(t, src, Options{})

	require.Contains(t, ir, "declare void @posixOnly()")
	require.NotContains(t, ir, "winOnly")
}

func TestEmitTemporaryUniqueness(t *testing.T) {
	src := `fn n() -> int { let a: int = 1; let b: int = 2; return a + b * 2; }`
	ir := compile(t, src, Options{})

	seen := map[string]bool{}
	for _, line := range strings.Split(ir, "\n") {
		if idx := strings.Index(line, " = "); idx >= 0 {
			name := strings.TrimSpace(line[:idx])
			require.False(t, seen[name], "temporary %q assigned twice", name)
			seen[name] = true
		}
	}
}
