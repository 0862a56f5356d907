package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dltc/src/util"
)

func TestCompileHelloWorld(t *testing.T) {
	src := `fn main() -> int { printf("hi\n"); return 0; }`
	ir, err := Compile(src, util.Options{}, nil, nil)
	require.NoError(t, err)
	require.Contains(t, ir, "define i32 @main()")
	require.Contains(t, ir, "declare i32 @printf")
}

func TestCompileTokenStream(t *testing.T) {
	src := `fn main() -> int { return 0; }`
	out, err := Compile(src, util.Options{TokenStream: true}, nil, nil)
	require.NoError(t, err)
	require.Contains(t, out, `fn("fn", line 1)`)
}

func TestCompilePrintAST(t *testing.T) {
	src := `fn main() -> int { return 0; }`
	out, err := Compile(src, util.Options{PrintAST: true}, nil, nil)
	require.NoError(t, err)
	require.Contains(t, out, "main")
}

func TestCompileVerifyRejectsNothingForWellFormedIR(t *testing.T) {
	src := `fn main() -> int { return 0; }`
	_, err := Compile(src, util.Options{Verify: true}, nil, nil)
	require.NoError(t, err)
}

func TestCompileSyntaxErrorIsReported(t *testing.T) {
	src := `fn main() -> int { return }`
	_, err := Compile(src, util.Options{}, nil, nil)
	require.Error(t, err)
}
