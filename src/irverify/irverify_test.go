package irverify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyAcceptsWellFormedModule(t *testing.T) {
	ir := `target triple = "x86_64-unknown-linux-gnu"

define i32 @main() {
entry:
  ret i32 0
}
`
	require.NoError(t, Verify(ir))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	require.Error(t, Verify("this is not llvm ir"))
}

func TestVerifyRejectsMismatchedReturnType(t *testing.T) {
	ir := `target triple = "x86_64-unknown-linux-gnu"

define i32 @main() {
entry:
  ret void
}
`
	require.Error(t, Verify(ir))
}
