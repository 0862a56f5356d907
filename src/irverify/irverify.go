// Package irverify parses textual LLVM IR produced by src/emit back through
// LLVM's own parser and verifier. It exists because src/emit hand-builds its
// output with string formatting rather than the LLVM API, so nothing checks
// that the text is well-formed IR until something actually tries to read it
// back in.
package irverify

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// Verify parses ir as an LLVM module and runs the module verifier over it.
// It returns the verifier's diagnostic text on failure, or a parse error if
// ir is not even syntactically valid IR.
func Verify(ir string) error {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	buf := llvm.NewMemoryBufferContentsString(ir, "module")
	mod, err := ctx.ParseIR(buf)
	if err != nil {
		return fmt.Errorf("irverify: parse: %w", err)
	}
	defer mod.Dispose()

	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("irverify: verify: %w", err)
	}
	return nil
}
