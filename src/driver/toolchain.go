package driver

import "os/exec"

// Toolchain is the thin seam between the driver and the external binaries
// spec.md §1 names as out-of-scope collaborators (llc, clang, wasm-ld).
// NewToolchain returns the execToolchain implementation. Compile does not
// invoke a Toolchain: it stops at emitting (and optionally verifying) IR.
type Toolchain interface {
	// CompileIR lowers the textual IR at irPath to an object file at objPath
	// using llc.
	CompileIR(irPath, objPath string) error
	// Link produces the native executable at outPath from one or more
	// object files, linking against the runtime library.
	Link(objPaths []string, outPath string, runtimeLib string) error
	// LinkWasm produces a WebAssembly module at outPath using wasm-ld.
	LinkWasm(objPaths []string, outPath string, runtimeLib string) error
}

// execToolchain shells out to the real llc/clang/wasm-ld binaries on PATH.
type execToolchain struct{}

// NewToolchain returns the production Toolchain that invokes real
// subprocesses.
func NewToolchain() Toolchain {
	return execToolchain{}
}

func (execToolchain) CompileIR(irPath, objPath string) error {
	return exec.Command("llc", "-filetype=obj", "-o", objPath, irPath).Run()
}

func (execToolchain) Link(objPaths []string, outPath string, runtimeLib string) error {
	args := append([]string{"-o", outPath}, objPaths...)
	if runtimeLib != "" {
		args = append(args, runtimeLib)
	}
	return exec.Command("clang", args...).Run()
}

func (execToolchain) LinkWasm(objPaths []string, outPath string, runtimeLib string) error {
	args := append([]string{"-o", outPath}, objPaths...)
	if runtimeLib != "" {
		args = append(args, runtimeLib)
	}
	return exec.Command("wasm-ld", args...).Run()
}
