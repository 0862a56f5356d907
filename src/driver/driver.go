package driver

import (
	"fmt"
	"io"
	"os"
	"strings"

	"dltc/src/ast"
	"dltc/src/emit"
	"dltc/src/frontend"
	"dltc/src/irverify"
	"dltc/src/util"
)

// Compile runs the full pipeline (lex, preprocess, parse, emit) over src and
// returns the textual LLVM IR, or the first error encountered: a
// *frontend.LexError, *frontend.PreprocError or *frontend.ParseError from
// the frontend, or a *util.CompileError from the emitter.
// When opt.Verify is set the emitted IR is round-tripped through
// irverify.Verify before being returned.
func Compile(src string, opt util.Options, logger util.Logger, tel *util.Telemetry) (string, error) {
	tokens, err := frontend.Lex(src)
	if err != nil {
		return "", err
	}

	target := frontend.Native
	if opt.Wasm {
		target = frontend.Wasm
	}
	tokens, err = frontend.Preprocess(tokens, frontend.OSFileReader, opt.Includes, target)
	if err != nil {
		return "", err
	}

	if opt.TokenStream {
		var sb strings.Builder
		for _, tok := range tokens {
			sb.WriteString(tok.String())
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	}

	arena := ast.NewArena()
	prog, err := frontend.Parse(tokens, arena)
	if err != nil {
		return "", err
	}

	if opt.PrintAST {
		var sb strings.Builder
		ast.Print(&sb, prog)
		return sb.String(), nil
	}

	emitTarget := emit.Native
	if opt.Wasm {
		emitTarget = emit.Wasm
	}
	ir, err := emit.Emit(prog, arena, emit.Options{Target: emitTarget, Logger: logger, Telemetry: tel})
	if err != nil {
		return "", err
	}

	if opt.Verify {
		if err := irverify.Verify(ir); err != nil {
			return "", fmt.Errorf("emitted IR failed verification: %w", err)
		}
	}
	return ir, nil
}

// ReadSource reads source text from opt.Src, or from stdin when opt.Src is
// empty.
func ReadSource(opt util.Options) (string, error) {
	if opt.Src != "" {
		b, err := os.ReadFile(opt.Src)
		return string(b), err
	}
	b, err := io.ReadAll(os.Stdin)
	return string(b), err
}

// WriteOutput writes out to opt.Out, or stdout when opt.Out is empty.
func WriteOutput(opt util.Options, out string) error {
	if opt.Out == "" {
		_, err := os.Stdout.WriteString(out)
		return err
	}
	return os.WriteFile(opt.Out, []byte(out), 0644)
}
