package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the fully resolved command line configuration for one
// invocation of the compiler driver.
type Options struct {
	Src         string   // Path to source file. Empty means read stdin.
	Out         string   // Path to output file. Empty means write stdout.
	Includes    []string // Additional #include search directories, in order.
	Verbose     bool     // Print telemetry to stderr after a successful compile.
	TokenStream bool     // Print the token stream and exit, skipping parse/emit.
	PrintAST    bool     // Print the parsed AST and exit, skipping emit.
	Verify      bool     // Round-trip the emitted IR through the LLVM verifier.
	Wasm        bool     // Target WebAssembly datalayout instead of the native one.
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "dltc 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options value.
func ParseArgs() (Options, error) {
	opt := Options{}
	if len(os.Args) < 2 {
		return opt, nil
	}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-I":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			opt.Includes = append(opt.Includes, args[i1+1])
			i1++
		case "-ts":
			opt.TokenStream = true
		case "-ast":
			opt.PrintAST = true
		case "-verify":
			opt.Verify = true
		case "-wasm":
			opt.Wasm = true
		case "-vb":
			opt.Verbose = true
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-o\tPath to the output file. Defaults to stdout.")
	_, _ = fmt.Fprintln(w, "-I\tAdd a directory to the #include search path. May be repeated.")
	_, _ = fmt.Fprintln(w, "-ts\tPrint the token stream and exit.")
	_, _ = fmt.Fprintln(w, "-ast\tPrint the parsed syntax tree and exit.")
	_, _ = fmt.Fprintln(w, "-verify\tRound-trip the emitted IR through the LLVM verifier before writing it out.")
	_, _ = fmt.Fprintln(w, "-wasm\tTarget the WebAssembly data layout instead of the native one.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stderr.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits.")
	_ = w.Flush()
}
