// Command dltc is the compiler driver: it parses command line arguments,
// layers environment configuration on top, reads source text, runs the
// compilation pipeline, and writes the result. None of the compiler's
// actual logic lives here; this is wiring only.
package main

import (
	"fmt"
	"os"

	"dltc/src/driver"
	"dltc/src/util"
)

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %s\n", err)
		os.Exit(1)
	}

	var logLevel string
	opt, logLevel, err = util.ApplyEnv(opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %s\n", err)
		os.Exit(1)
	}

	logger := driver.NewLogger(logLevel)

	src, err := driver.ReadSource(opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read source: %s\n", err)
		os.Exit(1)
	}

	tel := util.NewTelemetry()
	out, err := driver.Compile(src, opt, logger, tel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if err := driver.WriteOutput(opt, out); err != nil {
		fmt.Fprintf(os.Stderr, "could not write output: %s\n", err)
		os.Exit(1)
	}

	if opt.Verbose {
		stats := tel.Finish()
		fmt.Fprintf(os.Stderr, "functions=%d nodes=%d mean_nodes=%.1f mean_ir_lines=%.1f\n",
			stats.FunctionCount, stats.TotalNodes, stats.MeanNodes, stats.MeanIRLines)
	}
}
