// Package driver wires the core compilation pipeline (src/frontend,
// src/ast, src/emit, src/irverify) to the outside world: command line
// flags, environment variables, the filesystem and process logging. None
// of this belongs in the pipeline packages themselves, which only ever see
// a util.Logger interface and plain strings in, strings out.
package driver

import (
	"log"
	"os"

	"github.com/hashicorp/logutils"
)

// logLevels lists the filter levels accepted in the DLTC_LOG_LEVEL
// environment variable, from least to most severe, the order
// logutils.LevelFilter expects: a level drops every level listed before it.
var logLevels = []logutils.LogLevel{"TRACE", "DEBUG", "INFO", "WARN"}

// traceLogger adapts the standard library's log package, filtered through
// logutils, to the util.Logger interface the pipeline depends on.
type traceLogger struct{}

func (traceLogger) Tracef(format string, args ...interface{}) {
	log.Printf("[TRACE] "+format, args...)
}

// NewLogger installs a level-filtered writer on the standard logger and
// returns a util.Logger that emits at TRACE level. Pipeline trace output is
// visible only when level is "TRACE"; any coarser level silently drops it
// at the logutils.LevelFilter, not at the call site.
func NewLogger(level string) traceLogger {
	filter := &logutils.LevelFilter{
		Levels:   logLevels,
		MinLevel: logutils.LogLevel(level),
		Writer:   os.Stderr,
	}
	log.SetOutput(filter)
	log.SetFlags(0)
	return traceLogger{}
}
