// This lexer's state-function design is adapted from Rob Pike's talk on Go
// scanners (https://talks.golang.org/2011/lex.slide#1), as used by the
// teacher's frontend/lexer.go. Unlike a channel-fed concurrent scanner, this
// lexer runs to completion synchronously and returns the whole token slice:
// spec.md §5 requires a single-threaded, strictly sequential pipeline, and
// spec.md §4.1 asks for "a finite, restartable sequence of tokens" rather
// than a live stream a parser goroutine would drain concurrently.
package frontend

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// stateFunc defines one state of the lexer's state machine.
type stateFunc func(*lexer) stateFunc

const eof = rune(0)

// lexer scans a source string into a token slice, one rune at a time.
type lexer struct {
	input       string
	start       int
	pos         int
	width       int
	line        int
	startOnLine int
	items       []Token
	err         error
}

// LexError is returned for an unrecognized character or an unterminated
// literal (spec.md §4.1, §7).
type LexError struct {
	Msg  string
	Line int
}

func (e *LexError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

// Lex scans src into a token slice in source order. Every emitted token
// carries a line number >= 1 (testable property 1: lexer totality).
func Lex(src string) ([]Token, error) {
	l := &lexer{input: src, line: 1, startOnLine: 1, items: make([]Token, 0, len(src)/4+8)}
	for state := stateFunc(lexGlobal); state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.items, nil
}

// emit appends the pending lexeme [start:pos) as a token of kind k.
func (l *lexer) emit(k Kind) {
	l.items = append(l.items, Token{Kind: k, Text: l.input[l.start:l.pos], Line: l.line})
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// next returns the next rune in the input, advancing pos.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	l.width = w
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// backup steps back one rune. Only valid once per call to next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, but does not consume, the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) accept(valid string) bool {
	if strings.IndexRune(valid, l.next()) >= 0 {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.IndexRune(valid, l.next()) >= 0 {
	}
	l.backup()
}

// errorf records a LexError and stops the state machine.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.err = &LexError{Msg: fmt.Sprintf(format, args...), Line: l.line}
	return nil
}

func isAlpha(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\f' || r == '\r' }
