// Package frontend implements the lexer, preprocessor and parser of the
// DLT compilation pipeline: source text in, an *ast.Program out.
package frontend

import (
	"fmt"

	"dltc/src/ast"
)

// Kind differentiates the tokens recognised by the lexer.
type Kind int

const (
	EOF Kind = iota
	ERROR

	IDENTIFIER
	INT_LIT
	FLOAT_LIT
	DOUBLE_LIT
	STRING_LIT

	// Keywords.
	KW_IF
	KW_ELIF
	KW_ELSE
	KW_WHILE
	KW_RETURN
	KW_EXIT
	KW_LET
	KW_CONST
	KW_FN
	KW_EXTERNAL

	// Type keywords.
	KW_TYPE

	// Punctuation.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	SEMI
	ARROW    // ->
	ELLIPSIS // ...
	AMP      // &
	STAR     // *
	HASH     // #
	NOT      // !
	INC      // ++
	DEC      // --

	// Operators.
	PLUS
	MINUS
	SLASH
	ASSIGN // =
	LT
	LE
	GT
	GE
	EQ
)

// Token is an immutable lexeme with its source position.
type Token struct {
	Kind Kind
	Text string // textual payload for literals, identifiers and type keywords
	Line int
}

func (t Token) String() string {
	if len(t.Text) > 10 {
		return fmt.Sprintf("%s(%.10q..., line %d)", t.Kind, t.Text, t.Line)
	}
	return fmt.Sprintf("%s(%q, line %d)", t.Kind, t.Text, t.Line)
}

var kindNames = map[Kind]string{
	EOF: "EOF", ERROR: "ERROR", IDENTIFIER: "IDENTIFIER",
	INT_LIT: "INT_LIT", FLOAT_LIT: "FLOAT_LIT", DOUBLE_LIT: "DOUBLE_LIT", STRING_LIT: "STRING_LIT",
	KW_IF: "if", KW_ELIF: "elif", KW_ELSE: "else", KW_WHILE: "while", KW_RETURN: "return",
	KW_EXIT: "exit", KW_LET: "let", KW_CONST: "const", KW_FN: "fn", KW_EXTERNAL: "external",
	KW_TYPE: "TYPE",
	LPAREN:  "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", COLON: ":", SEMI: ";", ARROW: "->", ELLIPSIS: "...", AMP: "&", STAR: "*", HASH: "#", NOT: "!",
	INC: "++", DEC: "--",
	PLUS: "+", MINUS: "-", SLASH: "/", ASSIGN: "=",
	LT: "<", LE: "<=", GT: ">", GE: ">=", EQ: "==",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// binOpOf maps a token kind to its ast.BinOp, if the token is a binary operator.
var binOpOf = map[Kind]ast.BinOp{
	PLUS: ast.Add, MINUS: ast.Sub, STAR: ast.Mul, SLASH: ast.Div,
	LT: ast.Lt, LE: ast.Le, GT: ast.Gt, GE: ast.Ge, EQ: ast.Eq,
}

// precedence is the binding power table from spec.md §4.1: multiplicative
// highest, additive next, relational/equality lowest. Non-operators return
// (0, false).
var precedence = map[Kind]int{
	STAR: 2, SLASH: 2,
	PLUS: 1, MINUS: 1,
	GT: 0, GE: 0, LT: 0, LE: 0, EQ: 0,
}

// Precedence returns the binding power of a binary operator token and
// whether k is a binary operator at all.
func Precedence(k Kind) (int, bool) {
	p, ok := precedence[k]
	return p, ok
}

// BinOpOf returns the ast.BinOp for an operator token kind.
func BinOpOf(k Kind) (ast.BinOp, bool) {
	op, ok := binOpOf[k]
	return op, ok
}
