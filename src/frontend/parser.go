package frontend

import (
	"fmt"

	"dltc/src/ast"
	"dltc/src/types"
)

// ParseError reports a syntax error at a specific token (spec.md §4.3, §7).
type ParseError struct {
	Msg  string
	Line int
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

// typeNames maps a KW_TYPE token's text to its primitive kind (spec.md §3's
// keyword aliases: int/int32, int8/char, int16/short, int64/long,
// float/float32, double/float64, void).
var typeNames = map[string]types.Kind{
	"void": types.Void,
	"int8": types.I8, "char": types.I8,
	"int16": types.I16, "short": types.I16,
	"int": types.I32, "int32": types.I32,
	"int64": types.I64, "long": types.I64,
	"float": types.F32, "float32": types.F32,
	"double": types.F64, "float64": types.F64,
}

// parser is a hand-rolled recursive-descent, Pratt-style-for-expressions
// parser over one token slice. Parse errors are reported by panicking with
// *ParseError and recovered at the Parse entry point, the same pattern Go's
// own text/template and go/parser packages use internally to avoid
// threading an error return through every production.
type parser struct {
	arena  *ast.Arena
	tokens []Token
	pos    int
}

// Parse builds a *ast.Program from an already-lexed and preprocessed token
// stream, allocating every node from arena (spec.md §3, §4.3).
func Parse(tokens []Token, arena *ast.Arena) (prog *ast.Program, err error) {
	p := &parser{arena: arena, tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	prog = p.parseProgram()
	return prog, nil
}

func (p *parser) cur() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: EOF, Line: p.lastLine()}
}

func (p *parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[len(p.tokens)-1].Line
}

func (p *parser) at(k Kind) bool { return p.cur().Kind == k }

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) expect(k Kind) Token {
	if !p.at(k) {
		p.fail("expected %s but found %s", k, p.cur().Kind)
	}
	return p.advance()
}

func (p *parser) fail(format string, args ...interface{}) {
	panic(&ParseError{Msg: fmt.Sprintf(format, args...), Line: p.cur().Line})
}

// parseProgram parses spec.md §3's Program := (Extern | Function |
// Statement)* at the top level.
func (p *parser) parseProgram() *ast.Program {
	line := p.cur().Line
	var externs []*ast.ExternDecl
	var funcs []*ast.FunctionDecl
	var top []ast.Stmt

	for !p.at(EOF) {
		switch {
		case p.at(KW_EXTERNAL):
			externs = append(externs, p.parseExternDecl())
		case p.at(KW_FN):
			funcs = append(funcs, p.parseFunctionDecl())
		default:
			top = append(top, p.parseStatement())
		}
	}
	program := p.arena.NewProgram(externs, funcs, top)
	program.Position = ast.Position{Line: line}
	return program
}

// parseType consumes a KW_TYPE token, optionally followed by a STAR for a
// pointer variant (spec.md §3).
func (p *parser) parseType() types.Type {
	tok := p.expect(KW_TYPE)
	base, ok := typeNames[tok.Text]
	if !ok {
		p.fail("unknown type %q", tok.Text)
	}
	if p.at(STAR) {
		p.advance()
		return types.PtrTo(base)
	}
	return types.Prim(base)
}

// parseExternDecl parses `external TYPE NAME ( [Type (, Type)* [, ...]] ) ;`
// (spec.md §4.3's grammar sketch: externs give the return type C-prototype
// style, ahead of the name, unlike FunctionDecl's trailing '-> Type').
func (p *parser) parseExternDecl() *ast.ExternDecl {
	line := p.cur().Line
	p.expect(KW_EXTERNAL)
	ret := p.parseType()
	name := p.expect(IDENTIFIER).Text
	p.expect(LPAREN)

	var paramTypes []types.Type
	variadic := false
	for !p.at(RPAREN) {
		if p.at(ELLIPSIS) {
			p.advance()
			variadic = true
			break
		}
		paramTypes = append(paramTypes, p.parseType())
		if p.at(COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(RPAREN)
	p.expect(SEMI)
	return p.arena.NewExternDecl(line, name, paramTypes, ret, variadic)
}

// parseFunctionDecl parses `fn NAME ( Params? ) ('->' Type)? Scope`. A
// missing arrow defaults the return type to void.
func (p *parser) parseFunctionDecl() *ast.FunctionDecl {
	line := p.cur().Line
	p.expect(KW_FN)
	name := p.expect(IDENTIFIER).Text
	p.expect(LPAREN)

	var params []ast.Param
	for !p.at(RPAREN) {
		pname := p.expect(IDENTIFIER).Text
		p.expect(COLON)
		ptyp := p.parseType()
		params = append(params, ast.Param{Name: pname, Type: ptyp})
		if p.at(COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(RPAREN)
	ret := types.Prim(types.Void)
	if p.at(ARROW) {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseScope()
	return p.arena.NewFunctionDecl(line, name, params, ret, body)
}

// parseScope parses `{ Statement* }`.
func (p *parser) parseScope() *ast.ScopeStmt {
	line := p.cur().Line
	p.expect(LBRACE)
	var stmts []ast.Stmt
	for !p.at(RBRACE) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(RBRACE)
	return p.arena.NewScopeStmt(line, stmts)
}

// parseStatement dispatches on the leading token to one of spec.md §3's
// Statement variants.
func (p *parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case LBRACE:
		return p.parseScope()
	case KW_LET:
		return p.parseLetStmt()
	case KW_IF:
		return p.parseIfStmt()
	case KW_WHILE:
		return p.parseWhileStmt()
	case KW_RETURN:
		return p.parseReturnStmt()
	case KW_EXIT:
		return p.parseExitStmt()
	case STAR:
		return p.parsePointerAssignStmt()
	default:
		return p.parseSimpleStmt()
	}
}

// parseLetStmt parses `let const? NAME : Type = Expression ;`.
func (p *parser) parseLetStmt() ast.Stmt {
	line := p.cur().Line
	p.expect(KW_LET)
	isConst := false
	if p.at(KW_CONST) {
		p.advance()
		isConst = true
	}
	name := p.expect(IDENTIFIER).Text
	p.expect(COLON)
	typ := p.parseType()
	p.expect(ASSIGN)
	val := p.parseExpression()
	p.expect(SEMI)
	return p.arena.NewLetStmt(line, name, typ, isConst, val)
}

// parseIfStmt parses `if ( Expression ) Scope IfTail?`.
func (p *parser) parseIfStmt() ast.Stmt {
	line := p.cur().Line
	p.expect(KW_IF)
	p.expect(LPAREN)
	cond := p.parseExpression()
	p.expect(RPAREN)
	then := p.parseScope()
	tail := p.parseIfTail()
	return p.arena.NewIfStmt(line, cond, then, tail)
}

// parseIfTail parses the optional `elif (...) Scope` chain terminated by an
// optional `else Scope`.
func (p *parser) parseIfTail() ast.IfTail {
	switch p.cur().Kind {
	case KW_ELIF:
		line := p.cur().Line
		p.advance()
		p.expect(LPAREN)
		cond := p.parseExpression()
		p.expect(RPAREN)
		body := p.parseScope()
		next := p.parseIfTail()
		return p.arena.NewElif(line, cond, body, next)
	case KW_ELSE:
		line := p.cur().Line
		p.advance()
		body := p.parseScope()
		return p.arena.NewElse(line, body)
	default:
		return nil
	}
}

// parseWhileStmt parses `while ( Expression ) Scope`.
func (p *parser) parseWhileStmt() ast.Stmt {
	line := p.cur().Line
	p.expect(KW_WHILE)
	p.expect(LPAREN)
	cond := p.parseExpression()
	p.expect(RPAREN)
	body := p.parseScope()
	return p.arena.NewWhileStmt(line, cond, body)
}

// parseReturnStmt parses `return Expression? ;`.
func (p *parser) parseReturnStmt() ast.Stmt {
	line := p.cur().Line
	p.expect(KW_RETURN)
	var val ast.Expr
	if !p.at(SEMI) {
		val = p.parseExpression()
	}
	p.expect(SEMI)
	return p.arena.NewReturnStmt(line, val)
}

// parseExitStmt parses `exit Expression ;`.
func (p *parser) parseExitStmt() ast.Stmt {
	line := p.cur().Line
	p.expect(KW_EXIT)
	val := p.parseExpression()
	p.expect(SEMI)
	return p.arena.NewExitStmt(line, val)
}

// parsePointerAssignStmt parses `* Expression = Expression ;`, the only
// statement form that starts with a bare STAR.
func (p *parser) parsePointerAssignStmt() ast.Stmt {
	line := p.cur().Line
	p.expect(STAR)
	ptr := p.parseUnary()
	p.expect(ASSIGN)
	val := p.parseExpression()
	p.expect(SEMI)
	return p.arena.NewPointerAssignStmt(line, ptr, val)
}

// parseSimpleStmt handles the statement forms that start with an
// expression: a plain assignment `NAME = Expression ;`, `NAME++`/`NAME--`
// (desugared to `NAME = NAME ± 1`), an array-element assignment
// `Expression [ Expression ] = Expression ;`, and an expression used for its
// side effect alone (a bare call) `Expression ;`.
func (p *parser) parseSimpleStmt() ast.Stmt {
	line := p.cur().Line

	if p.at(IDENTIFIER) && p.peekKind(1) == ASSIGN {
		name := p.advance().Text
		p.advance() // '='
		val := p.parseExpression()
		p.expect(SEMI)
		return p.arena.NewAssignStmt(line, name, val)
	}
	if p.at(IDENTIFIER) && (p.peekKind(1) == INC || p.peekKind(1) == DEC) {
		name := p.advance().Text
		op := ast.Add
		if p.cur().Kind == DEC {
			op = ast.Sub
		}
		p.advance()
		p.expect(SEMI)
		one := p.arena.NewIntLit(line, 1)
		rhs := p.arena.NewBinary(line, op, p.arena.NewIdent(line, name), one)
		return p.arena.NewAssignStmt(line, name, rhs)
	}

	e := p.parseExpression()
	if access, ok := e.(*ast.ArrayAccess); ok && p.at(ASSIGN) {
		p.advance()
		val := p.parseExpression()
		p.expect(SEMI)
		return p.arena.NewArrayAssignStmt(line, access.Array, access.Index, val)
	}
	p.expect(SEMI)
	return p.arena.NewExprStmt(line, e)
}

func (p *parser) peekKind(n int) Kind {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n].Kind
	}
	return EOF
}

// --- Expressions ---
//
// Expression parsing is precedence climbing (spec.md §4.1's precedence
// table: multiplicative > additive > relational/equality), bottoming out at
// parseUnary for prefix forms and parsePrimary for terms.

func (p *parser) parseExpression() ast.Expr {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := Precedence(p.cur().Kind)
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		op, ok := BinOpOf(opTok.Kind)
		if !ok {
			p.fail("not a binary operator: %s", opTok.Kind)
		}
		right := p.parseBinary(prec + 1)
		left = p.arena.NewBinary(opTok.Line, op, left, right)
	}
}

// parseUnary handles prefix `-`, `&NAME` and `*Expression` (spec.md §4.3
// Term variants) ahead of parsePrimary.
func (p *parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case MINUS:
		line := p.advance().Line
		inner := p.parseUnary()
		zero := ast.Expr(p.arena.NewIntLit(line, 0))
		return p.arena.NewBinary(line, ast.Sub, zero, inner)
	case AMP:
		line := p.advance().Line
		name := p.expect(IDENTIFIER).Text
		return p.arena.NewAddressOf(line, name)
	case STAR:
		line := p.advance().Line
		inner := p.parseUnary()
		return p.arena.NewDeref(line, inner)
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles the `Expression [ Expression ]` array-index suffix
// that can trail any primary term.
func (p *parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for p.at(LBRACKET) {
		line := p.advance().Line
		idx := p.parseExpression()
		p.expect(RBRACKET)
		e = p.arena.NewArrayAccess(line, e, idx)
	}
	return e
}

// parsePrimary parses the innermost Term forms: literals, identifiers,
// calls, parenthesized expressions and casts. `(TYPE) expr` is disambiguated
// from a parenthesized expression by checking whether the token right after
// '(' is a KW_TYPE, optionally followed by a run of '*' for a pointer
// target, immediately followed by ')'.
func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case INT_LIT:
		p.advance()
		return p.arena.NewIntLit(tok.Line, parseInt(tok.Text))
	case FLOAT_LIT:
		p.advance()
		return p.arena.NewFloatLit(tok.Line, parseFloat32(tok.Text))
	case DOUBLE_LIT:
		p.advance()
		return p.arena.NewDoubleLit(tok.Line, parseFloat64(tok.Text))
	case STRING_LIT:
		p.advance()
		return p.arena.NewStringLit(tok.Line, tok.Text)
	case IDENTIFIER:
		return p.parseIdentOrCall()
	case LPAREN:
		if p.peekKind(1) == KW_TYPE {
			end := 2
			for p.peekKind(end) == STAR {
				end++
			}
			if p.peekKind(end) == RPAREN {
				line := p.advance().Line
				target := p.parseType()
				p.expect(RPAREN)
				inner := p.parseUnary()
				return p.arena.NewCast(line, target, inner)
			}
		}
		line := p.advance().Line
		inner := p.parseExpression()
		p.expect(RPAREN)
		return p.arena.NewParen(line, inner)
	default:
		p.fail("unexpected token %s in expression", tok.Kind)
		return nil
	}
}

func (p *parser) parseIdentOrCall() ast.Expr {
	tok := p.advance()
	if !p.at(LPAREN) {
		return p.arena.NewIdent(tok.Line, tok.Text)
	}
	p.advance()
	var args []ast.Expr
	for !p.at(RPAREN) {
		args = append(args, p.parseExpression())
		if p.at(COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(RPAREN)
	return p.arena.NewCall(tok.Line, tok.Text, args)
}
