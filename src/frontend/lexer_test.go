package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexTokenStream(t *testing.T) {
	src := "fn add(a: int, b: int) -> int {\n  return a + b;\n}\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	kinds := make([]Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []Kind{
		KW_FN, IDENTIFIER, LPAREN, IDENTIFIER, COLON, KW_TYPE, COMMA, IDENTIFIER, COLON, KW_TYPE, RPAREN,
		ARROW, KW_TYPE, LBRACE,
		KW_RETURN, IDENTIFIER, PLUS, IDENTIFIER, SEMI,
		RBRACE, EOF,
	}, kinds)
}

func TestLexLineTracking(t *testing.T) {
	src := "let a: int = 1;\nlet b: int = 2;\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	for _, tok := range tokens {
		require.GreaterOrEqual(t, tok.Line, 1)
	}
	require.Equal(t, 1, tokens[0].Line)
	// "let b" starts the second line.
	var sawSecondLet bool
	for i, tok := range tokens {
		if tok.Kind == KW_LET && i > 0 {
			require.Equal(t, 2, tok.Line)
			sawSecondLet = true
		}
	}
	require.True(t, sawSecondLet)
}

func TestLexKeywordsAndTypes(t *testing.T) {
	src := "external void f(int8, int16, int32, int64, float, double, char, short, long, ...);"
	tokens, err := Lex(src)
	require.NoError(t, err)
	require.Equal(t, KW_EXTERNAL, tokens[0].Kind)
	require.Equal(t, KW_TYPE, tokens[1].Kind)
	require.Equal(t, "void", tokens[1].Text)
}

func TestLexBooleanLiterals(t *testing.T) {
	tokens, err := Lex("true false")
	require.NoError(t, err)
	require.Equal(t, INT_LIT, tokens[0].Kind)
	require.Equal(t, "1", tokens[0].Text)
	require.Equal(t, INT_LIT, tokens[1].Kind)
	require.Equal(t, "0", tokens[1].Text)
}

func TestLexNumericLiterals(t *testing.T) {
	tokens, err := Lex("42 3.14 2.5f")
	require.NoError(t, err)
	require.Equal(t, INT_LIT, tokens[0].Kind)
	require.Equal(t, "42", tokens[0].Text)
	require.Equal(t, DOUBLE_LIT, tokens[1].Kind)
	require.Equal(t, "3.14", tokens[1].Text)
	require.Equal(t, FLOAT_LIT, tokens[2].Kind)
	require.Equal(t, "2.5", tokens[2].Text)
}

func TestLexStringAndCharEscapes(t *testing.T) {
	tokens, err := Lex(`"a\nb" 'A'`)
	require.NoError(t, err)
	require.Equal(t, STRING_LIT, tokens[0].Kind)
	require.Equal(t, "a\nb", tokens[0].Text)
	require.Equal(t, INT_LIT, tokens[1].Kind)
	require.Equal(t, "65", tokens[1].Text)
}

func TestLexCommentsAreSkipped(t *testing.T) {
	src := "// a line comment\nlet /* inline */ a: int = 1;\n"
	tokens, err := Lex(src)
	require.NoError(t, err)
	require.Equal(t, KW_LET, tokens[0].Kind)
}

func TestLexIncrementDecrementTokens(t *testing.T) {
	tokens, err := Lex("i++; j--;")
	require.NoError(t, err)
	require.Equal(t, INC, tokens[1].Kind)
	require.Equal(t, DEC, tokens[4].Kind)
}

func TestLexUnterminatedStringIsAnError(t *testing.T) {
	_, err := Lex(`"unterminated`)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestLexUnrecognizedCharacterIsAnError(t *testing.T) {
	_, err := Lex("@")
	require.Error(t, err)
}
