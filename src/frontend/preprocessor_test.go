package frontend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeFileReader serves in-memory file contents for #include tests without
// touching disk.
type fakeFileReader struct {
	files map[string]string
}

func (f fakeFileReader) ReadFile(path string) ([]byte, error) {
	s, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(s), nil
}

func (f fakeFileReader) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func tokenTexts(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == EOF {
			continue
		}
		out = append(out, tok.Text)
	}
	return out
}

func TestPreprocessFixpointOnPlainSource(t *testing.T) {
	src := "fn main() -> int { return 0; }"
	tokens, err := Lex(src)
	require.NoError(t, err)

	out, err := Preprocess(tokens, OSFileReader, nil, Native)
	require.NoError(t, err)

	require.Equal(t, tokenTexts(tokens), tokenTexts(out))
}

func TestPreprocessMacroSubstitution(t *testing.T) {
	src := "#define WIDTH 640\nlet w: int = WIDTH;"
	tokens, err := Lex(src)
	require.NoError(t, err)

	out, err := Preprocess(tokens, OSFileReader, nil, Native)
	require.NoError(t, err)

	var sawLit bool
	for _, tok := range out {
		if tok.Kind == INT_LIT && tok.Text == "640" {
			sawLit = true
		}
		require.NotEqual(t, "WIDTH", tok.Text)
	}
	require.True(t, sawLit)
}

func TestPreprocessConditionalSelectsBranch(t *testing.T) {
	src := "#if defined(__linux__)\nlet a: int = 1;\n#else\nlet a: int = 2;\n#endif\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	out, err := Preprocess(tokens, OSFileReader, nil, Native)
	require.NoError(t, err)

	var sawOne, sawTwo bool
	for _, tok := range out {
		if tok.Kind == INT_LIT && tok.Text == "1" {
			sawOne = true
		}
		if tok.Kind == INT_LIT && tok.Text == "2" {
			sawTwo = true
		}
	}
	require.True(t, sawOne)
	require.False(t, sawTwo)
}

func TestPreprocessConditionalOnUndefinedMacro(t *testing.T) {
	src := "#if defined(_NOPE_NOT_DEFINED)\nexternal void a();\n#else\nexternal void b();\n#endif\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	out, err := Preprocess(tokens, OSFileReader, nil, Native)
	require.NoError(t, err)

	var names []string
	for _, tok := range out {
		if tok.Kind == IDENTIFIER {
			names = append(names, tok.Text)
		}
	}
	require.Contains(t, names, "b")
	require.NotContains(t, names, "a")
}

func TestPreprocessInclude(t *testing.T) {
	fr := fakeFileReader{files: map[string]string{
		"inc/shared.dlt": "external void shared();\n",
	}}
	src := "#include <shared>\nfn main() -> int { return 0; }"
	tokens, err := Lex(src)
	require.NoError(t, err)

	out, err := Preprocess(tokens, fr, []string{"inc"}, Native)
	require.NoError(t, err)

	require.Contains(t, tokenTexts(out), "shared")
}

func TestPreprocessMissingIncludeIsAnError(t *testing.T) {
	src := "#include <nope>\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	_, err = Preprocess(tokens, fakeFileReader{files: map[string]string{}}, nil, Native)
	require.Error(t, err)
	var perr *PreprocError
	require.ErrorAs(t, err, &perr)
}

func TestPreprocessUnbalancedIfIsAnError(t *testing.T) {
	src := "#if defined(_DLT_CC)\nlet a: int = 1;\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	_, err = Preprocess(tokens, OSFileReader, nil, Native)
	require.Error(t, err)
}

func TestPreprocessPlatformMacrosAreDefined(t *testing.T) {
	src := "#if defined(_DLT_CC)\nlet ok: int = 1;\n#endif\n"
	tokens, err := Lex(src)
	require.NoError(t, err)

	out, err := Preprocess(tokens, OSFileReader, nil, Native)
	require.NoError(t, err)
	require.Contains(t, tokenTexts(out), "ok")
}
