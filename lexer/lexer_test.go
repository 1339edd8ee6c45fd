package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/cfront/token"
)

type Test struct {
	expectedType    token.TokenType
	expectedLiteral string
}

func checkInput(t *testing.T, input string, tests []Test) {
	l := New("test.c", input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `static long add(int x, unsigned long y) {
    // line comment
    return x + y; /* block
    comment */
}
int main(void) {
    x <<= 2; y >>= 1; a && b || !c;
    p->q; i++; --j; a ? b : c;
    goto end; end: ;
}`

	tests := []Test{
		{token.KW_STATIC, "static"},
		{token.KW_LONG, "long"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.KW_INT, "int"},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.KW_UNSIGNED, "unsigned"},
		{token.KW_LONG, "long"},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.KW_RETURN, "return"},
		{token.IDENT, "x"},
		{token.ADD, "+"},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.KW_INT, "int"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.KW_VOID, "void"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.SHL_ASSIGN, "<<="},
		{token.INT, "2"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "y"},
		{token.SHR_ASSIGN, ">>="},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.LAND, "&&"},
		{token.IDENT, "b"},
		{token.LOR, "||"},
		{token.NOT, "!"},
		{token.IDENT, "c"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "p"},
		{token.SUB, "-"},
		{token.GTR, ">"},
		{token.IDENT, "q"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "i"},
		{token.INC, "++"},
		{token.SEMICOLON, ";"},
		{token.DEC, "--"},
		{token.IDENT, "j"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.QUESTION, "?"},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.IDENT, "c"},
		{token.SEMICOLON, ";"},
		{token.KW_GOTO, "goto"},
		{token.IDENT, "end"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "end"},
		{token.COLON, ":"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	checkInput(t, input, tests)
}

func TestConstantKinds(t *testing.T) {
	tests := []struct {
		input    string
		expected token.TokenType
	}{
		{"0", token.INT},
		{"2147483647", token.INT},
		{"2147483648", token.LONG},
		{"9223372036854775807", token.LONG},
		{"9223372036854775808", token.ILLEGAL},
		{"100l", token.LONG},
		{"100L", token.LONG},
		{"9223372036854775808l", token.ILLEGAL},
		{"2147483648u", token.UINT},
		{"4294967295u", token.UINT},
		{"4294967296u", token.ULONG},
		{"18446744073709551615U", token.ULONG},
		{"18446744073709551616u", token.ILLEGAL},
		{"1ul", token.ULONG},
		{"1LU", token.ULONG},
		{"1uu", token.ILLEGAL},
		{"1.0", token.DOUBLE},
		{"1.", token.DOUBLE},
		{".5", token.DOUBLE},
		{"1e10", token.DOUBLE},
		{"2.5E-3", token.DOUBLE},
		{"123abc", token.ILLEGAL},
		{"1.0x", token.ILLEGAL},
	}

	for _, tt := range tests {
		tok := New("consts.c", tt.input).NextToken()
		require.Equal(t, tt.expected, tok.Type, "input %q", tt.input)
		if tt.expected != token.ILLEGAL {
			require.Equal(t, tt.input, tok.Literal)
		}
	}
}

func TestExponentNeedsDigits(t *testing.T) {
	// "1e" is not a complete float, so the constant stops before the e.
	checkInput(t, "1e+x", []Test{
		{token.ILLEGAL, "1e"},
	})
}

func TestPositions(t *testing.T) {
	toks := Tokenize("pos.c", "int x;\n  return 0;")
	require.Len(t, toks, 7)
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Column)
	require.Equal(t, 5, toks[1].Column)
	require.Equal(t, 2, toks[3].Line)
	require.Equal(t, 3, toks[3].Column)
	require.Equal(t, "pos.c", toks[3].FileName)
	require.Equal(t, token.EOF, toks[6].Type)
}

func TestIllegalCharacterStopsTokenize(t *testing.T) {
	toks := Tokenize("bad.c", "int x = 3 @ 4;")
	last := toks[len(toks)-1]
	require.Equal(t, token.ILLEGAL, last.Type)
	require.Equal(t, "@", last.Literal)
}
