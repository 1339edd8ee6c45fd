package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/lexer"
	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

func checkParserErrors(t *testing.T, p *Parser) {
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, err := range errors {
		t.Errorf("parser error: %q", err.Error())
	}
	t.FailNow()
}

func parseProgram(t *testing.T, input string) *ast.Program {
	p := New(lexer.New("test.c", input))
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	require.NotNil(t, prog)
	return prog
}

func parseError(t *testing.T, input string) *token.CompileError {
	p := New(lexer.New("test.c", input))
	prog := p.ParseProgram()
	require.Nil(t, prog, "expected a syntax error for %q", input)
	require.Len(t, p.Errors(), 1)
	return p.Errors()[0]
}

// bodyItems parses input as the body of main and returns its block items.
func bodyItems(t *testing.T, body string) []ast.BlockItem {
	prog := parseProgram(t, "int main(void) {"+body+"}")
	require.Len(t, prog.Decls, 1)
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok, "expected function declaration, got %T", prog.Decls[0])
	require.NotNil(t, fd.Body)
	return fd.Body.Items
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a - b - c", "((a - b) - c)"},
		{"a = b = c", "(a = (b = c))"},
		{"a = b ? c : d", "(a = (b ? c : d))"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"a ? b = 1 : c", "(a ? (b = 1) : c)"},
		{"x += y << 2", "(x += (y << 2))"},
		{"x <<= y |= 3", "(x <<= (y |= 3))"},
		{"-~!x", "(-(~(!x)))"},
		{"+x", "x"},
		{"(long)x + 1", "(((long)x) + 1)"},
		{"(unsigned long *)p", "((unsigned long *)p)"},
		{"(int **)0", "((int * *)0)"},
		{"(double)(int)x", "((double)((int)x))"},
		{"*p++", "(*(p++))"},
		{"++*p", "(++(*p))"},
		{"&x", "(&x)"},
		{"x--", "(x--)"},
		{"f(1, x + 2)", "f(1, (x + 2))"},
		{"g()", "g()"},
		{"(a + b) * c", "((a + b) * c)"},
		{
			"a || b && c | d ^ e & f == g < h << i + j * k",
			"(a || (b && (c | (d ^ (e & (f == (g < (h << (i + (j * k))))))))))",
		},
		{"a != b >= c", "(a != (b >= c))"},
		{"1.5e3", "1500.0"},
		{"10ul", "10ul"},
		{"2147483648", "2147483648l"},
		{"4294967295u", "4294967295u"},
	}

	for _, tt := range tests {
		p := New(lexer.New("test.c", tt.input))
		exp := p.ParseExpression()
		checkParserErrors(t, p)
		require.NotNil(t, exp)
		require.Equal(t, tt.expected, exp.String(), "input %q", tt.input)
	}
}

func TestConstantTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected types.Const
	}{
		{"7", types.ConstInt(7)},
		{"2147483647", types.ConstInt(2147483647)},
		{"2147483648", types.ConstLong(2147483648)},
		{"5L", types.ConstLong(5)},
		{"5u", types.ConstUInt(5)},
		{"4294967296u", types.ConstULong(4294967296)},
		{"5lu", types.ConstULong(5)},
		{"0.25", types.ConstDouble(0.25)},
	}

	for _, tt := range tests {
		p := New(lexer.New("test.c", tt.input))
		exp := p.ParseExpression()
		checkParserErrors(t, p)
		c, ok := exp.(*ast.Constant)
		require.True(t, ok, "expected constant, got %T", exp)
		require.True(t, tt.expected.Equal(c.Value), "input %q: expected %s, got %s", tt.input, tt.expected, c.Value)
	}

	// out of range floating constants saturate rather than fail
	p := New(lexer.New("test.c", "1e400"))
	exp := p.ParseExpression()
	checkParserErrors(t, p)
	require.Equal(t, types.DoubleT, exp.(*ast.Constant).Value.Type)
}

func TestStreamSource(t *testing.T) {
	toks := []token.Token{
		{Type: token.IDENT, Literal: "a", Line: 1, Column: 1},
		{Type: token.MUL, Literal: "*", Line: 1, Column: 3},
		{Type: token.LONG, Literal: "5l", Line: 1, Column: 5},
	}
	p := New(token.NewStream(toks))
	exp := p.ParseExpression()
	checkParserErrors(t, p)
	require.Equal(t, "(a * 5l)", exp.String())

	p = New(token.NewStream([]token.Token{{Type: token.INT, Literal: "2147483648", Line: 1, Column: 1}}))
	require.Nil(t, p.ParseExpression())
	require.Len(t, p.Errors(), 1)
	require.Contains(t, p.Errors()[0].Msg, "too large for int")
}

func TestDeclarations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int main(void) { return 0; }", "int main(void) { return 0; }"},
		{"static long x = 3;", "static long x = 3;"},
		{"extern unsigned int *p;", "extern unsigned int * p;"},
		{"int (*fp);", "int * fp;"},
		{"long signed static int y;", "static long y;"},
		{"unsigned long int z;", "unsigned long z;"},
		{"signed s;", "int s;"},
		{"int add(int a, long *b);", "int add(int a, long * b);"},
		{"double f();", "double f(void);"},
		{"int *get(void);", "int * get(void);"},
		{"int **pp = 0;", "int * * pp = 0;"},
		{"extern double d(double x, unsigned u) { return x; }", "extern double d(double x, unsigned int u) { return x; }"},
	}

	for _, tt := range tests {
		prog := parseProgram(t, tt.input)
		require.Len(t, prog.Decls, 1)
		require.Equal(t, tt.expected+"\n", prog.String(), "input %q", tt.input)
	}
}

func TestFunctionType(t *testing.T) {
	prog := parseProgram(t, "long *pick(int a, double *(b), unsigned long c);")
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, fd.Params)
	expected := types.Func{
		Params: []types.Type{types.IntT, types.Pointer{Referenced: types.DoubleT}, types.ULongT},
		Ret:    types.Pointer{Referenced: types.LongT},
	}
	require.True(t, types.Equal(expected, fd.FuncType), "got %s", fd.FuncType)
	require.Nil(t, fd.Body)
	require.Equal(t, ast.NoStorage, fd.Storage)
}

func TestStatements(t *testing.T) {
	tests := []struct {
		body     string
		expected []string
	}{
		{"return 1 + 2;", []string{"return (1 + 2);"}},
		{"x = 1;;", []string{"(x = 1);", ";"}},
		{"if (a) b = 1; else if (c) b = 2;", []string{"if (a) (b = 1); else if (c) (b = 2);"}},
		{"if (a) if (b) return 1; else return 2;", []string{"if (a) if (b) return 1; else return 2;"}},
		{"while (x) x = x - 1;", []string{"while (x) (x = (x - 1));"}},
		{"do x++; while (x < 3);", []string{"do (x++); while ((x < 3));"}},
		{
			"for (int i = 0; i < 10; i++) { if (i) continue; else break; }",
			[]string{"for (int i = 0; (i < 10); (i++)) { if (i) continue; else break; }"},
		},
		{"for (;;) ;", []string{"for (;;) ;"}},
		{"for (i = 0; ; ) break;", []string{"for ((i = 0);;) break;"}},
		{
			"switch (x) { case 1: return 1; case -2: default: ; }",
			[]string{"switch (x) { case 1: return 1; case (-2): default: ; }"},
		},
		{"goto end; end: return 0;", []string{"goto end;", "end: return 0;"}},
		{"int a = 3; { static int b; a = b; }", []string{"int a = 3;", "{ static int b; (a = b); }"}},
		{"extern int f(int x); f(1);", []string{"extern int f(int x);", "f(1);"}},
	}

	for _, tt := range tests {
		items := bodyItems(t, tt.body)
		got := make([]string, len(items))
		for i, item := range items {
			got[i] = item.String()
		}
		require.Equal(t, tt.expected, got, "body %q", tt.body)
	}
}

func TestBlockScopeExternFunctionKeepsStorage(t *testing.T) {
	items := bodyItems(t, "extern int f(int x);")
	fd, ok := items[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, ast.Extern, fd.Storage)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"int main(void) { return 0 }", `expected ";" after return value, found "}"`},
		{"int x = 1 +;", `expected expression, found ";"`},
		{"signed unsigned x;", "both signed and unsigned"},
		{"long double x;", "double cannot be combined"},
		{"int int x;", `duplicate type specifier "int"`},
		{"static extern int x;", "more than one storage class"},
		{"void x;", "void is only allowed"},
		{"int f(void x);", "void is only allowed"},
		{"int (*f)(void);", "can't apply additional type derivations"},
		{"int f(static int a);", "storage class in parameter"},
		{"int main(void) { for (int g(void); ;) ; }", "expected variable declaration in for initializer"},
		{"int x = 1a;", `invalid token "1a"`},
		{"int main(void) { return 1;", `expected "}" to close block, found EOF`},
		{"int main(void) { int a = (static int)3; }", "expected expression"},
		{"int main(void) { goto 3; }", `expected "IDENT" after goto, found INT(3)`},
		{"int main(void) { x = a ? b; }", `expected ":" in conditional expression`},
		{"int main(void) { lbl: int y; }", "expected statement"},
		{"int main(void) { return (void)x; }", "casts to void are not supported"},
		{"x = 1;", "expected type specifier"},
	}

	for _, tt := range tests {
		err := parseError(t, tt.input)
		require.Equal(t, token.Syntax, err.Kind, "input %q", tt.input)
		require.Contains(t, err.Msg, tt.msg, "input %q", tt.input)
	}
}

func TestErrorPosition(t *testing.T) {
	err := parseError(t, "int main(void) {\n  return 0\n}")
	require.Equal(t, 3, err.Token.Line)
	require.Equal(t, 1, err.Token.Column)
	require.Equal(t, `Syntax: test.c:3:1: expected ";" after return value, found "}"`, err.Error())
}
