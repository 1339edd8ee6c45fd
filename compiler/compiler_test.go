package compiler

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/token"
	"gopkg.in/yaml.v3"
)

// loweringCase is one entry of testdata/lowering.yaml.
type loweringCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	IR     string `yaml:"ir"`
	Error  string `yaml:"error"`
}

type loweringFile struct {
	Tests []loweringCase `yaml:"tests"`
}

func loadLoweringCases(t *testing.T) []loweringCase {
	t.Helper()
	data, err := os.ReadFile("testdata/lowering.yaml")
	require.NoError(t, err)

	var file loweringFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Tests)
	return file.Tests
}

func mustCompile(t *testing.T, src string) *Unit {
	t.Helper()
	unit, err := CompileSource("test.c", src)
	require.NoError(t, err)
	return unit
}

func TestLoweringFixtures(t *testing.T) {
	for _, tc := range loadLoweringCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			unit, err := CompileSource("test.c", tc.Source)
			if tc.Error != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.Error)
				var ce *token.CompileError
				require.ErrorAs(t, err, &ce)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.IR, unit.IR.String())
		})
	}
}

// Every fixture that compiles keeps the structural guarantees of the IR.
func TestLoweringInvariants(t *testing.T) {
	for _, tc := range loadLoweringCases(t) {
		if tc.Error != "" {
			continue
		}
		t.Run(tc.Name, func(t *testing.T) {
			unit := mustCompile(t, tc.Source)
			require.NoError(t, ir.Validate(unit.IR))

			for _, fn := range functions(unit.IR) {
				labels := map[string]bool{}
				for _, instr := range fn.Body {
					if l, ok := instr.(*ir.Label); ok {
						labels[l.Name] = true
					}
				}
				defs := map[string]int{}
				for _, instr := range fn.Body {
					switch i := instr.(type) {
					case *ir.Jump:
						require.True(t, labels[i.Target], "jump to %s", i.Target)
					case *ir.JumpIfZero:
						require.True(t, labels[i.Target], "jz to %s", i.Target)
					case *ir.JumpIfNotZero:
						require.True(t, labels[i.Target], "jnz to %s", i.Target)
					}
					if dst, ok := ir.Dest(instr); ok {
						defs[dst.Name]++
					}
				}
				for _, tmp := range fn.Temps {
					require.Equal(t, 1, defs[tmp], "%s in %s", tmp, fn.Name)
					_, ok := unit.Table.Get(tmp)
					require.True(t, ok, "%s missing from the symbol table", tmp)
				}
				_, ok := fn.Body[len(fn.Body)-1].(*ir.Return)
				require.True(t, ok)
			}

			requireStaticsMatchTable(t, unit)
		})
	}
}

func requireStaticsMatchTable(t *testing.T, unit *Unit) {
	t.Helper()
	want := map[string]bool{}
	for _, sym := range unit.Table.Symbols() {
		attr, ok := sym.Attrs.(symbols.StaticAttr)
		if ok && attr.Init.Kind != symbols.NoInitializer {
			want[sym.Name] = true
		}
	}
	got := map[string]bool{}
	for _, sv := range unit.IR.Statics() {
		got[sv.Name] = true
	}
	require.Equal(t, want, got)
}

func functions(prog *ir.Program) []*ir.Function {
	var out []*ir.Function
	for _, item := range prog.Items {
		if fn, ok := item.(*ir.Function); ok {
			out = append(out, fn)
		}
	}
	return out
}

// conversions lists the conversion opcodes in fn, with a Copy into a
// temporary reported as -1.
func conversions(fn *ir.Function) []ir.ConvKind {
	temps := map[string]bool{}
	for _, tmp := range fn.Temps {
		temps[tmp] = true
	}
	var out []ir.ConvKind
	for _, instr := range fn.Body {
		switch i := instr.(type) {
		case *ir.Convert:
			out = append(out, i.Kind)
		case *ir.Copy:
			if temps[i.Dst.Name] {
				out = append(out, -1)
			}
		}
	}
	return out
}

func TestCastOpcodes(t *testing.T) {
	tests := []struct {
		src      string
		expected []ir.ConvKind
	}{
		{"int f(long l) { return (int)l; }", []ir.ConvKind{ir.Truncate}},
		{"long f(int i) { return (long)i; }", []ir.ConvKind{ir.SignExtend}},
		{"long f(unsigned int u) { return (long)u; }", []ir.ConvKind{ir.ZeroExtend}},
		{"unsigned long f(int i) { return (unsigned long)i; }", []ir.ConvKind{ir.SignExtend}},
		{"unsigned int f(int i) { return (unsigned int)i; }", []ir.ConvKind{-1}},
		{"long f(unsigned long u) { return (long)u; }", []ir.ConvKind{-1}},
		{"int f(double d) { return (int)d; }", []ir.ConvKind{ir.DoubleToInt}},
		{"unsigned long f(double d) { return (unsigned long)d; }", []ir.ConvKind{ir.DoubleToUInt}},
		{"double f(long l) { return (double)l; }", []ir.ConvKind{ir.IntToDouble}},
		{"double f(unsigned int u) { return (double)u; }", []ir.ConvKind{ir.UIntToDouble}},
		{"int *f(int i) { return (int *)i; }", []ir.ConvKind{ir.ZeroExtend}},
		{"int *f(long l) { return (int *)l; }", []ir.ConvKind{-1}},
		{"int f(int *p) { return (int)p; }", []ir.ConvKind{ir.Truncate}},
		{"long *f(int *p) { return (long *)p; }", []ir.ConvKind{-1}},
		{"int f(int i) { return (int)i; }", nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			unit := mustCompile(t, tt.src)
			fn, ok := unit.IR.Function("f")
			require.True(t, ok)
			require.Equal(t, tt.expected, conversions(fn))
		})
	}
}

func TestCompoundAssignmentEvaluatesTargetOnce(t *testing.T) {
	src := `
int i = 0;
int *print_A(void) { return &i; }
int main(void) {
    *print_A() += 5;
    (*print_A())++;
    --*print_A();
    return i;
}
`
	unit := mustCompile(t, src)
	main, ok := unit.IR.Function("main")
	require.True(t, ok)

	calls := 0
	for _, instr := range main.Body {
		if call, ok := instr.(*ir.FunCall); ok {
			require.Equal(t, "print_A", call.Name)
			calls++
		}
	}
	require.Equal(t, 3, calls)
}

func TestCompoundShiftKeepsLeftType(t *testing.T) {
	unit := mustCompile(t, "int main(void) { long x = 1l; x <<= 3; return 0; }")
	main, _ := unit.IR.Function("main")
	require.Equal(t, []string{
		"x.0 = 1l",
		"tmp.1 = shl x.0, 3",
		"x.0 = tmp.1",
		"return 0",
		"return 0",
	}, instrStrings(main))
}

func TestTemporariesAreLocals(t *testing.T) {
	unit := mustCompile(t, "int main(void) { int a = 2; return a * 3 + 1; }")
	main, _ := unit.IR.Function("main")
	require.Equal(t, []string{"tmp.1", "tmp.2"}, main.Temps)

	for _, name := range main.Temps {
		sym, ok := unit.Table.Get(name)
		require.True(t, ok)
		require.Equal(t, "int", sym.Type.String())
		require.IsType(t, symbols.LocalAttr{}, sym.Attrs)
	}
}

func TestUserVariableNamedTmp(t *testing.T) {
	unit := mustCompile(t, "int main(void) { int tmp = 1; tmp = tmp + 1; tmp = tmp + 1; return tmp; }")
	main, _ := unit.IR.Function("main")
	require.NotContains(t, main.Temps, "tmp.0")
	require.NoError(t, ir.Validate(unit.IR))
}

func TestParamsAreResolvedNames(t *testing.T) {
	unit := mustCompile(t, "int add(int a, int b) { return a + b; }")
	fn, _ := unit.IR.Function("add")
	require.Equal(t, []string{"a.0", "b.1"}, fn.Params)
	require.Equal(t, []string{"tmp.2 = add a.0, b.1", "return tmp.2", "return 0"}, instrStrings(fn))
}

func TestFunctionDeclarationsProduceNoCode(t *testing.T) {
	unit := mustCompile(t, `
int f(int x);
int main(void) {
    int g(void);
    extern int e;
    return 0;
}
`)
	require.Len(t, unit.IR.Items, 1)
	_, ok := unit.IR.Function("f")
	require.False(t, ok)
}

func instrStrings(fn *ir.Function) []string {
	out := make([]string, len(fn.Body))
	for i, instr := range fn.Body {
		out[i] = instr.String()
	}
	return out
}
