package interp

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/cfront/compiler"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/types"
	"gopkg.in/yaml.v3"
)

type scenario struct {
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	Result       int64  `yaml:"result"`
	RuntimeError string `yaml:"runtime_error"`
}

type scenarioFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

func TestScenarios(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)
	var file scenarioFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Scenarios)

	for _, sc := range file.Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			unit, err := compiler.CompileSource("test.c", sc.Source)
			require.NoError(t, err)

			in := New(unit.IR, unit.Table, Options{MaxSteps: 1000000})
			got, err := in.Call("main")
			if sc.RuntimeError != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), sc.RuntimeError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, sc.Result, got.Int64())
		})
	}
}

func TestRunUsesMain(t *testing.T) {
	unit, err := compiler.CompileSource("test.c", "int main(void) { return 100; }")
	require.NoError(t, err)

	got, err := Run(unit.IR, unit.Table)
	require.NoError(t, err)
	require.True(t, got.Equal(types.ConstInt(100)))
}

func TestRuntimeErrorsAreSentinels(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"int main(void) { int z = 0; return 5 % z; }", ErrDivisionByZero},
		{"int main(void) { int *p = 0; *p = 1; return 0; }", ErrNullPointer},
		{"int main(void) { while (1) ; return 0; }", ErrStepLimit},
		{"int f(int n) { return f(n + 1); } int main(void) { return f(0); }", ErrDepthLimit},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			unit, err := compiler.CompileSource("test.c", tt.src)
			require.NoError(t, err)
			_, err = New(unit.IR, unit.Table, Options{MaxSteps: 100000, MaxDepth: 200}).Call("main")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCallWithArguments(t *testing.T) {
	unit, err := compiler.CompileSource("test.c", "long mul(long a, long b) { return a * b; }")
	require.NoError(t, err)

	in := New(unit.IR, unit.Table, Options{})
	got, err := in.Call("mul", types.ConstLong(-6), types.ConstLong(7))
	require.NoError(t, err)
	require.Equal(t, int64(-42), got.Int64())
	require.Positive(t, in.Steps())

	_, err = in.Call("mul", types.ConstLong(1))
	require.ErrorContains(t, err, "takes 2 arguments")
	_, err = in.Call("missing")
	require.ErrorContains(t, err, "undefined function missing")
}

func TestUndefinedExternVariable(t *testing.T) {
	unit, err := compiler.CompileSource("test.c", "extern int e; int main(void) { return e; }")
	require.NoError(t, err)
	_, err = Run(unit.IR, unit.Table)
	require.ErrorContains(t, err, "undefined reference to e")
}

func TestStaticsPersistAcrossCalls(t *testing.T) {
	unit, err := compiler.CompileSource("test.c", "int n; int bump(void) { n = n + 1; return n; }")
	require.NoError(t, err)

	in := New(unit.IR, unit.Table, Options{})
	for want := int64(1); want <= 3; want++ {
		got, err := in.Call("bump")
		require.NoError(t, err)
		require.Equal(t, want, got.Int64())
	}
}

// Hand-built IR exercises each conversion opcode on its own.
func TestConversionOpcodes(t *testing.T) {
	table := symbols.NewTable()
	tests := []struct {
		kind ir.ConvKind
		src  types.Const
		dst  types.Type
		want types.Const
	}{
		{ir.SignExtend, types.ConstInt(-1), types.LongT, types.ConstLong(-1)},
		{ir.ZeroExtend, types.ConstUInt(4294967295), types.LongT, types.ConstLong(4294967295)},
		{ir.ZeroExtend, types.ConstInt(-1), types.ULongT, types.ConstULong(4294967295)},
		{ir.Truncate, types.ConstLong(4294967298), types.IntT, types.ConstInt(2)},
		{ir.Truncate, types.ConstULong(1 << 32), types.UIntT, types.ConstUInt(0)},
		{ir.DoubleToInt, types.ConstDouble(-3.9), types.IntT, types.ConstInt(-3)},
		{ir.DoubleToUInt, types.ConstDouble(4294967295.0), types.UIntT, types.ConstUInt(4294967295)},
		{ir.DoubleToUInt, types.ConstDouble(1e19), types.ULongT, types.ConstULong(10000000000000000000)},
		{ir.IntToDouble, types.ConstLong(-2), types.DoubleT, types.ConstDouble(-2)},
		{ir.UIntToDouble, types.ConstULong(1 << 63), types.DoubleT, types.ConstDouble(9223372036854775808.0)},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+" "+tt.src.String(), func(t *testing.T) {
			dst := table.Unique("tmp")
			table.Add(dst, tt.dst, symbols.LocalAttr{})
			prog := &ir.Program{Items: []ir.TopLevel{&ir.Function{
				Name:   "main",
				Global: true,
				Body: []ir.Instruction{
					&ir.Convert{Kind: tt.kind, Src: ir.Constant{Value: tt.src}, Dst: ir.Var{Name: dst}},
					&ir.Return{Val: ir.Var{Name: dst}},
				},
				Temps: []string{dst},
			}}}
			require.NoError(t, ir.Validate(prog))

			got, err := Run(prog, table)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}
