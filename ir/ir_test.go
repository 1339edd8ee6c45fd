package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/cfront/types"
)

func c(v int32) Constant { return Constant{Value: types.ConstInt(v)} }

func TestInstructionStrings(t *testing.T) {
	tests := []struct {
		instr    Instruction
		expected string
	}{
		{&Return{Val: c(0)}, "return 0"},
		{&Unary{Op: Negate, Src: Var{"x.0"}, Dst: Var{"tmp.1"}}, "tmp.1 = neg x.0"},
		{&Binary{Op: Add, Left: Var{"a.0"}, Right: c(1), Dst: Var{"tmp.2"}}, "tmp.2 = add a.0, 1"},
		{&Copy{Src: Constant{Value: types.ConstLong(5)}, Dst: Var{"l.3"}}, "l.3 = 5l"},
		{&Jump{Target: "loop.4.start"}, "jump loop.4.start"},
		{&JumpIfZero{Cond: Var{"tmp.2"}, Target: "if.5.else"}, "jz tmp.2, if.5.else"},
		{&JumpIfNotZero{Cond: Var{"tmp.2"}, Target: "or.6.true"}, "jnz tmp.2, or.6.true"},
		{&Label{Name: "end.main"}, "end.main:"},
		{&FunCall{Name: "f", Args: []Val{c(1), Var{"x.0"}}, Dst: Var{"tmp.7"}}, "tmp.7 = call f(1, x.0)"},
		{&FunCall{Name: "g", Dst: Var{"tmp.8"}}, "tmp.8 = call g()"},
		{&Convert{Kind: SignExtend, Src: Var{"x.0"}, Dst: Var{"tmp.9"}}, "tmp.9 = sext x.0"},
		{&Convert{Kind: UIntToDouble, Src: Var{"u.1"}, Dst: Var{"tmp.9"}}, "tmp.9 = u2d u.1"},
		{&GetAddress{Src: Var{"x.0"}, Dst: Var{"tmp.10"}}, "tmp.10 = &x.0"},
		{&Load{Ptr: Var{"tmp.10"}, Dst: Var{"tmp.11"}}, "tmp.11 = load tmp.10"},
		{&Store{Src: c(3), Ptr: Var{"tmp.10"}}, "store 3, tmp.10"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.instr.String())
	}
}

func TestProgramString(t *testing.T) {
	prog := &Program{Items: []TopLevel{
		&Function{
			Name:   "main",
			Global: true,
			Body: []Instruction{
				&Label{Name: "start.main"},
				&Return{Val: Var{"x"}},
			},
		},
		&StaticVariable{Name: "x", Global: false, Type: types.LongT, Init: types.ConstLong(2)},
	}}

	expected := `global function main() {
start.main:
    return x
}

internal static long x = 2l
`
	require.Equal(t, expected, prog.String())

	fn, ok := prog.Function("main")
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
	_, ok = prog.Function("x")
	require.False(t, ok)
	require.Len(t, prog.Statics(), 1)
}

func TestValidate(t *testing.T) {
	good := &Function{
		Name:  "main",
		Temps: []string{"tmp.0"},
		Body: []Instruction{
			&Binary{Op: LessThan, Left: c(1), Right: c(2), Dst: Var{"tmp.0"}},
			&JumpIfZero{Cond: Var{"tmp.0"}, Target: "l"},
			&Label{Name: "l"},
			&Return{Val: Var{"tmp.0"}},
		},
	}
	require.NoError(t, Validate(&Program{Items: []TopLevel{good}}))

	tests := []struct {
		name string
		fn   *Function
		msg  string
	}{
		{
			"missing return",
			&Function{Name: "f", Body: []Instruction{&Label{Name: "l"}}},
			"instead of a return",
		},
		{
			"missing label",
			&Function{Name: "f", Body: []Instruction{&Jump{Target: "nowhere"}, &Return{Val: c(0)}}},
			"missing label nowhere",
		},
		{
			"duplicate label",
			&Function{Name: "f", Body: []Instruction{&Label{Name: "l"}, &Label{Name: "l"}, &Return{Val: c(0)}}},
			"duplicate label l",
		},
		{
			"temp redefined",
			&Function{Name: "f", Temps: []string{"tmp.0"}, Body: []Instruction{
				&Copy{Src: c(1), Dst: Var{"tmp.0"}},
				&Copy{Src: c(2), Dst: Var{"tmp.0"}},
				&Return{Val: Var{"tmp.0"}},
			}},
			"redefines tmp.0",
		},
		{
			"temp read early",
			&Function{Name: "f", Temps: []string{"tmp.0"}, Body: []Instruction{
				&Return{Val: Var{"tmp.0"}},
			}},
			"reads tmp.0 before it is written",
		},
		{
			"empty",
			&Function{Name: "f"},
			"empty body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&Program{Items: []TopLevel{tt.fn}})
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
			require.Contains(t, err.Error(), "function f")
		})
	}

	dup := &Program{Items: []TopLevel{
		&StaticVariable{Name: "x", Type: types.IntT, Init: types.ConstInt(0)},
		&StaticVariable{Name: "x", Type: types.IntT, Init: types.ConstInt(0)},
	}}
	require.ErrorContains(t, Validate(dup), "duplicate top-level item x")
}

func TestUserVariablesMayBeReassigned(t *testing.T) {
	fn := &Function{Name: "main", Body: []Instruction{
		&Copy{Src: c(1), Dst: Var{"tmp.3"}},
		&Copy{Src: c(2), Dst: Var{"tmp.3"}},
		&Return{Val: Var{"tmp.3"}},
	}}
	// tmp.3 here is a user variable named tmp, not a temporary
	require.NoError(t, Validate(&Program{Items: []TopLevel{fn}}))
}
