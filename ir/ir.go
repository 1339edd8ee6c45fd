// Package ir defines the three-address intermediate representation produced
// by lowering: flat instruction lists per function, explicit conversions and
// labeled jumps.
package ir

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/thiremani/cfront/types"
)

// Val is an instruction operand: a Constant or a Var.
type Val interface {
	val()
	String() string
}

type Constant struct {
	Value types.Const
}

type Var struct {
	Name string
}

func (Constant) val()             {}
func (Var) val()                  {}
func (c Constant) String() string { return c.Value.String() }
func (v Var) String() string      { return v.Name }

type UnaryOp int

const (
	Complement UnaryOp = iota
	Negate
	Not
)

var unaryNames = [...]string{Complement: "not", Negate: "neg", Not: "lnot"}

func (op UnaryOp) String() string { return unaryNames[op] }

type BinaryOp int

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Remainder
	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight
	Equal
	NotEqual
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

var binaryNames = [...]string{
	Add:            "add",
	Subtract:       "sub",
	Multiply:       "mul",
	Divide:         "div",
	Remainder:      "rem",
	BitAnd:         "and",
	BitOr:          "or",
	BitXor:         "xor",
	ShiftLeft:      "shl",
	ShiftRight:     "shr",
	Equal:          "eq",
	NotEqual:       "ne",
	LessThan:       "lt",
	LessOrEqual:    "le",
	GreaterThan:    "gt",
	GreaterOrEqual: "ge",
}

func (op BinaryOp) String() string { return binaryNames[op] }

func (op BinaryOp) IsComparison() bool {
	return op >= Equal
}

// Instruction is one three-address instruction.
type Instruction interface {
	instruction()
	String() string
}

type Return struct {
	Val Val
}

type Unary struct {
	Op  UnaryOp
	Src Val
	Dst Var
}

type Binary struct {
	Op    BinaryOp
	Left  Val
	Right Val
	Dst   Var
}

type Copy struct {
	Src Val
	Dst Var
}

type Jump struct {
	Target string
}

type JumpIfZero struct {
	Cond   Val
	Target string
}

type JumpIfNotZero struct {
	Cond   Val
	Target string
}

type Label struct {
	Name string
}

type FunCall struct {
	Name string
	Args []Val
	Dst  Var
}

// ConvKind names a conversion opcode.
type ConvKind int

const (
	SignExtend ConvKind = iota
	ZeroExtend
	Truncate
	DoubleToInt
	DoubleToUInt
	IntToDouble
	UIntToDouble
)

var convNames = [...]string{
	SignExtend:   "sext",
	ZeroExtend:   "zext",
	Truncate:     "trunc",
	DoubleToInt:  "d2i",
	DoubleToUInt: "d2u",
	IntToDouble:  "i2d",
	UIntToDouble: "u2d",
}

func (k ConvKind) String() string { return convNames[k] }

// Convert is one of the conversion opcodes. The destination's declared
// type is the target type.
type Convert struct {
	Kind ConvKind
	Src  Val
	Dst  Var
}

type GetAddress struct {
	Src Var
	Dst Var
}

type Load struct {
	Ptr Val
	Dst Var
}

type Store struct {
	Src Val
	Ptr Val
}

func (*Return) instruction()        {}
func (*Unary) instruction()         {}
func (*Binary) instruction()        {}
func (*Copy) instruction()          {}
func (*Jump) instruction()          {}
func (*JumpIfZero) instruction()    {}
func (*JumpIfNotZero) instruction() {}
func (*Label) instruction()         {}
func (*FunCall) instruction()       {}
func (*Convert) instruction()       {}
func (*GetAddress) instruction()    {}
func (*Load) instruction()          {}
func (*Store) instruction()         {}

func (i *Return) String() string        { return "return " + i.Val.String() }
func (i *Unary) String() string         { return fmt.Sprintf("%s = %s %s", i.Dst, i.Op, i.Src) }
func (i *Binary) String() string        { return fmt.Sprintf("%s = %s %s, %s", i.Dst, i.Op, i.Left, i.Right) }
func (i *Copy) String() string          { return fmt.Sprintf("%s = %s", i.Dst, i.Src) }
func (i *Jump) String() string          { return "jump " + i.Target }
func (i *JumpIfZero) String() string    { return fmt.Sprintf("jz %s, %s", i.Cond, i.Target) }
func (i *JumpIfNotZero) String() string { return fmt.Sprintf("jnz %s, %s", i.Cond, i.Target) }
func (i *Label) String() string         { return i.Name + ":" }
func (i *Convert) String() string       { return fmt.Sprintf("%s = %s %s", i.Dst, i.Kind, i.Src) }
func (i *GetAddress) String() string    { return fmt.Sprintf("%s = &%s", i.Dst, i.Src) }
func (i *Load) String() string          { return fmt.Sprintf("%s = load %s", i.Dst, i.Ptr) }
func (i *Store) String() string         { return fmt.Sprintf("store %s, %s", i.Src, i.Ptr) }
func (i *FunCall) String() string {
	args := make([]string, len(i.Args))
	for j, a := range i.Args {
		args[j] = a.String()
	}
	return fmt.Sprintf("%s = call %s(%s)", i.Dst, i.Name, strings.Join(args, ", "))
}

// Dest returns the variable an instruction writes, if any. Store writes
// through a pointer and reports false.
func Dest(instr Instruction) (Var, bool) {
	switch i := instr.(type) {
	case *Unary:
		return i.Dst, true
	case *Binary:
		return i.Dst, true
	case *Copy:
		return i.Dst, true
	case *FunCall:
		return i.Dst, true
	case *Convert:
		return i.Dst, true
	case *GetAddress:
		return i.Dst, true
	case *Load:
		return i.Dst, true
	}
	return Var{}, false
}

// Sources returns the operands an instruction reads.
func Sources(instr Instruction) []Val {
	switch i := instr.(type) {
	case *Return:
		return []Val{i.Val}
	case *Unary:
		return []Val{i.Src}
	case *Binary:
		return []Val{i.Left, i.Right}
	case *Copy:
		return []Val{i.Src}
	case *JumpIfZero:
		return []Val{i.Cond}
	case *JumpIfNotZero:
		return []Val{i.Cond}
	case *FunCall:
		return i.Args
	case *Convert:
		return []Val{i.Src}
	case *GetAddress:
		return []Val{i.Src}
	case *Load:
		return []Val{i.Ptr}
	case *Store:
		return []Val{i.Src, i.Ptr}
	}
	return nil
}

// TopLevel is a Function or a StaticVariable.
type TopLevel interface {
	topLevel()
	String() string
}

type Function struct {
	Name   string
	Global bool
	Params []string
	Body   []Instruction
	Temps  []string // temporaries in allocation order
}

type StaticVariable struct {
	Name   string
	Global bool
	Type   types.Type
	Init   types.Const
}

func (*Function) topLevel()       {}
func (*StaticVariable) topLevel() {}

func linkage(global bool) string {
	if global {
		return "global"
	}
	return "internal"
}

func (f *Function) String() string {
	var out bytes.Buffer

	fmt.Fprintf(&out, "%s function %s(%s) {\n", linkage(f.Global), f.Name, strings.Join(f.Params, ", "))
	for _, instr := range f.Body {
		if _, ok := instr.(*Label); ok {
			out.WriteString(instr.String())
		} else {
			out.WriteString("    ")
			out.WriteString(instr.String())
		}
		out.WriteString("\n")
	}
	out.WriteString("}")

	return out.String()
}

func (s *StaticVariable) String() string {
	return fmt.Sprintf("%s static %s %s = %s", linkage(s.Global), s.Type, s.Name, s.Init)
}

// Program is a lowered translation unit: functions in source order followed
// by static variables.
type Program struct {
	Items []TopLevel
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, item := range p.Items {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(item.String())
		out.WriteString("\n")
	}

	return out.String()
}

// Function looks up a function by name.
func (p *Program) Function(name string) (*Function, bool) {
	for _, item := range p.Items {
		if fn, ok := item.(*Function); ok && fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Statics returns the static variables in emission order.
func (p *Program) Statics() []*StaticVariable {
	var out []*StaticVariable
	for _, item := range p.Items {
		if sv, ok := item.(*StaticVariable); ok {
			out = append(out, sv)
		}
	}
	return out
}
