// Package types models the C type lattice: the four integer types, double,
// pointers and function types.
package types

import (
	"fmt"
	"strings"
)

type Kind int

const (
	IntKind Kind = iota
	LongKind
	UIntKind
	ULongKind
	DoubleKind
	PointerKind
	FuncKind
)

// Type is the interface for all C types.
type Type interface {
	String() string
	Kind() Kind
}

// Common concrete types. They are comparable values, so the arithmetic types
// can be compared with ==; use Equal for anything that may be derived.
var (
	IntT    Type = Int{}
	LongT   Type = Long{}
	UIntT   Type = UInt{}
	ULongT  Type = ULong{}
	DoubleT Type = Double{}
)

type Int struct{}

func (Int) String() string { return "int" }
func (Int) Kind() Kind     { return IntKind }

type Long struct{}

func (Long) String() string { return "long" }
func (Long) Kind() Kind     { return LongKind }

type UInt struct{}

func (UInt) String() string { return "unsigned int" }
func (UInt) Kind() Kind     { return UIntKind }

type ULong struct{}

func (ULong) String() string { return "unsigned long" }
func (ULong) Kind() Kind     { return ULongKind }

type Double struct{}

func (Double) String() string { return "double" }
func (Double) Kind() Kind     { return DoubleKind }

// Pointer is a pointer to Referenced.
type Pointer struct {
	Referenced Type
}

func (p Pointer) String() string { return p.Referenced.String() + " *" }
func (p Pointer) Kind() Kind     { return PointerKind }

// Func is a function type. Functions never appear as operand types.
type Func struct {
	Params []Type
	Ret    Type
}

func (f Func) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	return fmt.Sprintf("%s (%s)", f.Ret, strings.Join(params, ", "))
}

func (f Func) Kind() Kind { return FuncKind }

// Equal performs structural equality on types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case PointerKind:
		return Equal(a.(Pointer).Referenced, b.(Pointer).Referenced)
	case FuncKind:
		af, bf := a.(Func), b.(Func)
		if len(af.Params) != len(bf.Params) || !Equal(af.Ret, bf.Ret) {
			return false
		}
		for i := range af.Params {
			if !Equal(af.Params[i], bf.Params[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// Size returns the size in bytes. Function types have no size.
func Size(t Type) int {
	switch t.Kind() {
	case IntKind, UIntKind:
		return 4
	case LongKind, ULongKind, DoubleKind, PointerKind:
		return 8
	}
	panic("types.Size: no size for " + t.String())
}

// IsSigned reports whether t is a signed integer type.
func IsSigned(t Type) bool {
	k := t.Kind()
	return k == IntKind || k == LongKind
}

func IsInteger(t Type) bool {
	switch t.Kind() {
	case IntKind, LongKind, UIntKind, ULongKind:
		return true
	}
	return false
}

func IsArithmetic(t Type) bool {
	return IsInteger(t) || t.Kind() == DoubleKind
}

func IsPointer(t Type) bool {
	return t.Kind() == PointerKind
}

// IsScalar reports whether t can be tested against zero.
func IsScalar(t Type) bool {
	return IsArithmetic(t) || IsPointer(t)
}

// CommonType applies the usual arithmetic conversions to two arithmetic types.
func CommonType(a, b Type) Type {
	switch {
	case a.Kind() == DoubleKind || b.Kind() == DoubleKind:
		return DoubleT
	case Equal(a, b):
		return a
	case Size(a) != Size(b):
		if Size(a) > Size(b) {
			return a
		}
		return b
	case IsSigned(a):
		return b
	default:
		return a
	}
}
