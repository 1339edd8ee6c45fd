package types

import (
	"math"
	"strconv"
)

// Const is a folded constant. Integer and pointer values live in Bits,
// normalized for their type: signed values are sign-extended to 64 bits and
// unsigned values are zero-extended. Double values live in Float.
type Const struct {
	Type  Type
	Bits  uint64
	Float float64
}

func ConstInt(v int32) Const      { return Const{Type: IntT, Bits: uint64(int64(v))} }
func ConstLong(v int64) Const     { return Const{Type: LongT, Bits: uint64(v)} }
func ConstUInt(v uint32) Const    { return Const{Type: UIntT, Bits: uint64(v)} }
func ConstULong(v uint64) Const   { return Const{Type: ULongT, Bits: v} }
func ConstDouble(v float64) Const { return Const{Type: DoubleT, Float: v} }

// Zero returns the zero value of t.
func Zero(t Type) Const {
	return Const{Type: t}
}

// FromBits builds a constant of type t from raw bits, truncating and
// re-extending them to t's width.
func FromBits(t Type, bits uint64) Const {
	if t.Kind() == DoubleKind {
		return Const{Type: t, Float: math.Float64frombits(bits)}
	}
	return Const{Type: t, Bits: normalize(t, bits)}
}

func normalize(t Type, bits uint64) uint64 {
	switch t.Kind() {
	case IntKind:
		return uint64(int64(int32(bits)))
	case UIntKind:
		return uint64(uint32(bits))
	}
	return bits
}

// Int64 returns the value as a signed 64-bit integer.
func (c Const) Int64() int64 {
	if c.Type.Kind() == DoubleKind {
		return int64(c.Float)
	}
	return int64(c.Bits)
}

// Uint64 returns the raw 64-bit pattern of an integer or pointer value.
func (c Const) Uint64() uint64 {
	if c.Type.Kind() == DoubleKind {
		return doubleToUint64(c.Float)
	}
	return c.Bits
}

func (c Const) IsZero() bool {
	if c.Type.Kind() == DoubleKind {
		return c.Float == 0
	}
	return c.Bits == 0
}

// Convert applies C's conversion rules to produce a value of type t.
// Integer narrowing wraps, double to integer truncates toward zero.
func (c Const) Convert(t Type) Const {
	from := c.Type.Kind()
	switch {
	case t.Kind() == DoubleKind && from == DoubleKind:
		return Const{Type: t, Float: c.Float}
	case t.Kind() == DoubleKind && IsSigned(c.Type):
		return Const{Type: t, Float: float64(int64(c.Bits))}
	case t.Kind() == DoubleKind:
		return Const{Type: t, Float: float64(c.Bits)}
	case from == DoubleKind && IsSigned(t):
		return Const{Type: t, Bits: normalize(t, uint64(int64(c.Float)))}
	case from == DoubleKind:
		return Const{Type: t, Bits: normalize(t, doubleToUint64(c.Float))}
	}
	return Const{Type: t, Bits: normalize(t, c.Bits)}
}

func doubleToUint64(f float64) uint64 {
	if f >= 1<<63 {
		return uint64(int64(f-(1<<63))) | 1<<63
	}
	return uint64(int64(f))
}

// Equal compares type and value.
func (c Const) Equal(o Const) bool {
	if !Equal(c.Type, o.Type) {
		return false
	}
	if c.Type.Kind() == DoubleKind {
		return c.Float == o.Float
	}
	return c.Bits == o.Bits
}

func (c Const) String() string {
	switch c.Type.Kind() {
	case DoubleKind:
		s := strconv.FormatFloat(c.Float, 'g', -1, 64)
		for _, r := range s {
			if r == '.' || r == 'e' || r == 'n' || r == 'I' {
				return s
			}
		}
		return s + ".0"
	case IntKind:
		return strconv.FormatInt(int64(c.Bits), 10)
	case LongKind:
		return strconv.FormatInt(int64(c.Bits), 10) + "l"
	case UIntKind:
		return strconv.FormatUint(c.Bits, 10) + "u"
	case ULongKind:
		return strconv.FormatUint(c.Bits, 10) + "ul"
	}
	return "(" + c.Type.String() + ")" + strconv.FormatUint(c.Bits, 10)
}
