package interp

import (
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/types"
)

// retype reinterprets v's bits as type t. Copies between same-size types
// of different signedness go through here.
func retype(v types.Const, t types.Type) types.Const {
	if t.Kind() == types.DoubleKind {
		if v.Type.Kind() == types.DoubleKind {
			return types.Const{Type: t, Float: v.Float}
		}
		return v.Convert(t)
	}
	if v.Type.Kind() == types.DoubleKind {
		return v.Convert(t)
	}
	return types.FromBits(t, v.Bits)
}

func boolConst(b bool) types.Const {
	if b {
		return types.ConstInt(1)
	}
	return types.ConstInt(0)
}

func unary(op ir.UnaryOp, v types.Const) types.Const {
	switch op {
	case ir.Not:
		return boolConst(v.IsZero())
	case ir.Negate:
		if v.Type.Kind() == types.DoubleKind {
			return types.ConstDouble(-v.Float)
		}
		return types.FromBits(v.Type, -v.Bits)
	}
	return types.FromBits(v.Type, ^v.Bits)
}

func binary(op ir.BinaryOp, l, r types.Const) (types.Const, error) {
	t := l.Type
	if op.IsComparison() {
		return boolConst(compare(op, l, r)), nil
	}
	if t.Kind() == types.DoubleKind {
		return types.ConstDouble(floatOp(op, l.Float, r.Float)), nil
	}

	a, b := l.Bits, r.Bits
	signed := types.IsSigned(t)
	switch op {
	case ir.Add:
		return types.FromBits(t, a+b), nil
	case ir.Subtract:
		return types.FromBits(t, a-b), nil
	case ir.Multiply:
		return types.FromBits(t, a*b), nil
	case ir.Divide, ir.Remainder:
		if b == 0 {
			return types.Const{}, ErrDivisionByZero
		}
		return types.FromBits(t, divide(op, a, b, signed)), nil
	case ir.BitAnd:
		return types.FromBits(t, a&b), nil
	case ir.BitOr:
		return types.FromBits(t, a|b), nil
	case ir.BitXor:
		return types.FromBits(t, a^b), nil
	case ir.ShiftLeft:
		return types.FromBits(t, a<<r.Uint64()), nil
	case ir.ShiftRight:
		if signed {
			return types.FromBits(t, uint64(int64(a)>>r.Uint64())), nil
		}
		return types.FromBits(t, a>>r.Uint64()), nil
	}
	panic("interp: unexpected binary operator " + op.String())
}

// divide works on normalized bits: signed values are already sign
// extended, so 64-bit arithmetic gives the right answer for int as well.
func divide(op ir.BinaryOp, a, b uint64, signed bool) uint64 {
	if signed {
		x, y := int64(a), int64(b)
		if op == ir.Divide {
			return uint64(x / y)
		}
		return uint64(x % y)
	}
	if op == ir.Divide {
		return a / b
	}
	return a % b
}

func floatOp(op ir.BinaryOp, a, b float64) float64 {
	switch op {
	case ir.Add:
		return a + b
	case ir.Subtract:
		return a - b
	case ir.Multiply:
		return a * b
	case ir.Divide:
		return a / b
	}
	panic("interp: invalid operator on double: " + op.String())
}

func compare(op ir.BinaryOp, l, r types.Const) bool {
	var cmp int
	switch {
	case l.Type.Kind() == types.DoubleKind:
		if l.Float != l.Float || r.Float != r.Float {
			// NaN compares unequal to everything
			return op == ir.NotEqual
		}
		cmp = order(l.Float < r.Float, l.Float > r.Float)
	case types.IsSigned(l.Type):
		cmp = order(int64(l.Bits) < int64(r.Bits), int64(l.Bits) > int64(r.Bits))
	default:
		cmp = order(l.Bits < r.Bits, l.Bits > r.Bits)
	}

	switch op {
	case ir.Equal:
		return cmp == 0
	case ir.NotEqual:
		return cmp != 0
	case ir.LessThan:
		return cmp < 0
	case ir.LessOrEqual:
		return cmp <= 0
	case ir.GreaterThan:
		return cmp > 0
	}
	return cmp >= 0
}

func order(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

func convert(kind ir.ConvKind, v types.Const, t types.Type) types.Const {
	switch kind {
	case ir.SignExtend, ir.Truncate:
		return types.FromBits(t, v.Bits)
	case ir.ZeroExtend:
		if types.Size(v.Type) == 4 {
			return types.FromBits(t, uint64(uint32(v.Bits)))
		}
		return types.FromBits(t, v.Bits)
	}
	return v.Convert(t)
}
