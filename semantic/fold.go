package semantic

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/types"
)

// foldConstant evaluates constants, unary -, ~, ! and casts of foldable
// operands. It reports false for anything else.
func foldConstant(exp ast.Expression) (types.Const, bool) {
	switch e := exp.(type) {
	case *ast.Constant:
		return e.Value, true
	case *ast.Cast:
		c, ok := foldConstant(e.Operand)
		if !ok {
			return types.Const{}, false
		}
		return c.Convert(e.Target), true
	case *ast.Unary:
		c, ok := foldConstant(e.Operand)
		if !ok {
			return types.Const{}, false
		}
		return foldUnary(e.Op, c)
	}
	return types.Const{}, false
}

func foldUnary(op ast.UnaryOp, c types.Const) (types.Const, bool) {
	isDouble := c.Type.Kind() == types.DoubleKind
	switch op {
	case ast.Negate:
		if isDouble {
			return types.ConstDouble(-c.Float), true
		}
		if types.IsPointer(c.Type) {
			return types.Const{}, false
		}
		return types.FromBits(c.Type, -c.Bits), true
	case ast.Complement:
		if isDouble || types.IsPointer(c.Type) {
			return types.Const{}, false
		}
		return types.FromBits(c.Type, ^c.Bits), true
	case ast.Not:
		if c.IsZero() {
			return types.ConstInt(1), true
		}
		return types.ConstInt(0), true
	}
	return types.Const{}, false
}
