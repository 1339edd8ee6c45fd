package llvmgen

import (
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/types"
	"tinygo.org/x/go-llvm"
)

var signedPredicates = map[ir.BinaryOp]llvm.IntPredicate{
	ir.Equal:          llvm.IntEQ,
	ir.NotEqual:       llvm.IntNE,
	ir.LessThan:       llvm.IntSLT,
	ir.LessOrEqual:    llvm.IntSLE,
	ir.GreaterThan:    llvm.IntSGT,
	ir.GreaterOrEqual: llvm.IntSGE,
}

var unsignedPredicates = map[ir.BinaryOp]llvm.IntPredicate{
	ir.Equal:          llvm.IntEQ,
	ir.NotEqual:       llvm.IntNE,
	ir.LessThan:       llvm.IntULT,
	ir.LessOrEqual:    llvm.IntULE,
	ir.GreaterThan:    llvm.IntUGT,
	ir.GreaterOrEqual: llvm.IntUGE,
}

var floatPredicates = map[ir.BinaryOp]llvm.FloatPredicate{
	ir.Equal:          llvm.FloatOEQ,
	ir.NotEqual:       llvm.FloatUNE,
	ir.LessThan:       llvm.FloatOLT,
	ir.LessOrEqual:    llvm.FloatOLE,
	ir.GreaterThan:    llvm.FloatOGT,
	ir.GreaterOrEqual: llvm.FloatOGE,
}

func (g *Generator) unary(i *ir.Unary) llvm.Value {
	switch i.Op {
	case ir.Not:
		return g.builder.CreateZExt(g.isZero(i.Src), g.Context.Int32Type(), i.Dst.Name)
	case ir.Negate:
		src := g.value(i.Src)
		if g.typeOf(i.Src).Kind() == types.DoubleKind {
			return g.builder.CreateFNeg(src, i.Dst.Name)
		}
		return g.builder.CreateNeg(src, i.Dst.Name)
	}
	return g.builder.CreateNot(g.value(i.Src), i.Dst.Name)
}

func (g *Generator) binary(i *ir.Binary) llvm.Value {
	t := g.typeOf(i.Left)
	left, right := g.value(i.Left), g.value(i.Right)
	name := i.Dst.Name

	if i.Op.IsComparison() {
		var cmp llvm.Value
		switch {
		case t.Kind() == types.DoubleKind:
			cmp = g.builder.CreateFCmp(floatPredicates[i.Op], left, right, name+".cmp")
		case types.IsSigned(t):
			cmp = g.builder.CreateICmp(signedPredicates[i.Op], left, right, name+".cmp")
		default:
			cmp = g.builder.CreateICmp(unsignedPredicates[i.Op], left, right, name+".cmp")
		}
		return g.builder.CreateZExt(cmp, g.Context.Int32Type(), name)
	}

	if t.Kind() == types.DoubleKind {
		switch i.Op {
		case ir.Add:
			return g.builder.CreateFAdd(left, right, name)
		case ir.Subtract:
			return g.builder.CreateFSub(left, right, name)
		case ir.Multiply:
			return g.builder.CreateFMul(left, right, name)
		case ir.Divide:
			return g.builder.CreateFDiv(left, right, name)
		}
		panic("llvmgen: invalid operator on double: " + i.Op.String())
	}

	signed := types.IsSigned(t)
	switch i.Op {
	case ir.Add:
		return g.builder.CreateAdd(left, right, name)
	case ir.Subtract:
		return g.builder.CreateSub(left, right, name)
	case ir.Multiply:
		return g.builder.CreateMul(left, right, name)
	case ir.Divide:
		if signed {
			return g.builder.CreateSDiv(left, right, name)
		}
		return g.builder.CreateUDiv(left, right, name)
	case ir.Remainder:
		if signed {
			return g.builder.CreateSRem(left, right, name)
		}
		return g.builder.CreateURem(left, right, name)
	case ir.BitAnd:
		return g.builder.CreateAnd(left, right, name)
	case ir.BitOr:
		return g.builder.CreateOr(left, right, name)
	case ir.BitXor:
		return g.builder.CreateXor(left, right, name)
	}

	// the shift count is an int; LLVM wants both operands the same width
	if types.Size(t) != types.Size(g.typeOf(i.Right)) {
		right = g.builder.CreateZExt(right, g.mapToLLVMType(t), name+".count")
	}
	switch {
	case i.Op == ir.ShiftLeft:
		return g.builder.CreateShl(left, right, name)
	case signed:
		return g.builder.CreateAShr(left, right, name)
	}
	return g.builder.CreateLShr(left, right, name)
}

func (g *Generator) convert(i *ir.Convert) llvm.Value {
	from, to := g.typeOf(i.Src), g.typeOf(i.Dst)
	src := g.value(i.Src)
	dstType := g.mapToLLVMType(to)
	name := i.Dst.Name

	switch i.Kind {
	case ir.SignExtend:
		return g.builder.CreateSExt(src, dstType, name)
	case ir.ZeroExtend:
		if types.IsPointer(to) {
			wide := g.builder.CreateZExt(src, g.Context.Int64Type(), name+".wide")
			return g.builder.CreateIntToPtr(wide, dstType, name)
		}
		return g.builder.CreateZExt(src, dstType, name)
	case ir.Truncate:
		if types.IsPointer(from) {
			return g.builder.CreatePtrToInt(src, dstType, name)
		}
		return g.builder.CreateTrunc(src, dstType, name)
	case ir.DoubleToInt:
		return g.builder.CreateFPToSI(src, dstType, name)
	case ir.DoubleToUInt:
		return g.builder.CreateFPToUI(src, dstType, name)
	case ir.IntToDouble:
		return g.builder.CreateSIToFP(src, dstType, name)
	}
	return g.builder.CreateUIToFP(src, dstType, name)
}
