package compiler

import (
	"fmt"

	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/types"
)

var binaryOps = map[ast.BinaryOp]ir.BinaryOp{
	ast.Add:            ir.Add,
	ast.Subtract:       ir.Subtract,
	ast.Multiply:       ir.Multiply,
	ast.Divide:         ir.Divide,
	ast.Remainder:      ir.Remainder,
	ast.BitAnd:         ir.BitAnd,
	ast.BitOr:          ir.BitOr,
	ast.BitXor:         ir.BitXor,
	ast.ShiftLeft:      ir.ShiftLeft,
	ast.ShiftRight:     ir.ShiftRight,
	ast.Equal:          ir.Equal,
	ast.NotEqual:       ir.NotEqual,
	ast.LessThan:       ir.LessThan,
	ast.LessOrEqual:    ir.LessOrEqual,
	ast.GreaterThan:    ir.GreaterThan,
	ast.GreaterOrEqual: ir.GreaterOrEqual,
}

var unaryOps = map[ast.UnaryOp]ir.UnaryOp{
	ast.Complement: ir.Complement,
	ast.Negate:     ir.Negate,
	ast.Not:        ir.Not,
}

// lvalue is an assignable location: a named variable, or the target of a
// pointer that has already been evaluated.
type lvalue struct {
	plain ir.Var
	ptr   ir.Val // non-nil for a dereferenced pointer
}

func (c *Compiler) load(lv lvalue, t types.Type) ir.Val {
	if lv.ptr == nil {
		return lv.plain
	}
	dst := c.newTemp(t)
	c.emit(&ir.Load{Ptr: lv.ptr, Dst: dst})
	return dst
}

func (c *Compiler) store(lv lvalue, src ir.Val) {
	if lv.ptr == nil {
		c.emit(&ir.Copy{Src: src, Dst: lv.plain})
		return
	}
	c.emit(&ir.Store{Src: src, Ptr: lv.ptr})
}

// compileLvalue evaluates the address part of an assignable expression
// exactly once.
func (c *Compiler) compileLvalue(exp ast.Expression) lvalue {
	switch e := exp.(type) {
	case *ast.Var:
		return lvalue{plain: ir.Var{Name: e.Name}}
	case *ast.Dereference:
		return lvalue{ptr: c.compileExpr(e.Operand)}
	}
	panic(fmt.Sprintf("compileLvalue: %T is not an lvalue", exp))
}

// compileExpr emits the instructions computing exp and returns the operand
// holding its value.
func (c *Compiler) compileExpr(exp ast.Expression) ir.Val {
	switch e := exp.(type) {
	case *ast.Constant:
		return ir.Constant{Value: e.Value}
	case *ast.Var:
		return ir.Var{Name: e.Name}
	case *ast.Cast:
		return c.compileCast(e)
	case *ast.Unary:
		src := c.compileExpr(e.Operand)
		dst := c.newTemp(e.Type())
		c.emit(&ir.Unary{Op: unaryOps[e.Op], Src: src, Dst: dst})
		return dst
	case *ast.Binary:
		return c.compileBinary(e)
	case *ast.Assignment:
		lv := c.compileLvalue(e.Left)
		rhs := c.compileExpr(e.Right)
		c.store(lv, rhs)
		if lv.ptr == nil {
			return lv.plain
		}
		return rhs
	case *ast.CompoundAssignment:
		return c.compileCompoundAssignment(e)
	case *ast.IncDec:
		return c.compileIncDec(e)
	case *ast.Conditional:
		return c.compileConditional(e)
	case *ast.Call:
		args := make([]ir.Val, len(e.Arguments))
		for i, arg := range e.Arguments {
			args[i] = c.compileExpr(arg)
		}
		dst := c.newTemp(e.Type())
		c.emit(&ir.FunCall{Name: e.Function, Args: args, Dst: dst})
		return dst
	case *ast.Dereference:
		ptr := c.compileExpr(e.Operand)
		dst := c.newTemp(e.Type())
		c.emit(&ir.Load{Ptr: ptr, Dst: dst})
		return dst
	case *ast.AddrOf:
		return c.compileAddrOf(e)
	}
	panic(fmt.Sprintf("compileExpr: unexpected %T", exp))
}

func (c *Compiler) compileAddrOf(e *ast.AddrOf) ir.Val {
	switch operand := e.Operand.(type) {
	case *ast.Var:
		dst := c.newTemp(e.Type())
		c.emit(&ir.GetAddress{Src: ir.Var{Name: operand.Name}, Dst: dst})
		return dst
	case *ast.Dereference:
		// &*p is p, without the load
		return c.compileExpr(operand.Operand)
	}
	panic(fmt.Sprintf("compileAddrOf: cannot take the address of %T", e.Operand))
}

func (c *Compiler) compileBinary(e *ast.Binary) ir.Val {
	switch e.Op {
	case ast.And:
		return c.compileLogical(e, "and", func(cond ir.Val, target string) ir.Instruction {
			return &ir.JumpIfZero{Cond: cond, Target: target}
		}, 0)
	case ast.Or:
		return c.compileLogical(e, "or", func(cond ir.Val, target string) ir.Instruction {
			return &ir.JumpIfNotZero{Cond: cond, Target: target}
		}, 1)
	}
	left := c.compileExpr(e.Left)
	right := c.compileExpr(e.Right)
	dst := c.newTemp(e.Type())
	c.emit(&ir.Binary{Op: binaryOps[e.Op], Left: left, Right: right, Dst: dst})
	return dst
}

// compileLogical lowers && and || with short circuiting. shortCircuit is
// the value the expression takes when the left operand alone decides it.
func (c *Compiler) compileLogical(e *ast.Binary, kind string, branch func(ir.Val, string) ir.Instruction, shortCircuit int32) ir.Val {
	prefix := c.newLabels(kind)
	shortLabel := prefix + ".false"
	if shortCircuit != 0 {
		shortLabel = prefix + ".true"
	}
	endLabel := prefix + ".end"
	result := c.newResult(prefix, types.IntT)

	left := c.compileExpr(e.Left)
	c.emit(branch(left, shortLabel))
	right := c.compileExpr(e.Right)
	c.emit(branch(right, shortLabel))
	c.emit(&ir.Copy{Src: ir.Constant{Value: types.ConstInt(1 - shortCircuit)}, Dst: result})
	c.emit(&ir.Jump{Target: endLabel})
	c.emit(&ir.Label{Name: shortLabel})
	c.emit(&ir.Copy{Src: ir.Constant{Value: types.ConstInt(shortCircuit)}, Dst: result})
	c.emit(&ir.Label{Name: endLabel})
	return result
}

func (c *Compiler) compileConditional(e *ast.Conditional) ir.Val {
	prefix := c.newLabels("cond")
	elseLabel := prefix + ".else"
	endLabel := prefix + ".end"
	result := c.newResult(prefix, e.Type())

	cond := c.compileExpr(e.Condition)
	c.emit(&ir.JumpIfZero{Cond: cond, Target: elseLabel})
	c.emit(&ir.Copy{Src: c.compileExpr(e.Then), Dst: result})
	c.emit(&ir.Jump{Target: endLabel})
	c.emit(&ir.Label{Name: elseLabel})
	c.emit(&ir.Copy{Src: c.compileExpr(e.Else), Dst: result})
	c.emit(&ir.Label{Name: endLabel})
	return result
}

// compileCompoundAssignment evaluates the target once, so a side effect in
// the address expression happens exactly once.
func (c *Compiler) compileCompoundAssignment(e *ast.CompoundAssignment) ir.Val {
	lt := e.Left.Type()
	lv := c.compileLvalue(e.Left)
	rhs := c.compileExpr(e.Right)
	old := c.load(lv, lt)

	opType := e.CommonType
	left := c.convert(old, lt, opType)
	result := c.newTemp(opType)
	c.emit(&ir.Binary{Op: binaryOps[e.Op], Left: left, Right: rhs, Dst: result})

	val := c.convert(result, opType, lt)
	c.store(lv, val)
	if lv.ptr == nil {
		return lv.plain
	}
	return val
}

func (c *Compiler) compileIncDec(e *ast.IncDec) ir.Val {
	t := e.Operand.Type()
	lv := c.compileLvalue(e.Operand)
	old := c.load(lv, t)

	var saved ir.Val = old
	if e.Op.IsPostfix() && lv.ptr == nil {
		// the variable itself is about to change
		tmp := c.newTemp(t)
		c.emit(&ir.Copy{Src: old, Dst: tmp})
		saved = tmp
	}

	op := ir.Add
	if !e.Op.IsIncrement() {
		op = ir.Subtract
	}
	updated := c.newTemp(t)
	c.emit(&ir.Binary{Op: op, Left: old, Right: ir.Constant{Value: types.ConstInt(1).Convert(t)}, Dst: updated})
	c.store(lv, updated)

	if e.Op.IsPostfix() {
		return saved
	}
	if lv.ptr == nil {
		return lv.plain
	}
	return updated
}

func (c *Compiler) compileCast(e *ast.Cast) ir.Val {
	src := c.compileExpr(e.Operand)
	return c.convert(src, e.Operand.Type(), e.Target)
}

// convert emits the conversion of src from one type to another and returns
// the converted operand. Identical types need no instruction.
func (c *Compiler) convert(src ir.Val, from, to types.Type) ir.Val {
	if types.Equal(from, to) {
		return src
	}
	dst := c.newTemp(to)
	kind, ok := conversion(from, to)
	if !ok {
		c.emit(&ir.Copy{Src: src, Dst: dst})
		return dst
	}
	c.emit(&ir.Convert{Kind: kind, Src: src, Dst: dst})
	return dst
}

// conversion picks the opcode for a cast between two distinct scalar
// types. It reports false when the bit pattern carries over unchanged and a
// plain copy suffices.
func conversion(from, to types.Type) (ir.ConvKind, bool) {
	switch {
	case from.Kind() == types.DoubleKind && types.IsSigned(to):
		return ir.DoubleToInt, true
	case from.Kind() == types.DoubleKind:
		return ir.DoubleToUInt, true
	case to.Kind() == types.DoubleKind && types.IsSigned(from):
		return ir.IntToDouble, true
	case to.Kind() == types.DoubleKind:
		return ir.UIntToDouble, true
	case types.Size(from) == types.Size(to):
		return 0, false
	case types.Size(from) > types.Size(to):
		return ir.Truncate, true
	case types.IsSigned(from) && !types.IsPointer(to):
		return ir.SignExtend, true
	}
	return ir.ZeroExtend, true
}
