package semantic

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

type typeChecker struct {
	table *symbols.Table
	ret   types.Type // return type of the function being checked
}

// TypeCheck annotates every expression with its type, makes implicit
// conversions explicit as Cast nodes and records every declaration in
// table. Running it again on its own output with a fresh table changes
// nothing.
func TypeCheck(prog *ast.Program, table *symbols.Table) (err error) {
	defer catch(&err)

	tc := &typeChecker{table: table}
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			tc.checkFuncDecl(d)
		case *ast.VarDecl:
			tc.checkFileVarDecl(d)
		}
	}
	return nil
}

func (tc *typeChecker) checkFuncDecl(fd *ast.FuncDecl) {
	hasBody := fd.Body != nil
	global := fd.Storage != ast.Static
	defined := false

	if old, ok := tc.table.Get(fd.Name); ok {
		attr, isFun := old.Attrs.(symbols.FunAttr)
		if !isFun || !types.Equal(old.Type, fd.FuncType) {
			fail(fd.Token, token.IncompatibleRedeclaration, "conflicting types for %q: %s, previously %s", fd.Name, fd.FuncType, old.Type)
		}
		if attr.Defined && hasBody {
			fail(fd.Token, token.IncompatibleRedeclaration, "redefinition of function %q", fd.Name)
		}
		if attr.Global && fd.Storage == ast.Static {
			fail(fd.Token, token.IncompatibleRedeclaration, "static declaration of %q follows non-static declaration", fd.Name)
		}
		global = attr.Global
		defined = attr.Defined
	}

	tc.table.Add(fd.Name, fd.FuncType, symbols.FunAttr{Defined: defined || hasBody, Global: global})

	if !hasBody {
		return
	}
	for i, param := range fd.Params {
		tc.table.Add(param, fd.FuncType.Params[i], symbols.LocalAttr{})
	}
	tc.ret = fd.FuncType.Ret
	tc.checkBlock(fd.Body)
	tc.ret = nil
}

func (tc *typeChecker) checkFileVarDecl(vd *ast.VarDecl) {
	var init symbols.InitialValue
	switch {
	case vd.Init != nil:
		init = symbols.InitialValue{Kind: symbols.Initial, Value: tc.staticInitializer(vd)}
	case vd.Storage == ast.Extern:
		init = symbols.InitialValue{Kind: symbols.NoInitializer}
	default:
		init = symbols.InitialValue{Kind: symbols.Tentative}
	}
	global := vd.Storage != ast.Static

	if old, ok := tc.table.Get(vd.Name); ok {
		attr, isStatic := old.Attrs.(symbols.StaticAttr)
		if !isStatic || !types.Equal(old.Type, vd.VarType) {
			fail(vd.Token, token.IncompatibleRedeclaration, "conflicting types for %q: %s, previously %s", vd.Name, vd.VarType, old.Type)
		}
		if vd.Storage == ast.Extern {
			global = attr.Global
		} else if attr.Global != global {
			fail(vd.Token, token.IncompatibleRedeclaration, "conflicting linkage for %q", vd.Name)
		}
		init = mergeInit(vd, attr.Init, init)
	}

	tc.table.Add(vd.Name, vd.VarType, symbols.StaticAttr{Init: init, Global: global})
}

// mergeInit combines two initializer states: Initial beats Tentative
// beats NoInitializer, and two Initials conflict.
func mergeInit(vd *ast.VarDecl, old, cur symbols.InitialValue) symbols.InitialValue {
	switch {
	case old.Kind == symbols.Initial && cur.Kind == symbols.Initial:
		fail(vd.Token, token.ConflictingInitializer, "redefinition of %q with a second initializer", vd.Name)
	case old.Kind == symbols.Initial:
		return old
	case cur.Kind == symbols.Initial:
		return cur
	case old.Kind == symbols.Tentative:
		return old
	}
	return cur
}

// staticInitializer type checks the initializer of a static duration
// variable, converts it to the declared type and folds it.
func (tc *typeChecker) staticInitializer(vd *ast.VarDecl) types.Const {
	vd.Init = tc.convertByAssignment(tc.checkExpr(vd.Init), vd.VarType)
	c, ok := foldConstant(vd.Init)
	if !ok {
		fail(vd.Init.Tok(), token.InvalidDeclaration, "initializer of static variable %q is not a constant", vd.Name)
	}
	return c
}

func (tc *typeChecker) checkLocalVarDecl(vd *ast.VarDecl) {
	switch vd.Storage {
	case ast.Extern:
		if vd.Init != nil {
			fail(vd.Token, token.InvalidDeclaration, "initializer on local extern declaration of %q", vd.Name)
		}
		if old, ok := tc.table.Get(vd.Name); ok {
			if _, isStatic := old.Attrs.(symbols.StaticAttr); !isStatic || !types.Equal(old.Type, vd.VarType) {
				fail(vd.Token, token.IncompatibleRedeclaration, "conflicting types for %q: %s, previously %s", vd.Name, vd.VarType, old.Type)
			}
			return
		}
		tc.table.Add(vd.Name, vd.VarType, symbols.StaticAttr{Init: symbols.InitialValue{Kind: symbols.NoInitializer}, Global: true})
	case ast.Static:
		value := types.Zero(vd.VarType)
		if vd.Init != nil {
			value = tc.staticInitializer(vd)
		}
		tc.table.Add(vd.Name, vd.VarType, symbols.StaticAttr{
			Init: symbols.InitialValue{Kind: symbols.Initial, Value: value},
		})
	default:
		tc.table.Add(vd.Name, vd.VarType, symbols.LocalAttr{})
		if vd.Init != nil {
			vd.Init = tc.convertByAssignment(tc.checkExpr(vd.Init), vd.VarType)
		}
	}
}

func (tc *typeChecker) checkBlock(block *ast.Block) {
	for _, item := range block.Items {
		switch it := item.(type) {
		case *ast.VarDecl:
			tc.checkLocalVarDecl(it)
		case *ast.FuncDecl:
			tc.checkFuncDecl(it)
		case ast.Statement:
			tc.checkStatement(it)
		}
	}
}

func (tc *typeChecker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		s.Value = tc.convertByAssignment(tc.checkExpr(s.Value), tc.ret)
	case *ast.ExpressionStatement:
		s.Expression = tc.checkExpr(s.Expression)
	case *ast.IfStatement:
		s.Condition = tc.checkCondition(s.Condition)
		tc.checkStatement(s.Consequence)
		if s.Alternative != nil {
			tc.checkStatement(s.Alternative)
		}
	case *ast.CompoundStatement:
		tc.checkBlock(s.Block)
	case *ast.WhileStatement:
		s.Condition = tc.checkCondition(s.Condition)
		tc.checkStatement(s.Body)
	case *ast.DoWhileStatement:
		tc.checkStatement(s.Body)
		s.Condition = tc.checkCondition(s.Condition)
	case *ast.ForStatement:
		switch init := s.Init.(type) {
		case *ast.VarDecl:
			tc.checkLocalVarDecl(init)
		case *ast.InitExpression:
			if init.Expression != nil {
				init.Expression = tc.checkExpr(init.Expression)
			}
		}
		if s.Condition != nil {
			s.Condition = tc.checkCondition(s.Condition)
		}
		if s.Post != nil {
			s.Post = tc.checkExpr(s.Post)
		}
		tc.checkStatement(s.Body)
	case *ast.SwitchStatement:
		s.Condition = tc.checkExpr(s.Condition)
		if !types.IsInteger(s.Condition.Type()) {
			fail(s.Condition.Tok(), token.TypeMismatch, "switch on non-integer type %s", s.Condition.Type())
		}
		tc.checkStatement(s.Body)
	case *ast.CaseStatement:
		s.Value = tc.checkExpr(s.Value)
		tc.checkStatement(s.Body)
	case *ast.DefaultStatement:
		tc.checkStatement(s.Body)
	case *ast.LabeledStatement:
		tc.checkStatement(s.Body)
	}
}

func (tc *typeChecker) checkCondition(exp ast.Expression) ast.Expression {
	exp = tc.checkExpr(exp)
	tc.requireScalar(exp)
	return exp
}

func (tc *typeChecker) checkExpr(exp ast.Expression) ast.Expression {
	switch e := exp.(type) {
	case *ast.Constant:
		e.SetType(e.Value.Type)
	case *ast.Var:
		sym, ok := tc.table.Get(e.Name)
		if !ok {
			fail(e.Token, token.UndeclaredVariable, "use of undeclared identifier %q", e.Name)
		}
		if sym.Type.Kind() == types.FuncKind {
			fail(e.Token, token.TypeMismatch, "function %q used as a variable", e.Name)
		}
		e.SetType(sym.Type)
	case *ast.Cast:
		tc.checkCast(e)
	case *ast.Unary:
		tc.checkUnary(e)
	case *ast.Binary:
		tc.checkBinary(e)
	case *ast.Assignment:
		e.Left = tc.checkLvalue(e.Left)
		e.Right = tc.convertByAssignment(tc.checkExpr(e.Right), e.Left.Type())
		e.SetType(e.Left.Type())
	case *ast.CompoundAssignment:
		tc.checkCompoundAssignment(e)
	case *ast.Conditional:
		tc.checkConditional(e)
	case *ast.Call:
		tc.checkCall(e)
	case *ast.AddrOf:
		e.Operand = tc.checkLvalue(e.Operand)
		e.SetType(types.Pointer{Referenced: e.Operand.Type()})
	case *ast.Dereference:
		e.Operand = tc.checkExpr(e.Operand)
		ptr, ok := e.Operand.Type().(types.Pointer)
		if !ok {
			fail(e.Token, token.TypeMismatch, "cannot dereference non-pointer type %s", e.Operand.Type())
		}
		e.SetType(ptr.Referenced)
	case *ast.IncDec:
		e.Operand = tc.checkLvalue(e.Operand)
		if !types.IsArithmetic(e.Operand.Type()) {
			fail(e.Token, token.TypeMismatch, "%s on operand of type %s is not supported", e.Op, e.Operand.Type())
		}
		e.SetType(e.Operand.Type())
	default:
		panic("checkExpr: unexpected expression " + exp.String())
	}
	return exp
}

// checkLvalue type checks exp and requires it to designate an object.
func (tc *typeChecker) checkLvalue(exp ast.Expression) ast.Expression {
	switch exp.(type) {
	case *ast.Var, *ast.Dereference:
		return tc.checkExpr(exp)
	}
	fail(exp.Tok(), token.InvalidLvalue, "expression %s is not assignable", exp)
	return nil
}

func (tc *typeChecker) checkCast(e *ast.Cast) {
	e.Operand = tc.checkExpr(e.Operand)
	from := e.Operand.Type()
	if (from.Kind() == types.DoubleKind && types.IsPointer(e.Target)) ||
		(types.IsPointer(from) && e.Target.Kind() == types.DoubleKind) {
		fail(e.Token, token.InvalidCast, "cannot cast %s to %s", from, e.Target)
	}
	e.SetType(e.Target)
}

func (tc *typeChecker) checkUnary(e *ast.Unary) {
	e.Operand = tc.checkExpr(e.Operand)
	t := e.Operand.Type()
	switch e.Op {
	case ast.Complement:
		if !types.IsInteger(t) {
			fail(e.Token, token.TypeMismatch, "invalid operand of type %s to ~", t)
		}
		e.SetType(t)
	case ast.Negate:
		if !types.IsArithmetic(t) {
			fail(e.Token, token.TypeMismatch, "invalid operand of type %s to unary -", t)
		}
		e.SetType(t)
	case ast.Not:
		tc.requireScalar(e.Operand)
		e.SetType(types.IntT)
	}
}

func (tc *typeChecker) checkBinary(e *ast.Binary) {
	e.Left = tc.checkExpr(e.Left)
	e.Right = tc.checkExpr(e.Right)
	lt, rt := e.Left.Type(), e.Right.Type()

	switch {
	case e.Op.IsLogical():
		tc.requireScalar(e.Left)
		tc.requireScalar(e.Right)
		e.SetType(types.IntT)
		return
	case e.Op.IsShift():
		if !types.IsInteger(lt) || !types.IsInteger(rt) {
			fail(e.Token, token.TypeMismatch, "invalid operands to %s (%s and %s)", e.Op, lt, rt)
		}
		e.Right = convertTo(e.Right, types.IntT)
		e.SetType(lt)
		return
	case types.IsPointer(lt) || types.IsPointer(rt):
		tc.checkPointerComparison(e)
		return
	}

	if !types.IsArithmetic(lt) || !types.IsArithmetic(rt) {
		fail(e.Token, token.TypeMismatch, "invalid operands to %s (%s and %s)", e.Op, lt, rt)
	}
	if (e.Op == ast.Remainder || e.Op.IsBitwise()) && (!types.IsInteger(lt) || !types.IsInteger(rt)) {
		fail(e.Token, token.TypeMismatch, "invalid operands to %s (%s and %s)", e.Op, lt, rt)
	}

	common := types.CommonType(lt, rt)
	e.Left = convertTo(e.Left, common)
	e.Right = convertTo(e.Right, common)
	if e.Op.IsComparison() {
		e.SetType(types.IntT)
		return
	}
	e.SetType(common)
}

// checkPointerComparison handles a binary operator with at least one
// pointer operand. Only comparisons are allowed.
func (tc *typeChecker) checkPointerComparison(e *ast.Binary) {
	lt, rt := e.Left.Type(), e.Right.Type()
	if !e.Op.IsComparison() {
		fail(e.Token, token.TypeMismatch, "pointer arithmetic is not supported (%s and %s)", lt, rt)
	}

	equality := e.Op == ast.Equal || e.Op == ast.NotEqual
	switch {
	case types.Equal(lt, rt):
	case equality && types.IsPointer(lt) && isNullPointerConstant(e.Right):
		e.Right = convertTo(e.Right, lt)
	case equality && types.IsPointer(rt) && isNullPointerConstant(e.Left):
		e.Left = convertTo(e.Left, rt)
	default:
		fail(e.Token, token.TypeMismatch, "comparison between %s and %s", lt, rt)
	}
	e.SetType(types.IntT)
}

func (tc *typeChecker) checkCompoundAssignment(e *ast.CompoundAssignment) {
	e.Left = tc.checkLvalue(e.Left)
	e.Right = tc.checkExpr(e.Right)
	lt, rt := e.Left.Type(), e.Right.Type()

	if !types.IsArithmetic(lt) || !types.IsArithmetic(rt) {
		fail(e.Token, token.TypeMismatch, "invalid operands to %s= (%s and %s)", e.Op, lt, rt)
	}
	needsInteger := e.Op == ast.Remainder || e.Op.IsBitwise() || e.Op.IsShift()
	if needsInteger && (!types.IsInteger(lt) || !types.IsInteger(rt)) {
		fail(e.Token, token.TypeMismatch, "invalid operands to %s= (%s and %s)", e.Op, lt, rt)
	}

	if e.Op.IsShift() {
		e.CommonType = lt
		e.Right = convertTo(e.Right, types.IntT)
	} else {
		e.CommonType = types.CommonType(lt, rt)
		e.Right = convertTo(e.Right, e.CommonType)
	}
	e.SetType(lt)
}

func (tc *typeChecker) checkConditional(e *ast.Conditional) {
	e.Condition = tc.checkCondition(e.Condition)
	e.Then = tc.checkExpr(e.Then)
	e.Else = tc.checkExpr(e.Else)
	tt, et := e.Then.Type(), e.Else.Type()

	switch {
	case types.IsArithmetic(tt) && types.IsArithmetic(et):
		common := types.CommonType(tt, et)
		e.Then = convertTo(e.Then, common)
		e.Else = convertTo(e.Else, common)
		e.SetType(common)
	case types.Equal(tt, et):
		e.SetType(tt)
	case types.IsPointer(tt) && isNullPointerConstant(e.Else):
		e.Else = convertTo(e.Else, tt)
		e.SetType(tt)
	case types.IsPointer(et) && isNullPointerConstant(e.Then):
		e.Then = convertTo(e.Then, et)
		e.SetType(et)
	default:
		fail(e.Token, token.TypeMismatch, "incompatible operand types in conditional expression (%s and %s)", tt, et)
	}
}

func (tc *typeChecker) checkCall(e *ast.Call) {
	sym, ok := tc.table.Get(e.Function)
	if !ok {
		fail(e.Token, token.UndeclaredVariable, "call to undeclared function %q", e.Function)
	}
	fn, ok := sym.Type.(types.Func)
	if !ok {
		fail(e.Token, token.TypeMismatch, "called object %q is not a function", e.Function)
	}
	if len(fn.Params) != len(e.Arguments) {
		fail(e.Token, token.TypeMismatch, "function %q expects %d arguments, got %d", e.Function, len(fn.Params), len(e.Arguments))
	}
	for i, arg := range e.Arguments {
		e.Arguments[i] = tc.convertByAssignment(tc.checkExpr(arg), fn.Params[i])
	}
	e.SetType(fn.Ret)
}

func (tc *typeChecker) requireScalar(exp ast.Expression) {
	if !types.IsScalar(exp.Type()) {
		fail(exp.Tok(), token.TypeMismatch, "expected scalar operand, found %s", exp.Type())
	}
}

// convertByAssignment converts exp to t the way assignment, argument
// passing and return do.
func (tc *typeChecker) convertByAssignment(exp ast.Expression, t types.Type) ast.Expression {
	from := exp.Type()
	switch {
	case types.Equal(from, t):
		return exp
	case types.IsArithmetic(from) && types.IsArithmetic(t):
		return convertTo(exp, t)
	case types.IsPointer(t) && isNullPointerConstant(exp):
		return convertTo(exp, t)
	}
	fail(exp.Tok(), token.TypeMismatch, "cannot convert %s to %s", from, t)
	return nil
}

// convertTo wraps exp in a Cast to t unless it already has type t.
func convertTo(exp ast.Expression, t types.Type) ast.Expression {
	if types.Equal(exp.Type(), t) {
		return exp
	}
	cast := &ast.Cast{Token: exp.Tok(), Target: t, Operand: exp}
	cast.SetType(t)
	return cast
}

// isNullPointerConstant reports whether exp is an integer constant zero.
func isNullPointerConstant(exp ast.Expression) bool {
	c, ok := exp.(*ast.Constant)
	return ok && types.IsInteger(c.Value.Type) && c.Value.IsZero()
}
