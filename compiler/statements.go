package compiler

import (
	"fmt"

	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/types"
)

func breakLabel(loop string) string    { return loop + ".break" }
func continueLabel(loop string) string { return loop + ".continue" }

func (c *Compiler) compileBlock(block *ast.Block) {
	for _, item := range block.Items {
		switch it := item.(type) {
		case *ast.VarDecl:
			c.compileLocalVar(it)
		case *ast.FuncDecl:
			// block scope function declarations produce no code
		case ast.Statement:
			c.compileStatement(it)
		}
	}
}

// compileLocalVar turns an automatic variable's initializer into a copy.
// Static and extern locals live in the static variable list instead.
func (c *Compiler) compileLocalVar(vd *ast.VarDecl) {
	if vd.Storage != ast.NoStorage || vd.Init == nil {
		return
	}
	src := c.compileExpr(vd.Init)
	c.emit(&ir.Copy{Src: src, Dst: ir.Var{Name: vd.Name}})
}

func (c *Compiler) compileStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		c.emit(&ir.Return{Val: c.compileExpr(s.Value)})
	case *ast.ExpressionStatement:
		c.compileExpr(s.Expression)
	case *ast.IfStatement:
		c.compileIf(s)
	case *ast.CompoundStatement:
		c.compileBlock(s.Block)
	case *ast.BreakStatement:
		c.emit(&ir.Jump{Target: breakLabel(s.Label)})
	case *ast.ContinueStatement:
		c.emit(&ir.Jump{Target: continueLabel(s.Label)})
	case *ast.WhileStatement:
		c.compileWhile(s)
	case *ast.DoWhileStatement:
		c.compileDoWhile(s)
	case *ast.ForStatement:
		c.compileFor(s)
	case *ast.SwitchStatement:
		c.compileSwitch(s)
	case *ast.CaseStatement:
		c.emit(&ir.Label{Name: s.Label})
		c.compileStatement(s.Body)
	case *ast.DefaultStatement:
		c.emit(&ir.Label{Name: s.Label})
		c.compileStatement(s.Body)
	case *ast.LabeledStatement:
		c.emit(&ir.Label{Name: s.Label})
		c.compileStatement(s.Body)
	case *ast.GotoStatement:
		c.emit(&ir.Jump{Target: s.Target})
	case *ast.NullStatement:
	default:
		panic(fmt.Sprintf("compileStatement: unexpected %T", stmt))
	}
}

func (c *Compiler) compileIf(s *ast.IfStatement) {
	prefix := c.newLabels("if")
	endLabel := prefix + ".end"

	cond := c.compileExpr(s.Condition)
	if s.Alternative == nil {
		c.emit(&ir.JumpIfZero{Cond: cond, Target: endLabel})
		c.compileStatement(s.Consequence)
		c.emit(&ir.Label{Name: endLabel})
		return
	}

	elseLabel := prefix + ".else"
	c.emit(&ir.JumpIfZero{Cond: cond, Target: elseLabel})
	c.compileStatement(s.Consequence)
	c.emit(&ir.Jump{Target: endLabel})
	c.emit(&ir.Label{Name: elseLabel})
	c.compileStatement(s.Alternative)
	c.emit(&ir.Label{Name: endLabel})
}

func (c *Compiler) compileWhile(s *ast.WhileStatement) {
	cont, brk := continueLabel(s.Label), breakLabel(s.Label)

	c.emit(&ir.Label{Name: cont})
	cond := c.compileExpr(s.Condition)
	c.emit(&ir.JumpIfZero{Cond: cond, Target: brk})
	c.compileStatement(s.Body)
	c.emit(&ir.Jump{Target: cont})
	c.emit(&ir.Label{Name: brk})
}

func (c *Compiler) compileDoWhile(s *ast.DoWhileStatement) {
	start := s.Label + ".start"

	c.emit(&ir.Label{Name: start})
	c.compileStatement(s.Body)
	c.emit(&ir.Label{Name: continueLabel(s.Label)})
	cond := c.compileExpr(s.Condition)
	c.emit(&ir.JumpIfNotZero{Cond: cond, Target: start})
	c.emit(&ir.Label{Name: breakLabel(s.Label)})
}

func (c *Compiler) compileFor(s *ast.ForStatement) {
	start := s.Label + ".start"
	brk := breakLabel(s.Label)

	switch init := s.Init.(type) {
	case *ast.VarDecl:
		c.compileLocalVar(init)
	case *ast.InitExpression:
		if init.Expression != nil {
			c.compileExpr(init.Expression)
		}
	}

	c.emit(&ir.Label{Name: start})
	if s.Condition != nil {
		cond := c.compileExpr(s.Condition)
		c.emit(&ir.JumpIfZero{Cond: cond, Target: brk})
	}
	c.compileStatement(s.Body)
	c.emit(&ir.Label{Name: continueLabel(s.Label)})
	if s.Post != nil {
		c.compileExpr(s.Post)
	}
	c.emit(&ir.Jump{Target: start})
	c.emit(&ir.Label{Name: brk})
}

// compileSwitch tests the condition against each case in order of
// appearance, then falls back to default or past the end.
func (c *Compiler) compileSwitch(s *ast.SwitchStatement) {
	brk := breakLabel(s.Label)
	condType := s.Condition.Type()

	cond := c.compileExpr(s.Condition)
	for _, entry := range s.Cases {
		match := c.newTemp(types.IntT)
		c.emit(&ir.Binary{Op: ir.Equal, Left: cond, Right: ir.Constant{Value: entry.Value.Convert(condType)}, Dst: match})
		c.emit(&ir.JumpIfNotZero{Cond: match, Target: entry.Label})
	}
	if s.HasDefault {
		c.emit(&ir.Jump{Target: s.Label + ".default"})
	} else {
		c.emit(&ir.Jump{Target: brk})
	}

	c.compileStatement(s.Body)
	c.emit(&ir.Label{Name: brk})
}
