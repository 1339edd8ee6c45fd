package semantic

import (
	"fmt"

	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/token"
	"github.com/thiremani/cfront/types"
)

// breakTarget is an enclosing loop or switch.
type breakTarget struct {
	label  string
	isLoop bool
}

type loopLabeler struct {
	table    *symbols.Table
	targets  []breakTarget
	switches []*ast.SwitchStatement
}

// LabelLoops gives every loop and switch a unique label, points each
// break, continue, case and default at its enclosing construct and builds
// each switch's case table. It expects a type checked program.
func LabelLoops(prog *ast.Program, table *symbols.Table) (err error) {
	defer catch(&err)

	ll := &loopLabeler{table: table}
	for _, decl := range prog.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		ll.labelBlock(fd.Body)
	}
	return nil
}

func (ll *loopLabeler) labelBlock(block *ast.Block) {
	for _, item := range block.Items {
		if stmt, ok := item.(ast.Statement); ok {
			ll.labelStatement(stmt)
		}
	}
}

func (ll *loopLabeler) labelStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BreakStatement:
		if len(ll.targets) == 0 {
			fail(s.Token, token.BreakOutsideLoop, "break statement not within loop or switch")
		}
		s.Label = ll.targets[len(ll.targets)-1].label
	case *ast.ContinueStatement:
		s.Label = ll.innermostLoop(s.Token)
	case *ast.IfStatement:
		ll.labelStatement(s.Consequence)
		if s.Alternative != nil {
			ll.labelStatement(s.Alternative)
		}
	case *ast.CompoundStatement:
		ll.labelBlock(s.Block)
	case *ast.WhileStatement:
		s.Label = ll.loopBody(s.Body)
	case *ast.DoWhileStatement:
		s.Label = ll.loopBody(s.Body)
	case *ast.ForStatement:
		s.Label = ll.loopBody(s.Body)
	case *ast.SwitchStatement:
		ll.labelSwitch(s)
	case *ast.CaseStatement:
		ll.labelCase(s)
		ll.labelStatement(s.Body)
	case *ast.DefaultStatement:
		sw := ll.innermostSwitch(s.Token, token.DefaultOutsideSwitch, "default")
		if sw.HasDefault {
			fail(s.Token, token.DuplicateDefault, "multiple default labels in one switch")
		}
		sw.HasDefault = true
		s.Label = sw.Label + ".default"
		ll.labelStatement(s.Body)
	case *ast.LabeledStatement:
		ll.labelStatement(s.Body)
	}
}

// loopBody labels a loop and walks its body with the loop as the
// innermost break and continue target.
func (ll *loopLabeler) loopBody(body ast.Statement) string {
	label := ll.table.Unique("loop")
	ll.targets = append(ll.targets, breakTarget{label: label, isLoop: true})
	ll.labelStatement(body)
	ll.targets = ll.targets[:len(ll.targets)-1]
	return label
}

func (ll *loopLabeler) labelSwitch(s *ast.SwitchStatement) {
	s.Label = ll.table.Unique("switch")
	s.Cases = nil
	s.HasDefault = false

	ll.targets = append(ll.targets, breakTarget{label: s.Label})
	ll.switches = append(ll.switches, s)
	ll.labelStatement(s.Body)
	ll.switches = ll.switches[:len(ll.switches)-1]
	ll.targets = ll.targets[:len(ll.targets)-1]
}

func (ll *loopLabeler) labelCase(s *ast.CaseStatement) {
	sw := ll.innermostSwitch(s.Token, token.CaseOutsideSwitch, "case")

	c, ok := foldConstant(s.Value)
	if !ok || !types.IsInteger(c.Type) {
		fail(s.Value.Tok(), token.NonConstantCase, "case value %s is not an integer constant", s.Value)
	}
	c = c.Convert(sw.Condition.Type())

	for _, prev := range sw.Cases {
		if prev.Value.Equal(c) {
			fail(s.Token, token.DuplicateCase, "duplicate case value %s", c)
		}
	}
	s.Label = fmt.Sprintf("%s.case.%d", sw.Label, len(sw.Cases))
	sw.Cases = append(sw.Cases, ast.CaseEntry{Value: c, Label: s.Label})
}

func (ll *loopLabeler) innermostLoop(tok token.Token) string {
	for i := len(ll.targets) - 1; i >= 0; i-- {
		if ll.targets[i].isLoop {
			return ll.targets[i].label
		}
	}
	fail(tok, token.ContinueOutsideLoop, "continue statement not within a loop")
	return ""
}

func (ll *loopLabeler) innermostSwitch(tok token.Token, kind token.ErrorKind, what string) *ast.SwitchStatement {
	if len(ll.switches) == 0 {
		fail(tok, kind, "%s label not within a switch statement", what)
	}
	return ll.switches[len(ll.switches)-1]
}
