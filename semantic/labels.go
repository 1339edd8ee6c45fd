package semantic

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/token"
)

// ResolveLabels gives every user label a function qualified name
// ("<label>.<function>") and points each goto at it.
func ResolveLabels(prog *ast.Program, _ *symbols.Table) (err error) {
	defer catch(&err)

	for _, decl := range prog.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		labels := map[string]string{}
		for _, item := range fd.Body.Items {
			collectLabels(item, fd.Name, labels)
		}
		for _, item := range fd.Body.Items {
			rewriteGotos(item, labels)
		}
	}
	return nil
}

func collectLabels(item ast.BlockItem, fn string, labels map[string]string) {
	walkStatements(item, func(stmt ast.Statement) {
		ls, ok := stmt.(*ast.LabeledStatement)
		if !ok {
			return
		}
		if _, dup := labels[ls.Label]; dup {
			fail(ls.Token, token.DuplicateLabel, "duplicate label %q in function %q", ls.Label, fn)
		}
		unique := ls.Label + "." + fn
		labels[ls.Label] = unique
		ls.Label = unique
	})
}

func rewriteGotos(item ast.BlockItem, labels map[string]string) {
	walkStatements(item, func(stmt ast.Statement) {
		gs, ok := stmt.(*ast.GotoStatement)
		if !ok {
			return
		}
		unique, found := labels[gs.Target]
		if !found {
			fail(gs.Token, token.UndefinedLabel, "use of undeclared label %q", gs.Target)
		}
		gs.Target = unique
	})
}

// walkStatements calls visit on every statement reachable from item, parents
// before children. Declarations and expressions are skipped.
func walkStatements(item ast.BlockItem, visit func(ast.Statement)) {
	stmt, ok := item.(ast.Statement)
	if !ok {
		return
	}
	visit(stmt)

	switch s := stmt.(type) {
	case *ast.IfStatement:
		walkStatements(s.Consequence, visit)
		if s.Alternative != nil {
			walkStatements(s.Alternative, visit)
		}
	case *ast.CompoundStatement:
		for _, it := range s.Block.Items {
			walkStatements(it, visit)
		}
	case *ast.WhileStatement:
		walkStatements(s.Body, visit)
	case *ast.DoWhileStatement:
		walkStatements(s.Body, visit)
	case *ast.ForStatement:
		walkStatements(s.Body, visit)
	case *ast.SwitchStatement:
		walkStatements(s.Body, visit)
	case *ast.CaseStatement:
		walkStatements(s.Body, visit)
	case *ast.DefaultStatement:
		walkStatements(s.Body, visit)
	case *ast.LabeledStatement:
		walkStatements(s.Body, visit)
	}
}
