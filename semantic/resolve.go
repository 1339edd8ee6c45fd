package semantic

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/token"
)

// identEntry is what a source name resolves to in one scope.
type identEntry struct {
	Name       string
	HasLinkage bool
}

type resolver struct {
	table  *symbols.Table
	scopes []Scope[identEntry]
}

// Resolve renames every block scope variable and parameter to a unique
// name and checks that every identifier is declared before use.
// Identifiers with linkage keep their source name.
func Resolve(prog *ast.Program, table *symbols.Table) (err error) {
	defer catch(&err)

	r := &resolver{
		table:  table,
		scopes: []Scope[identEntry]{NewScope[identEntry](FileScope)},
	}
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			r.resolveFuncDecl(d)
		case *ast.VarDecl:
			r.resolveFileVarDecl(d)
		}
	}
	return nil
}

func (r *resolver) resolveFileVarDecl(vd *ast.VarDecl) {
	Put(r.scopes, vd.Name, identEntry{Name: vd.Name, HasLinkage: true})
	if vd.Init != nil {
		r.resolveExpr(vd.Init)
	}
}

func (r *resolver) resolveFuncDecl(fd *ast.FuncDecl) {
	if prev, ok := GetCurrent(r.scopes, fd.Name); ok && !prev.HasLinkage {
		fail(fd.Token, token.DuplicateVariable, "%q redeclared as a function", fd.Name)
	}
	if !AtFileScope(r.scopes) {
		if fd.Body != nil {
			fail(fd.Token, token.InvalidDeclaration, "nested definition of function %q", fd.Name)
		}
		if fd.Storage == ast.Static {
			fail(fd.Token, token.InvalidDeclaration, "block scope function %q cannot be static", fd.Name)
		}
	}
	Put(r.scopes, fd.Name, identEntry{Name: fd.Name, HasLinkage: true})

	// parameters and the outermost block of the body share one scope
	PushScope(&r.scopes, BlockScope)
	defer PopScope(&r.scopes)

	for i, param := range fd.Params {
		if _, ok := GetCurrent(r.scopes, param); ok {
			fail(fd.Token, token.DuplicateVariable, "duplicate parameter %q in %q", param, fd.Name)
		}
		unique := r.table.Unique(param)
		Put(r.scopes, param, identEntry{Name: unique})
		fd.Params[i] = unique
	}
	if fd.Body != nil {
		r.resolveBlockItems(fd.Body.Items)
	}
}

func (r *resolver) resolveLocalVarDecl(vd *ast.VarDecl) {
	prev, ok := GetCurrent(r.scopes, vd.Name)
	if ok && !(prev.HasLinkage && vd.Storage == ast.Extern) {
		fail(vd.Token, token.DuplicateVariable, "redeclaration of %q in the same block", vd.Name)
	}

	if vd.Storage == ast.Extern {
		Put(r.scopes, vd.Name, identEntry{Name: vd.Name, HasLinkage: true})
	} else {
		unique := r.table.Unique(vd.Name)
		Put(r.scopes, vd.Name, identEntry{Name: unique})
		vd.Name = unique
	}

	// the declared name is already in scope inside its own initializer
	if vd.Init != nil {
		r.resolveExpr(vd.Init)
	}
}

func (r *resolver) resolveBlockItems(items []ast.BlockItem) {
	for _, item := range items {
		switch it := item.(type) {
		case *ast.VarDecl:
			r.resolveLocalVarDecl(it)
		case *ast.FuncDecl:
			r.resolveFuncDecl(it)
		case ast.Statement:
			r.resolveStatement(it)
		}
	}
}

func (r *resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		r.resolveExpr(s.Value)
	case *ast.ExpressionStatement:
		r.resolveExpr(s.Expression)
	case *ast.IfStatement:
		r.resolveExpr(s.Condition)
		r.resolveStatement(s.Consequence)
		if s.Alternative != nil {
			r.resolveStatement(s.Alternative)
		}
	case *ast.CompoundStatement:
		PushScope(&r.scopes, BlockScope)
		r.resolveBlockItems(s.Block.Items)
		PopScope(&r.scopes)
	case *ast.WhileStatement:
		r.resolveExpr(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.DoWhileStatement:
		r.resolveStatement(s.Body)
		r.resolveExpr(s.Condition)
	case *ast.ForStatement:
		r.resolveFor(s)
	case *ast.SwitchStatement:
		r.resolveExpr(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.CaseStatement:
		r.resolveExpr(s.Value)
		r.resolveStatement(s.Body)
	case *ast.DefaultStatement:
		r.resolveStatement(s.Body)
	case *ast.LabeledStatement:
		r.resolveStatement(s.Body)
	}
}

func (r *resolver) resolveFor(s *ast.ForStatement) {
	PushScope(&r.scopes, BlockScope)
	defer PopScope(&r.scopes)

	switch init := s.Init.(type) {
	case *ast.VarDecl:
		if init.Storage != ast.NoStorage {
			fail(init.Token, token.InvalidDeclaration, "%s declaration of %q in for loop initializer", init.Storage, init.Name)
		}
		r.resolveLocalVarDecl(init)
	case *ast.InitExpression:
		if init.Expression != nil {
			r.resolveExpr(init.Expression)
		}
	}
	if s.Condition != nil {
		r.resolveExpr(s.Condition)
	}
	if s.Post != nil {
		r.resolveExpr(s.Post)
	}
	r.resolveStatement(s.Body)
}

func (r *resolver) resolveExpr(exp ast.Expression) {
	switch e := exp.(type) {
	case *ast.Var:
		entry, ok := Get(r.scopes, e.Name)
		if !ok {
			fail(e.Token, token.UndeclaredVariable, "use of undeclared identifier %q", e.Name)
		}
		e.Name = entry.Name
	case *ast.Call:
		entry, ok := Get(r.scopes, e.Function)
		if !ok {
			fail(e.Token, token.UndeclaredVariable, "call to undeclared function %q", e.Function)
		}
		e.Function = entry.Name
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Unary:
		r.resolveExpr(e.Operand)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Assignment:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.CompoundAssignment:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Conditional:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Cast:
		r.resolveExpr(e.Operand)
	case *ast.Dereference:
		r.resolveExpr(e.Operand)
	case *ast.AddrOf:
		r.resolveExpr(e.Operand)
	case *ast.IncDec:
		r.resolveExpr(e.Operand)
	}
}
