// Package semantic validates and annotates a parsed translation unit:
// identifier resolution, label resolution, type checking and loop/switch
// labeling. Each pass stops at the first error.
package semantic

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/token"
)

// Analyze runs every pass in order. On success prog is fully typed and
// labeled and table describes every identifier in it.
func Analyze(prog *ast.Program, table *symbols.Table) error {
	passes := []func(*ast.Program, *symbols.Table) error{
		Resolve,
		ResolveLabels,
		TypeCheck,
		LabelLoops,
	}
	for _, pass := range passes {
		if err := pass(prog, table); err != nil {
			return err
		}
	}
	return nil
}

// bailout carries the first error out of a recursive walk.
type bailout struct {
	err *token.CompileError
}

func fail(tok token.Token, kind token.ErrorKind, format string, args ...any) {
	panic(bailout{err: token.Errorf(tok, kind, format, args...)})
}

// catch turns a bailout into an error return. Other panics propagate.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	*err = b.err
}
