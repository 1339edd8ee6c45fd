package compiler

import (
	"github.com/pkg/errors"
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/lexer"
	"github.com/thiremani/cfront/parser"
	"github.com/thiremani/cfront/semantic"
	"github.com/thiremani/cfront/symbols"
)

// Unit is one compiled translation unit.
type Unit struct {
	AST   *ast.Program
	Table *symbols.Table
	IR    *ir.Program
}

// CompileSource runs the whole front end on one source file. Diagnostics
// about the program come back as *token.CompileError; anything else means
// lowering broke its own guarantees.
func CompileSource(fileName, src string) (*Unit, error) {
	p := parser.New(lexer.New(fileName, src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}

	table := symbols.NewTable()
	if err := semantic.Analyze(prog, table); err != nil {
		return nil, err
	}

	out := NewCompiler(table).Compile(prog)
	if err := ir.Validate(out); err != nil {
		return nil, errors.Wrapf(err, "lowering %s produced invalid IR", fileName)
	}

	return &Unit{AST: prog, Table: table, IR: out}, nil
}
