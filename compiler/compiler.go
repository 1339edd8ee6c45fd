package compiler

import (
	"github.com/thiremani/cfront/ast"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/types"
)

// Compiler lowers a validated, typed AST to three-address IR. It shares the
// symbol table with the semantic passes: temporaries are registered there
// as locals so later consumers can look up their types.
type Compiler struct {
	table  *symbols.Table
	instrs []ir.Instruction
	temps  []string
}

func NewCompiler(table *symbols.Table) *Compiler {
	return &Compiler{table: table}
}

// Compile lowers every function definition in source order, then emits a
// static variable for every symbol with static storage that has a
// definition in this translation unit.
func (c *Compiler) Compile(prog *ast.Program) *ir.Program {
	out := &ir.Program{}
	for _, decl := range prog.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		out.Items = append(out.Items, c.compileFunction(fd))
	}
	for _, sv := range c.staticVariables() {
		out.Items = append(out.Items, sv)
	}
	return out
}

func (c *Compiler) compileFunction(fd *ast.FuncDecl) *ir.Function {
	c.instrs = nil
	c.temps = nil

	c.compileBlock(fd.Body)
	// falling off the end returns zero
	c.emit(&ir.Return{Val: ir.Constant{Value: types.Zero(fd.FuncType.Ret)}})

	global := true
	if sym, ok := c.table.Get(fd.Name); ok {
		global = sym.IsGlobal()
	}
	return &ir.Function{
		Name:   fd.Name,
		Global: global,
		Params: append([]string(nil), fd.Params...),
		Body:   c.instrs,
		Temps:  c.temps,
	}
}

func (c *Compiler) staticVariables() []*ir.StaticVariable {
	var out []*ir.StaticVariable
	for _, sym := range c.table.Symbols() {
		attr, ok := sym.Attrs.(symbols.StaticAttr)
		if !ok {
			continue
		}
		var init types.Const
		switch attr.Init.Kind {
		case symbols.Initial:
			init = attr.Init.Value
		case symbols.Tentative:
			init = types.Zero(sym.Type)
		default:
			continue
		}
		out = append(out, &ir.StaticVariable{
			Name:   sym.Name,
			Global: attr.Global,
			Type:   sym.Type,
			Init:   init,
		})
	}
	return out
}

func (c *Compiler) emit(instr ir.Instruction) {
	c.instrs = append(c.instrs, instr)
}

// newTemp allocates a fresh temporary of type t.
func (c *Compiler) newTemp(t types.Type) ir.Var {
	name := c.table.Unique("tmp")
	c.table.Add(name, t, symbols.LocalAttr{})
	c.temps = append(c.temps, name)
	return ir.Var{Name: name}
}

// newResult allocates the variable that the branches of a short-circuit
// or conditional expression write their value into.
func (c *Compiler) newResult(construct string, t types.Type) ir.Var {
	name := construct + ".result"
	c.table.Add(name, t, symbols.LocalAttr{})
	return ir.Var{Name: name}
}

// newLabels returns the id-qualified prefix for one construct, e.g. "if.7".
func (c *Compiler) newLabels(kind string) string {
	return c.table.Unique(kind)
}
