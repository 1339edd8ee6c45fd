// Package llvmgen translates lowered IR into an LLVM module. Every local
// variable and temporary gets a stack slot, statics become module globals
// and IR labels become basic blocks.
package llvmgen

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/types"
	"tinygo.org/x/go-llvm"
)

type Generator struct {
	Context llvm.Context
	Module  llvm.Module
	builder llvm.Builder
	table   *symbols.Table

	locals     map[string]llvm.Value // stack slots of the current function
	blocks     map[string]llvm.BasicBlock
	fn         llvm.Value
	terminated bool // the current block already ends in a terminator
	blockCount int
}

func NewGenerator(ctx llvm.Context, moduleName string, table *symbols.Table) *Generator {
	return &Generator{
		Context: ctx,
		Module:  ctx.NewModule(moduleName),
		builder: ctx.NewBuilder(),
		table:   table,
	}
}

// Generate builds and verifies the module for prog. The caller owns the
// returned module.
func Generate(ctx llvm.Context, moduleName string, prog *ir.Program, table *symbols.Table) (llvm.Module, error) {
	g := NewGenerator(ctx, moduleName, table)
	defer g.builder.Dispose()

	if err := g.Emit(prog); err != nil {
		g.Module.Dispose()
		return llvm.Module{}, err
	}
	return g.Module, nil
}

// Emit adds every function and global of prog to the module and runs the
// LLVM verifier over the result.
func (g *Generator) Emit(prog *ir.Program) error {
	g.declareFunctions()
	g.declareGlobals(prog)

	for _, fn := range prog.Items {
		if f, ok := fn.(*ir.Function); ok {
			g.emitFunction(f)
		}
	}

	if err := llvm.VerifyModule(g.Module, llvm.ReturnStatusAction); err != nil {
		return errors.Wrap(err, "llvm verification failed")
	}
	return nil
}

// GenerateIR renders the module as textual LLVM IR.
func (g *Generator) GenerateIR() string {
	return g.Module.String()
}

func (g *Generator) mapToLLVMType(t types.Type) llvm.Type {
	switch t.Kind() {
	case types.IntKind, types.UIntKind:
		return g.Context.Int32Type()
	case types.LongKind, types.ULongKind:
		return g.Context.Int64Type()
	case types.DoubleKind:
		return g.Context.DoubleType()
	case types.PointerKind:
		return llvm.PointerType(g.mapToLLVMType(t.(types.Pointer).Referenced), 0)
	case types.FuncKind:
		f := t.(types.Func)
		params := make([]llvm.Type, len(f.Params))
		for i, p := range f.Params {
			params[i] = g.mapToLLVMType(p)
		}
		return llvm.FunctionType(g.mapToLLVMType(f.Ret), params, false)
	}
	panic("unknown type in mapToLLVMType: " + t.String())
}

func (g *Generator) declareFunctions() {
	for _, sym := range g.table.Symbols() {
		attr, ok := sym.Attrs.(symbols.FunAttr)
		if !ok {
			continue
		}
		fn := llvm.AddFunction(g.Module, sym.Name, g.mapToLLVMType(sym.Type))
		if !attr.Global {
			fn.SetLinkage(llvm.InternalLinkage)
		}
	}
}

// declareGlobals defines a global for each static variable and declares
// one for every static symbol defined elsewhere.
func (g *Generator) declareGlobals(prog *ir.Program) {
	for _, sv := range prog.Statics() {
		global := llvm.AddGlobal(g.Module, g.mapToLLVMType(sv.Type), sv.Name)
		global.SetInitializer(g.constant(sv.Init))
		if !sv.Global {
			global.SetLinkage(llvm.InternalLinkage)
		}
	}
	for _, sym := range g.table.Symbols() {
		attr, ok := sym.Attrs.(symbols.StaticAttr)
		if !ok || attr.Init.Kind != symbols.NoInitializer {
			continue
		}
		global := llvm.AddGlobal(g.Module, g.mapToLLVMType(sym.Type), sym.Name)
		global.SetLinkage(llvm.ExternalLinkage)
	}
}

func (g *Generator) constant(c types.Const) llvm.Value {
	t := g.mapToLLVMType(c.Type)
	switch {
	case c.Type.Kind() == types.DoubleKind:
		return llvm.ConstFloat(t, c.Float)
	case types.IsPointer(c.Type):
		if c.Bits == 0 {
			return llvm.ConstPointerNull(t)
		}
		return llvm.ConstIntToPtr(llvm.ConstInt(g.Context.Int64Type(), c.Bits, false), t)
	}
	return llvm.ConstInt(t, c.Bits, types.IsSigned(c.Type))
}

func (g *Generator) typeOf(v ir.Val) types.Type {
	switch v := v.(type) {
	case ir.Constant:
		return v.Value.Type
	case ir.Var:
		sym, ok := g.table.Get(v.Name)
		if !ok {
			panic("llvmgen: no symbol for " + v.Name)
		}
		return sym.Type
	}
	panic(fmt.Sprintf("llvmgen: unexpected operand %T", v))
}

// slot returns the address holding a variable: a stack slot for locals,
// the global otherwise.
func (g *Generator) slot(name string) llvm.Value {
	if p, ok := g.locals[name]; ok {
		return p
	}
	global := g.Module.NamedGlobal(name)
	if global.IsNil() {
		panic("llvmgen: unknown variable " + name)
	}
	return global
}

func (g *Generator) value(v ir.Val) llvm.Value {
	switch v := v.(type) {
	case ir.Constant:
		return g.constant(v.Value)
	case ir.Var:
		return g.builder.CreateLoad(g.mapToLLVMType(g.typeOf(v)), g.slot(v.Name), v.Name)
	}
	panic(fmt.Sprintf("llvmgen: unexpected operand %T", v))
}

func (g *Generator) set(dst ir.Var, val llvm.Value) {
	g.builder.CreateStore(val, g.slot(dst.Name))
}
