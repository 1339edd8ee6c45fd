package llvmgen

import (
	"fmt"

	"github.com/thiremani/cfront/ir"
	"github.com/thiremani/cfront/symbols"
	"github.com/thiremani/cfront/types"
	"tinygo.org/x/go-llvm"
)

func (g *Generator) emitFunction(f *ir.Function) {
	g.fn = g.Module.NamedFunction(f.Name)
	g.locals = map[string]llvm.Value{}
	g.blocks = map[string]llvm.BasicBlock{}
	g.blockCount = 0

	entry := g.Context.AddBasicBlock(g.fn, "entry")
	g.builder.SetInsertPointAtEnd(entry)
	g.terminated = false

	for _, name := range g.localNames(f) {
		sym, _ := g.table.Get(name)
		g.locals[name] = g.builder.CreateAlloca(g.mapToLLVMType(sym.Type), name+".addr")
	}
	for i, param := range f.Params {
		g.builder.CreateStore(g.fn.Param(i), g.locals[param])
	}

	for _, instr := range f.Body {
		if l, ok := instr.(*ir.Label); ok {
			g.blocks[l.Name] = g.Context.AddBasicBlock(g.fn, l.Name)
		}
	}

	for _, instr := range f.Body {
		g.emitInstruction(instr)
	}
	if !g.terminated {
		g.builder.CreateUnreachable()
	}
}

// localNames lists the parameters, then every other local variable the body
// mentions, in order of first appearance.
func (g *Generator) localNames(f *ir.Function) []string {
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if sym, ok := g.table.Get(name); ok {
			if _, local := sym.Attrs.(symbols.LocalAttr); local {
				names = append(names, name)
			}
		}
	}

	for _, p := range f.Params {
		add(p)
	}
	for _, instr := range f.Body {
		for _, src := range ir.Sources(instr) {
			if v, ok := src.(ir.Var); ok {
				add(v.Name)
			}
		}
		if dst, ok := ir.Dest(instr); ok {
			add(dst.Name)
		}
	}
	return names
}

// startBlock moves the insertion point to a fresh block. Code after an
// unconditional jump or return lands there even when nothing reaches it.
func (g *Generator) startBlock(bb llvm.BasicBlock) {
	g.builder.SetInsertPointAtEnd(bb)
	g.terminated = false
}

func (g *Generator) freshBlock(hint string) llvm.BasicBlock {
	g.blockCount++
	return g.Context.AddBasicBlock(g.fn, fmt.Sprintf("%s.%d", hint, g.blockCount))
}

func (g *Generator) emitInstruction(instr ir.Instruction) {
	switch i := instr.(type) {
	case *ir.Label:
		bb := g.blocks[i.Name]
		if !g.terminated {
			g.builder.CreateBr(bb)
		}
		g.startBlock(bb)
	case *ir.Return:
		g.builder.CreateRet(g.value(i.Val))
		g.terminated = true
		g.startBlock(g.freshBlock("after.return"))
	case *ir.Jump:
		g.builder.CreateBr(g.blocks[i.Target])
		g.terminated = true
		g.startBlock(g.freshBlock("after.jump"))
	case *ir.JumpIfZero:
		next := g.freshBlock("next")
		g.builder.CreateCondBr(g.isZero(i.Cond), g.blocks[i.Target], next)
		g.startBlock(next)
	case *ir.JumpIfNotZero:
		next := g.freshBlock("next")
		g.builder.CreateCondBr(g.isZero(i.Cond), next, g.blocks[i.Target])
		g.startBlock(next)
	case *ir.Copy:
		g.set(i.Dst, g.reinterpret(g.value(i.Src), g.typeOf(i.Src), g.typeOf(i.Dst)))
	case *ir.Unary:
		g.set(i.Dst, g.unary(i))
	case *ir.Binary:
		g.set(i.Dst, g.binary(i))
	case *ir.Convert:
		g.set(i.Dst, g.convert(i))
	case *ir.GetAddress:
		g.set(i.Dst, g.slot(i.Src.Name))
	case *ir.Load:
		ptr := g.value(i.Ptr)
		g.set(i.Dst, g.builder.CreateLoad(g.mapToLLVMType(g.typeOf(i.Dst)), ptr, i.Dst.Name))
	case *ir.Store:
		g.builder.CreateStore(g.value(i.Src), g.value(i.Ptr))
	case *ir.FunCall:
		sym, _ := g.table.Get(i.Name)
		args := make([]llvm.Value, len(i.Args))
		for j, a := range i.Args {
			args[j] = g.value(a)
		}
		fn := g.Module.NamedFunction(i.Name)
		g.set(i.Dst, g.builder.CreateCall(g.mapToLLVMType(sym.Type), fn, args, i.Dst.Name))
	default:
		panic(fmt.Sprintf("llvmgen: unexpected instruction %T", instr))
	}
}

// isZero compares a scalar operand against zero and yields an i1.
func (g *Generator) isZero(v ir.Val) llvm.Value {
	t := g.typeOf(v)
	val := g.value(v)
	lt := g.mapToLLVMType(t)
	switch {
	case t.Kind() == types.DoubleKind:
		return g.builder.CreateFCmp(llvm.FloatOEQ, val, llvm.ConstFloat(lt, 0), "iszero")
	case types.IsPointer(t):
		return g.builder.CreateICmp(llvm.IntEQ, val, llvm.ConstPointerNull(lt), "iszero")
	}
	return g.builder.CreateICmp(llvm.IntEQ, val, llvm.ConstInt(lt, 0, false), "iszero")
}

// reinterpret moves a value between two same-size types, which only needs
// an instruction when one side is a pointer.
func (g *Generator) reinterpret(val llvm.Value, from, to types.Type) llvm.Value {
	switch {
	case types.IsPointer(to) && !types.IsPointer(from):
		return g.builder.CreateIntToPtr(val, g.mapToLLVMType(to), "inttoptr")
	case types.IsPointer(from) && !types.IsPointer(to):
		return g.builder.CreatePtrToInt(val, g.mapToLLVMType(to), "ptrtoint")
	}
	return val
}
